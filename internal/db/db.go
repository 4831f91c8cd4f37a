package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mypal/internal/config"
	"mypal/internal/profile"
	"mypal/internal/user"
)

var DB *gorm.DB

// Init opens the configured database (sqlite for single-box installs,
// postgres for shared deployments) and migrates all models.
func Init(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&profile.Profile{}, &profile.ChatMessage{}, &profile.PalRecord{}); err != nil {
		return err
	}

	DB = db
	log.Printf("[DB] Connected (%s) and migrated", cfg.Database.Driver)
	return nil
}
