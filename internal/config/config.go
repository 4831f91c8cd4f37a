package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Subpath   string `json:"subpath"`
	JWTSecret string `json:"jwtSecret"`
}

type DatabaseConfig struct {
	Driver string `json:"driver"` // "sqlite" or "postgres"
	DSN    string `json:"dsn"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// PalConfig tunes the growth engine.
type PalConfig struct {
	VocabularyCap int     `json:"vocabulary_cap"`
	MemoryCap     int     `json:"memory_cap"`
	XPMultiplier  float64 `json:"xp_multiplier"`
}

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Pal      PalConfig      `json:"pal"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		if c.Database.Driver == "" {
			c.Database.Driver = "sqlite"
		}
		if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
			c.Database.DSN = "mypal.db"
		}
		if c.Pal.XPMultiplier <= 0 {
			c.Pal.XPMultiplier = 1
		}
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
