package main

import (
	"fmt"
	"os"
	"time"

	"mypal/internal/api"
	"mypal/internal/config"
	"mypal/internal/db"
	"mypal/internal/pal"
	"mypal/internal/profile"
	redisdb "mypal/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	// Background vocabulary aging.
	decay := pal.NewDecayWorker(profile.NewManager(db.DB), 6*time.Hour)
	go decay.Start()

	r := api.SetupRouter(cfg, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
