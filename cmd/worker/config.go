package main

import (
	"log"
	"os"

	"library-catalog/internal/config"
)

// Config là phần cấu hình riêng của worker process
type Config struct {
	Redis      config.RedisConfig
	Jobs       config.JobConfig
	HealthAddr string
}

// loadConfig lấy Redis + Jobs từ app config, health address từ env
func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		Redis:      app.Redis,
		Jobs:       app.Jobs,
		HealthAddr: os.Getenv("WORKER_HEALTH_ADDR"),
	}
	if cfg.HealthAddr == "" {
		cfg.HealthAddr = ":9999"
	}

	log.Printf("[Config] Redis: %s, concurrency: %d, orphan sweep: %q",
		cfg.Redis.Host, cfg.Jobs.Concurrency, cfg.Jobs.OrphanSweepCron)

	return cfg
}
