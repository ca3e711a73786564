package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"library-catalog/internal/infrastructure/database"
)

// envParser gom lỗi parse, báo tất cả biến sai một lần
type envParser struct {
	errs []error
}

func (p *envParser) intVar(key, def string) int {
	v, err := strconv.Atoi(getEnv(key, def))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}

func (p *envParser) durationVar(key, def string) time.Duration {
	v, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}

// LoadDatabaseConfig đọc DB_* env cho pgx pool.
// DATABASE_URL (nếu có) chỉ dùng để override host/port/user/password/dbname.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	p := &envParser{}

	cfg := &database.DBConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     p.intVar("DB_PORT", "5432"),
		Username: getEnv("DB_USER", "catalog"),
		Password: getEnv("DB_PASSWORD", "secret"),
		DBName:   getEnv("DB_NAME", "local_library"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxConns:          int32(p.intVar("DB_MAX_CONNECTIONS", "10")),
		MinConns:          int32(p.intVar("DB_MIN_CONNECTIONS", "2")),
		MaxConnLifetime:   p.durationVar("DB_MAX_CONN_LIFETIME", "5m"),
		MaxConnIdleTime:   p.durationVar("DB_MAX_CONN_IDLE_TIME", "1m"),
		HealthCheckPeriod: p.durationVar("DB_HEALTH_CHECK_PERIOD", "1m"),

		MaxRetries:     p.intVar("DB_MAX_RETRIES", "5"),
		RetryDelay:     p.durationVar("DB_RETRY_DELAY", "1s"),
		ConnectTimeout: p.durationVar("DB_CONNECT_TIMEOUT", "10s"),
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		if err := cfg.ApplyURL(url); err != nil {
			p.errs = append(p.errs, fmt.Errorf("invalid DATABASE_URL: %w", err))
		}
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if cfg.MinConns > cfg.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", cfg.MinConns, cfg.MaxConns)
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	return cfg, nil
}
