package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CountTTL)
	assert.Equal(t, "@every 1h", cfg.Jobs.OrphanSweepCron)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":   {"STORE_DRIVER": "sqlite"},
		"memory in prod":   {"STORE_DRIVER": "memory", "APP_ENV": "production"},
		"zero concurrency": {"STORE_DRIVER": "memory", "JOB_CONCURRENCY": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("REDIS_COUNT_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CountTTL)
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_CONNECTIONS", "20")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.EqualValues(t, 20, cfg.MaxConns)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
}

func TestLoadDatabaseConfig_ReportsEveryBadVariable(t *testing.T) {
	t.Setenv("DB_PORT", "five")
	t.Setenv("DB_CONNECT_TIMEOUT", "ten")

	_, err := LoadDatabaseConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "DB_CONNECT_TIMEOUT")
}

func TestLoadDatabaseConfig_DatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://lib:pw@pg:6543/books?sslmode=require")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)

	assert.Equal(t, "pg", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "lib", cfg.Username)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, "books", cfg.DBName)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestLoadDatabaseConfig_MinAboveMax(t *testing.T) {
	t.Setenv("DB_MIN_CONNECTIONS", "8")
	t.Setenv("DB_MAX_CONNECTIONS", "4")

	_, err := LoadDatabaseConfig()
	assert.Error(t, err)
}
