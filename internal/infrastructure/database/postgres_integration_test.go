//go:build integration
// +build integration

package database

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgtx "library-catalog/pkg/database"
)

func startPostgres(t *testing.T) *PostgresDB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("local_library"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	db := NewPostgresDB(&DBConfig{
		Host: host, Port: portNum, Username: "catalog", Password: "catalog",
		DBName: "local_library", SSLMode: "disable",
		MaxConns: 4, MinConns: 1,
		MaxConnLifetime: time.Minute, MaxConnIdleTime: time.Minute, HealthCheckPeriod: time.Minute,
		MaxRetries: 3, RetryDelay: 500 * time.Millisecond, ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(db.Close)

	return db
}

func TestConnectMigrateHealthCheck(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t)

	require.NoError(t, db.HealthCheck(ctx))
	require.NoError(t, Migrate(ctx, db.Pool))
	// chạy lại không lỗi
	require.NoError(t, Migrate(ctx, db.Pool))

	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('authors', 'books')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t)
	require.NoError(t, Migrate(ctx, db.Pool))

	boom := errors.New("boom")
	err := pgtx.WithTransaction(ctx, db.Pool, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO authors (id, first_name, family_name) VALUES (gen_random_uuid(), 'Jane', 'Austen')`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM authors`).Scan(&n))
	assert.Zero(t, n)
}
