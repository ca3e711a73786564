package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgtx "library-catalog/pkg/database"
)

// schemaStatements tạo tables cho catalog.
// books.author_id KHÔNG có foreign key: reference được resolve lúc đọc (populate),
// xóa author không cascade ở tầng database.
// idx_books_isbn_lower không unique: ISBN uniqueness check ở application level.
// Tên author là TEXT: giới hạn 100 ký tự check trước escape, giá trị lưu có thể dài hơn.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id            UUID PRIMARY KEY,
		first_name    TEXT NOT NULL,
		family_name   TEXT NOT NULL,
		date_of_birth DATE,
		date_of_death DATE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// schema cũ dùng VARCHAR(100)
	`ALTER TABLE authors ALTER COLUMN first_name TYPE TEXT, ALTER COLUMN family_name TYPE TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_authors_family_name ON authors (family_name)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               UUID PRIMARY KEY,
		title            TEXT NOT NULL,
		author_id        UUID NOT NULL,
		summary          TEXT NOT NULL,
		isbn             TEXT NOT NULL,
		publication_date DATE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author_id ON books (author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_books_isbn_lower ON books (lower(isbn))`,
}

// Migrate chạy DDL idempotent (IF NOT EXISTS) trong một transaction,
// lỗi giữa chừng thì không bảng nào được tạo
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	err := pgtx.WithTransaction(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[DATABASE] Schema up to date (%d statements)", len(schemaStatements))
	return nil
}
