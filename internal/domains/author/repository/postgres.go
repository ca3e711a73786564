package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/shared/utils"
)

// postgresRepository implements RepositoryInterface on a pgx pool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorColumns = `id, first_name, family_name, date_of_birth, date_of_death, created_at, updated_at`

// sort whitelist, never interpolate the raw query value
var authorOrderBy = map[string]string{
	model.SortNameAsc:  "lower(family_name) ASC, lower(first_name) ASC, id ASC",
	model.SortNameDesc: "lower(family_name) DESC, lower(first_name) DESC, id ASC",
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.FamilyName,
		&a.DateOfBirth,
		&a.DateOfDeath,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns authors matching the name filter in the requested order
func (r *postgresRepository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + authorColumns + ` FROM authors`)

	args := []interface{}{}
	if filter.Search != "" {
		qb.WriteString(` WHERE first_name ILIKE $1 OR family_name ILIKE $1`)
		args = append(args, "%"+utils.EscapeLike(filter.Search)+"%")
	}
	qb.WriteString(` ORDER BY ` + authorOrderBy[model.ParseSort(filter.Sort)])

	rows, err := r.pool.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authors: %w", err)
	}

	return authors, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	a, err := scanAuthor(r.pool.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Author, error) {
	out := make(map[uuid.UUID]*model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get authors by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

// Create inserts a new author. A nil ID gets a fresh uuid.
func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO authors (id, first_name, family_name, date_of_birth, date_of_death)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(ctx, query,
		a.ID,
		a.FirstName,
		a.FamilyName,
		a.DateOfBirth,
		a.DateOfDeath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return created, nil
}

// Update replaces every field of the row with the same id
func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
		UPDATE authors
		SET first_name = $2, family_name = $3, date_of_birth = $4, date_of_death = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(ctx, query,
		a.ID,
		a.FirstName,
		a.FamilyName,
		a.DateOfBirth,
		a.DateOfDeath,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return updated, nil
}

// Delete is idempotent; zero affected rows is not an error
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	return nil
}
