package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, author_id, summary, isbn, publication_date, created_at, updated_at`

// populated select: books LEFT JOIN authors, author columns nullable
const selectPopulated = `
	SELECT b.id, b.title, b.author_id, b.summary, b.isbn, b.publication_date, b.created_at, b.updated_at,
	       a.id, a.first_name, a.family_name, a.date_of_birth, a.date_of_death, a.created_at, a.updated_at
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id`

// sort whitelist, missing publication dates always last.
// Title so sánh không phân biệt hoa thường như memory / mongo.
var bookOrderBy = map[string]string{
	model.SortTitleAsc:      "lower(b.title) ASC, b.id ASC",
	model.SortTitleDesc:     "lower(b.title) DESC, b.id ASC",
	model.SortPublishedAsc:  "b.publication_date ASC NULLS LAST, lower(b.title) ASC, b.id ASC",
	model.SortPublishedDesc: "b.publication_date DESC NULLS LAST, lower(b.title) ASC, b.id ASC",
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.AuthorID,
		&b.Summary,
		&b.ISBN,
		&b.PublicationDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanPopulated(row pgx.Row) (*model.Book, error) {
	var (
		b        model.Book
		aID      *uuid.UUID
		aFirst   *string
		aFamily  *string
		aBirth   *time.Time
		aDeath   *time.Time
		aCreated *time.Time
		aUpdated *time.Time
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.Summary, &b.ISBN, &b.PublicationDate, &b.CreatedAt, &b.UpdatedAt,
		&aID, &aFirst, &aFamily, &aBirth, &aDeath, &aCreated, &aUpdated,
	)
	if err != nil {
		return nil, err
	}

	if aID != nil {
		b.Author = &authorModel.Author{
			ID:          *aID,
			FirstName:   *aFirst,
			FamilyName:  *aFamily,
			DateOfBirth: aBirth,
			DateOfDeath: aDeath,
			CreatedAt:   *aCreated,
			UpdatedAt:   *aUpdated,
		}
	}
	return &b, nil
}

func (r *postgresRepository) queryPopulated(ctx context.Context, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanPopulated(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

// List filters by title substring (case-insensitive) and sorts by whitelisted key
func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	var qb strings.Builder
	qb.WriteString(selectPopulated)

	args := []interface{}{}
	if filter.Search != "" {
		qb.WriteString(` WHERE b.title ILIKE $1`)
		args = append(args, "%"+utils.EscapeLike(filter.Search)+"%")
	}
	qb.WriteString(` ORDER BY ` + bookOrderBy[model.ParseSort(filter.Sort)])

	return r.queryPopulated(ctx, qb.String(), args...)
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	return r.queryPopulated(ctx, selectPopulated+` WHERE b.author_id = $1 ORDER BY lower(b.title) ASC, b.id ASC`, authorID)
}

func (r *postgresRepository) ListOrphans(ctx context.Context) ([]model.Book, error) {
	return r.queryPopulated(ctx, selectPopulated+` WHERE a.id IS NULL ORDER BY b.created_at ASC`)
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, err := scanPopulated(r.pool.QueryRow(ctx, selectPopulated+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return b, nil
}

// FindByISBN dùng index lower(isbn)
func (r *postgresRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	b, err := scanPopulated(r.pool.QueryRow(ctx,
		selectPopulated+` WHERE lower(b.isbn) = lower($1) ORDER BY b.created_at ASC LIMIT 1`, isbn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find book by isbn: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query := `
		INSERT INTO books (id, title, author_id, summary, isbn, publication_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bookColumns

	created, err := scanBook(r.pool.QueryRow(ctx, query,
		b.ID,
		b.Title,
		b.AuthorID,
		b.Summary,
		b.ISBN,
		b.PublicationDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return created, nil
}

// Update replaces every field of the row with the same id
func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
		UPDATE books
		SET title = $2, author_id = $3, summary = $4, isbn = $5, publication_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	updated, err := scanBook(r.pool.QueryRow(ctx, query,
		b.ID,
		b.Title,
		b.AuthorID,
		b.Summary,
		b.ISBN,
		b.PublicationDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
