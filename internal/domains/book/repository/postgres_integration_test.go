//go:build integration
// +build integration

package repository

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	authorModel "library-catalog/internal/domains/author/model"
	authorRepo "library-catalog/internal/domains/author/repository"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/infrastructure/database"
)

// setupPostgres starts a container, migrates the schema and returns a pool
func setupPostgres(t *testing.T) *pgxpool.Pool {
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
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)

	authors := authorRepo.NewPostgresRepository(pool)
	books := NewPostgresRepository(pool)

	born := time.Date(1775, 12, 16, 0, 0, 0, 0, time.UTC)
	austen, err := authors.Create(ctx, &authorModel.Author{FirstName: "Jane", FamilyName: "Austen", DateOfBirth: &born})
	require.NoError(t, err)

	mk := func(title, isbn string, published *time.Time) *model.Book {
		b, err := books.Create(ctx, &model.Book{Title: title, AuthorID: austen.ID, Summary: "s", ISBN: isbn, PublicationDate: published})
		require.NoError(t, err)
		return b
	}
	d := func(y int, m time.Month, day int) *time.Time {
		t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	emma := mk("Emma", "ISBN-111", d(2020, 1, 1))
	mk("Persuasion", "222", d(1999, 5, 5))
	mk("Sanditon", "333", d(2010, 7, 7))
	mk("Lady Susan", "444", nil)

	t.Run("round trip with populated author", func(t *testing.T) {
		got, err := books.GetByID(ctx, emma.ID)
		require.NoError(t, err)
		assert.Equal(t, "Emma", got.Title)
		assert.Equal(t, "ISBN-111", got.ISBN)
		require.NotNil(t, got.Author)
		assert.Equal(t, "Austen, Jane", got.Author.Name())
		assert.Equal(t, "Dec 16, 1775 - ", got.Author.Lifespan())
	})

	t.Run("published_desc puts missing dates last", func(t *testing.T) {
		list, err := books.List(ctx, model.BookFilter{Sort: model.SortPublishedDesc})
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, []string{"Emma", "Sanditon", "Persuasion", "Lady Susan"},
			[]string{list[0].Title, list[1].Title, list[2].Title, list[3].Title})
	})

	t.Run("search is case-insensitive and literal", func(t *testing.T) {
		list, err := books.List(ctx, model.BookFilter{Search: "SUAS"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Persuasion", list[0].Title)

		list, err = books.List(ctx, model.BookFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("isbn lookup ignores case", func(t *testing.T) {
		got, err := books.FindByISBN(ctx, "isbn-111")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, emma.ID, got.ID)
	})

	t.Run("update keeps id, missing id is not found", func(t *testing.T) {
		updated, err := books.Update(ctx, &model.Book{ID: emma.ID, Title: "Emma!", AuthorID: austen.ID, Summary: "s2", ISBN: "ISBN-111"})
		require.NoError(t, err)
		assert.Equal(t, emma.ID, updated.ID)
		assert.Nil(t, updated.PublicationDate)

		_, err = books.Update(ctx, &model.Book{ID: uuid.New(), AuthorID: austen.ID})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})

	t.Run("author delete leaves orphans", func(t *testing.T) {
		require.NoError(t, authors.Delete(ctx, austen.ID))
		require.NoError(t, authors.Delete(ctx, austen.ID))

		orphans, err := books.ListOrphans(ctx)
		require.NoError(t, err)
		assert.Len(t, orphans, 4)

		got, err := books.GetByID(ctx, emma.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Author)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, books.Delete(ctx, emma.ID))
		require.NoError(t, books.Delete(ctx, emma.ID))

		n, err := books.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestPostgresAuthors_EscapedNameAtLengthLimit(t *testing.T) {
	ctx := context.Background()
	authors := authorRepo.NewPostgresRepository(setupPostgres(t))

	// 100 runes pass the form, escaping the apostrophe stores 104
	name := "O'" + strings.Repeat("a", 98)
	res := authorModel.FormSchema.Run(url.Values{"first_name": {name}, "family_name": {name}})
	require.True(t, res.Valid(), res.Errors)

	created, err := authors.Create(ctx, authorModel.NewAuthorForm(res).ToAuthor())
	require.NoError(t, err)

	got, err := authors.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "O&#39;"+strings.Repeat("a", 98), got.FirstName)
}

func TestPostgresRepositories_OrderIgnoresCase(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)

	authors := authorRepo.NewPostgresRepository(pool)
	books := NewPostgresRepository(pool)

	for _, family := range []string{"banks", "Austen", "Carroll"} {
		_, err := authors.Create(ctx, &authorModel.Author{FirstName: "x", FamilyName: family})
		require.NoError(t, err)
	}
	list, err := authors.List(ctx, authorModel.AuthorFilter{Sort: authorModel.SortNameAsc})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Austen", "banks", "Carroll"},
		[]string{list[0].FamilyName, list[1].FamilyName, list[2].FamilyName})

	for i, title := range []string{"cherry", "Banana", "apple"} {
		_, err := books.Create(ctx, &model.Book{Title: title, AuthorID: list[0].ID, Summary: "s", ISBN: title + string(rune('0'+i))})
		require.NoError(t, err)
	}
	asc, err := books.List(ctx, model.BookFilter{Sort: model.SortTitleAsc})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, []string{asc[0].Title, asc[1].Title, asc[2].Title})

	desc, err := books.List(ctx, model.BookFilter{Sort: model.SortTitleDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry", "Banana", "apple"}, []string{desc[0].Title, desc[1].Title, desc[2].Title})

	byAuthor, err := books.ListByAuthor(ctx, list[0].ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 3)
	assert.Equal(t, "apple", byAuthor[0].Title)
}
