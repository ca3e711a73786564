package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/domains/author/model"
)

func seed(t *testing.T, r RepositoryInterface, first, family string) *model.Author {
	t.Helper()
	a, err := r.Create(context.Background(), &model.Author{FirstName: first, FamilyName: family})
	require.NoError(t, err)
	return a
}

func names(authors []model.Author) []string {
	out := make([]string, len(authors))
	for i := range authors {
		out[i] = authors[i].Name()
	}
	return out
}

func TestMemoryRepository_ListSortAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	seed(t, repo, "Jane", "Austen")
	seed(t, repo, "Charlotte", "brontë")
	seed(t, repo, "Emily", "Brontë")
	seed(t, repo, "Leo", "Tolstoy")

	asc, err := repo.List(ctx, model.AuthorFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Austen, Jane", "brontë, Charlotte", "Brontë, Emily", "Tolstoy, Leo"}, names(asc))

	desc, err := repo.List(ctx, model.AuthorFilter{Sort: model.SortNameDesc})
	require.NoError(t, err)
	assert.Equal(t, "Tolstoy, Leo", desc[0].Name())
	assert.Equal(t, "Austen, Jane", desc[3].Name())

	found, err := repo.List(ctx, model.AuthorFilter{Search: "BRONT"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.List(ctx, model.AuthorFilter{Search: "jan"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Austen, Jane"}, names(found))
}

func TestMemoryRepository_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := seed(t, repo, "Jane", "Austen")

	updated, err := repo.Update(ctx, &model.Author{ID: a.ID, FirstName: "Jane", FamilyName: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)

	_, err = repo.Update(ctx, &model.Author{ID: uuid.New(), FirstName: "x", FamilyName: "y"})
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestMemoryRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := seed(t, repo, "Jane", "Austen")

	require.NoError(t, repo.Delete(ctx, a.ID))
	require.NoError(t, repo.Delete(ctx, a.ID))

	_, err := repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestMemoryRepository_GetByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := seed(t, repo, "Jane", "Austen")

	got, err := repo.GetByIDs(ctx, []uuid.UUID{a.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Austen, Jane", got[a.ID].Name())
}

// mapCache is a Cache backed by a map, JSON encoded like the redis one
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Ping(context.Context) error { return nil }

func TestCachedRepository_CountInvalidation(t *testing.T) {
	ctx := context.Background()
	c := &mapCache{data: map[string][]byte{}}
	repo := NewCachedRepository(NewMemoryRepository(), c, time.Minute)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Contains(t, c.data, authorCountKey)

	a := seed(t, repo, "Jane", "Austen")
	assert.NotContains(t, c.data, authorCountKey)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, a.ID))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
