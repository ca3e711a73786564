package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/book/model"
	"library-catalog/pkg/cache"
)

const bookCountKey = "catalog:books:count"

// cachedRepository caches Count and drops the entry on create/delete.
type cachedRepository struct {
	RepositoryInterface
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedRepository(next RepositoryInterface, c cache.Cache, ttl time.Duration) RepositoryInterface {
	return &cachedRepository{RepositoryInterface: next, cache: c, ttl: ttl}
}

func (r *cachedRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if hit, err := r.cache.Get(ctx, bookCountKey, &n); err != nil {
		log.Warn().Err(err).Str("key", bookCountKey).Msg("cache get failed")
	} else if hit {
		return n, nil
	}

	n, err := r.RepositoryInterface.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.cache.Set(ctx, bookCountKey, n, r.ttl); err != nil {
		log.Warn().Err(err).Str("key", bookCountKey).Msg("cache set failed")
	}
	return n, nil
}

func (r *cachedRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	created, err := r.RepositoryInterface.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.RepositoryInterface.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, bookCountKey); err != nil {
		log.Warn().Err(err).Str("key", bookCountKey).Msg("cache invalidate failed")
	}
}
