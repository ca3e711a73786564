package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/author/model"
	"library-catalog/pkg/cache"
)

const authorCountKey = "catalog:authors:count"

// cachedRepository fronts Count with the cache; every other call goes straight through.
type cachedRepository struct {
	RepositoryInterface
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedRepository wraps next. Cache errors are logged and treated as misses.
func NewCachedRepository(next RepositoryInterface, c cache.Cache, ttl time.Duration) RepositoryInterface {
	return &cachedRepository{RepositoryInterface: next, cache: c, ttl: ttl}
}

func (r *cachedRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	hit, err := r.cache.Get(ctx, authorCountKey, &n)
	if err != nil {
		log.Warn().Err(err).Str("key", authorCountKey).Msg("cache get failed")
	}
	if hit {
		return n, nil
	}

	n, err = r.RepositoryInterface.Count(ctx)
	if err != nil {
		return 0, err
	}

	if err := r.cache.Set(ctx, authorCountKey, n, r.ttl); err != nil {
		log.Warn().Err(err).Str("key", authorCountKey).Msg("cache set failed")
	}
	return n, nil
}

func (r *cachedRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	created, err := r.RepositoryInterface.Create(ctx, a)
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
	if err := r.cache.Delete(ctx, authorCountKey); err != nil {
		log.Warn().Err(err).Str("key", authorCountKey).Msg("cache invalidate failed")
	}
}
