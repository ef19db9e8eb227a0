package repository

import (
	"context"
	"time"

	"github.com/mpetrov/liftbook/internal/domain"
)

const (
	exerciseByIDKeyPrefix   = "exercise:id:"
	exerciseByNameKeyPrefix = "exercise:name:"
	exerciseListKey         = "exercise:all"
	exerciseCacheTTL        = 30 * time.Minute
)

// CachedCatalog wraps a store-backed catalog with Redis caching.
// Definitions are immutable reference data, so TTL expiry is the only
// invalidation; cache errors never fail a read.
type CachedCatalog struct {
	inner domain.ExerciseCatalog
	cache *RedisCache
	ttl   time.Duration
}

func NewCachedCatalog(inner domain.ExerciseCatalog, cache *RedisCache) *CachedCatalog {
	return &CachedCatalog{inner: inner, cache: cache, ttl: exerciseCacheTTL}
}

func (c *CachedCatalog) FindByID(ctx context.Context, id string) (*domain.Exercise, error) {
	key := exerciseByIDKeyPrefix + id

	var ex domain.Exercise
	if err := c.cache.Get(ctx, key, &ex); err == nil {
		return &ex, nil
	}

	result, err := c.inner.FindByID(ctx, id)
	if err != nil || result == nil {
		return result, err
	}

	_ = c.cache.Set(ctx, key, result, c.ttl)
	return result, nil
}

func (c *CachedCatalog) FindByName(ctx context.Context, name string) (*domain.Exercise, error) {
	key := exerciseByNameKeyPrefix + name

	var ex domain.Exercise
	if err := c.cache.Get(ctx, key, &ex); err == nil {
		return &ex, nil
	}

	result, err := c.inner.FindByName(ctx, name)
	if err != nil || result == nil {
		return result, err
	}

	_ = c.cache.Set(ctx, key, result, c.ttl)
	return result, nil
}

func (c *CachedCatalog) All(ctx context.Context) ([]domain.Exercise, error) {
	var list []domain.Exercise
	if err := c.cache.Get(ctx, exerciseListKey, &list); err == nil {
		return list, nil
	}

	list, err := c.inner.All(ctx)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, exerciseListKey, list, c.ttl)
	return list, nil
}
