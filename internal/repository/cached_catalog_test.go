package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mpetrov/liftbook/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExercises(t *testing.T, docs DocumentStore) {
	t.Helper()
	ctx := context.Background()
	for _, ex := range domain.PredefinedExercises {
		require.NoError(t, docs.SetDocument(ctx, exercisesCollection, ex.ID, ExerciseFields(ex), false))
	}
}

func newCacheFixture(t *testing.T) (*CachedCatalog, *DocstoreCatalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	docs := NewMemoryDocumentStore()
	seedExercises(t, docs)
	inner := NewDocstoreCatalog(docs)
	return NewCachedCatalog(inner, NewRedisCache(client)), inner, mr
}

func TestCachedCatalogFindByID(t *testing.T) {
	ctx := context.Background()
	catalog, _, mr := newCacheFixture(t)

	ex, err := catalog.FindByID(ctx, "squat")
	require.NoError(t, err)
	require.NotNil(t, ex)
	assert.Equal(t, "Squat", ex.Name)

	// Second lookup is served from cache.
	require.True(t, mr.Exists(exerciseByIDKeyPrefix+"squat"))
	again, err := catalog.FindByID(ctx, "squat")
	require.NoError(t, err)
	assert.Equal(t, ex, again)
}

func TestCachedCatalogMissIsNotCached(t *testing.T) {
	ctx := context.Background()
	catalog, _, mr := newCacheFixture(t)

	ex, err := catalog.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, ex)
	assert.False(t, mr.Exists(exerciseByIDKeyPrefix+"nope"))
}

func TestCachedCatalogAll(t *testing.T) {
	ctx := context.Background()
	catalog, _, mr := newCacheFixture(t)

	list, err := catalog.All(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(domain.PredefinedExercises))
	assert.True(t, mr.Exists(exerciseListKey))

	cached, err := catalog.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, cached)
}

func TestDocstoreCatalogFindByName(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocumentStore()
	seedExercises(t, docs)
	catalog := NewDocstoreCatalog(docs)

	ex, err := catalog.FindByName(ctx, "Deadlift")
	require.NoError(t, err)
	require.NotNil(t, ex)
	assert.Equal(t, "deadlift", ex.ID)

	ex, err = catalog.FindByName(ctx, "Underwater Basket Press")
	require.NoError(t, err)
	assert.Nil(t, ex)
}
