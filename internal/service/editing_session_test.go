package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mpetrov/liftbook/internal/domain"
	"github.com/mpetrov/liftbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var benchPress = domain.Exercise{ID: "bench_press", Name: "Bench Press"}
var squat = domain.Exercise{ID: "squat", Name: "Squat"}

// flakyDocs lets a test fail writes on demand while reads keep working.
type flakyDocs struct {
	repository.DocumentStore
	failWrites bool
}

var errQuota = errors.New("quota exceeded")

func (f *flakyDocs) SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	if f.failWrites {
		return errQuota
	}
	return f.DocumentStore.SetDocument(ctx, collection, id, fields, merge)
}

func (f *flakyDocs) AddDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if f.failWrites {
		return "", errQuota
	}
	return f.DocumentStore.AddDocument(ctx, collection, fields)
}

func newStore(docs repository.DocumentStore, principal string) *repository.TemplateStore {
	return repository.NewTemplateStore(docs, domain.StaticIdentity(principal))
}

func createTemplate(t *testing.T, store *repository.TemplateStore) string {
	t.Helper()
	session := NewEditingSession(store, domain.WorkoutTemplate{Name: "Push Day"})
	_, err := session.AddEntry(benchPress, 3, "8-12", "")
	require.NoError(t, err)
	require.NoError(t, session.Flush(context.Background()))
	return session.Working().ID
}

func TestSessionCreateFlow(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")

	session := NewEditingSession(store, domain.WorkoutTemplate{Name: "Push Day"})
	assert.True(t, session.Dirty())

	entry, err := session.AddEntry(benchPress, 3, "8-12", "")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Order)
	assert.NotEmpty(t, entry.EntryID)

	require.NoError(t, session.Flush(ctx))
	assert.False(t, session.Dirty())

	working := session.Working()
	assert.NotEmpty(t, working.ID)
	assert.Equal(t, "user-1", working.OwnerID)
	assert.False(t, working.CreatedAt.IsZero())
}

func TestSessionCreateRequiresEntries(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")

	session := NewEditingSession(store, domain.WorkoutTemplate{Name: "Push Day"})
	err := session.Flush(ctx)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, session.Dirty())
	assert.Empty(t, session.Working().ID)
}

func TestSessionEditFlow(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")
	id := createTemplate(t, store)

	session, err := OpenEditingSession(ctx, store, id)
	require.NoError(t, err)
	assert.False(t, session.Dirty())

	_, err = session.AddEntry(squat, 5, "5", "")
	require.NoError(t, err)
	desc := "with legs now"
	require.NoError(t, session.UpdateDetails(nil, &desc))
	assert.True(t, session.Dirty())

	require.NoError(t, session.Flush(ctx))
	assert.False(t, session.Dirty())

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, loaded.Exercises, 2)
	assert.Equal(t, "with legs now", loaded.Description)
}

func TestSessionOpenMissingTemplate(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")

	_, err := OpenEditingSession(ctx, store, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionFailedMutationLeavesSessionClean(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")
	id := createTemplate(t, store)

	session, err := OpenEditingSession(ctx, store, id)
	require.NoError(t, err)

	_, err = session.AddEntry(squat, 0, "5", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, session.Dirty())
	assert.Len(t, session.Working().Exercises, 1)

	err = session.UpdateEntry("no-such-entry", domain.EntryUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, session.Dirty())
}

func TestSessionFlushFailurePreservesEdits(t *testing.T) {
	ctx := context.Background()
	docs := &flakyDocs{DocumentStore: repository.NewMemoryDocumentStore()}
	store := newStore(docs, "user-1")
	id := createTemplate(t, store)

	session, err := OpenEditingSession(ctx, store, id)
	require.NoError(t, err)
	_, err = session.AddEntry(squat, 5, "5", "")
	require.NoError(t, err)

	docs.failWrites = true
	err = session.Flush(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsStoreError(err))
	assert.ErrorIs(t, err, errQuota)

	// Unsaved edits survive for a retry.
	assert.True(t, session.Dirty())
	assert.Len(t, session.Working().Exercises, 2)

	docs.failWrites = false
	require.NoError(t, session.Flush(ctx))
	assert.False(t, session.Dirty())

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, loaded.Exercises, 2)
}

func TestSessionDiscardReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")
	id := createTemplate(t, store)

	session, err := OpenEditingSession(ctx, store, id)
	require.NoError(t, err)
	_, err = session.AddEntry(squat, 5, "5", "")
	require.NoError(t, err)
	require.True(t, session.Dirty())

	require.NoError(t, session.Discard(ctx))
	assert.False(t, session.Dirty())
	assert.Len(t, session.Working().Exercises, 1)
}

// Two sessions racing on the same template: the second flush rewrites
// the whole exercises array and silently drops the first writer's
// entry. Documented last-writer-wins behavior of the store layer.
func TestConcurrentSessionsLastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := newStore(repository.NewMemoryDocumentStore(), "user-1")
	id := createTemplate(t, store)

	sessionX, err := OpenEditingSession(ctx, store, id)
	require.NoError(t, err)
	sessionY, err := OpenEditingSession(ctx, store, id)
	require.NoError(t, err)

	// X adds an entry and flushes first.
	_, err = sessionX.AddEntry(squat, 5, "5", "")
	require.NoError(t, err)
	require.NoError(t, sessionX.Flush(ctx))

	// Y, holding the older copy, edits an unrelated field and flushes.
	desc := "tweaked description"
	require.NoError(t, sessionY.UpdateDetails(nil, &desc))
	require.NoError(t, sessionY.Flush(ctx))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tweaked description", loaded.Description)
	// X's added entry was overwritten by Y's stale array.
	assert.Len(t, loaded.Exercises, 1)
}
