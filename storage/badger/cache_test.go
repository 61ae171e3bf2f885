package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetAndGet(t *testing.T) {
	_, _, cacheStore, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	entry := &core.CacheEntry{
		Vector:    []float32{0.1, 0.2, 0.3},
		Source:    core.EmbeddingSourceInference,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, cacheStore.SetEntry(ctx, "abc123", entry))

	retrieved, err := cacheStore.GetEntry(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, entry.Vector, retrieved.Vector)
	assert.Equal(t, core.EmbeddingSourceInference, retrieved.Source)
}

func TestCacheGet_Miss(t *testing.T) {
	_, _, cacheStore, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = cacheStore.GetEntry(context.Background(), "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestCacheDelete(t *testing.T) {
	_, _, cacheStore, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	entry := &core.CacheEntry{Vector: []float32{1}, Source: core.EmbeddingSourceLocal, CreatedAt: time.Now().UTC()}

	require.NoError(t, cacheStore.SetEntry(ctx, "key1", entry))
	require.NoError(t, cacheStore.DeleteEntry(ctx, "key1"))

	_, err = cacheStore.GetEntry(ctx, "key1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	// Deleting again is not an error
	require.NoError(t, cacheStore.DeleteEntry(ctx, "key1"))
}

func TestCacheClearAndCount(t *testing.T) {
	_, _, cacheStore, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	for _, hash := range []string{"h1", "h2", "h3"} {
		entry := &core.CacheEntry{Vector: []float32{1}, Source: core.EmbeddingSourceInference, CreatedAt: now}
		require.NoError(t, cacheStore.SetEntry(ctx, hash, entry))
	}

	count, err := cacheStore.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	removed, err := cacheStore.ClearEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	count, err = cacheStore.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
