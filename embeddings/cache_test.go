package embeddings

import (
	"context"
	"testing"

	"github.com/poiesic/scholarkb/core"
	badgerstore "github.com/poiesic/scholarkb/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	_, _, cacheStore, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return NewCache(cacheStore)
}

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, Key("some text"), Key("some text"))
	assert.NotEqual(t, Key("some text"), Key("some text "))
	assert.Len(t, Key("anything"), 64)
}

func TestCache_MissThenHit(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, _, ok := cache.Get(ctx, "unseen text")
	assert.False(t, ok)

	cache.Put(ctx, "unseen text", []float32{0.1, 0.2}, core.EmbeddingSourceInference)

	vector, source, ok := cache.Get(ctx, "unseen text")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, vector)
	assert.Equal(t, core.EmbeddingSourceInference, source)

	stats := cache.Stats(ctx)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Writes)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestCache_WhitespaceSensitive(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "exact text", []float32{1}, core.EmbeddingSourceInference)

	_, _, ok := cache.Get(ctx, "exact  text")
	assert.False(t, ok, "differing whitespace must not hit the cache")
}

func TestCache_Delete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "stale text", []float32{1}, core.EmbeddingSourceLocal)

	assert.True(t, cache.Delete(ctx, "stale text"))
	_, _, ok := cache.Get(ctx, "stale text")
	assert.False(t, ok)

	// Deleting an absent entry reports false
	assert.False(t, cache.Delete(ctx, "stale text"))
	assert.False(t, cache.Delete(ctx, "never cached"))
}

func TestCache_Clear(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "one", []float32{1}, core.EmbeddingSourceLocal)
	cache.Put(ctx, "two", []float32{2}, core.EmbeddingSourceLocal)

	removed, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, _, ok := cache.Get(ctx, "one")
	assert.False(t, ok)
}

func TestCacheStats_EmptyHitRate(t *testing.T) {
	var stats CacheStats
	assert.Equal(t, 0.0, stats.HitRate())
}
