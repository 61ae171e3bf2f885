package embeddings

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// Cache is a content-addressed embedding cache. Entries are keyed by a
// BLAKE2b hash of the exact text bytes, so any change to the text,
// including whitespace, produces a different key.
//
// The cache is strictly best-effort: lookup and store failures are
// counted as misses and logged, never returned to the caller.
type Cache struct {
	store  storage.CacheStore
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Writes  int64
	Entries int
}

// HitRate returns the fraction of lookups served from the cache,
// or 0 when there have been no lookups.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewCache creates a cache backed by the given store.
func NewCache(store storage.CacheStore) *Cache {
	return &Cache{
		store:  store,
		logger: slog.Default().With("component", "embedding-cache"),
	}
}

// Key computes the cache key for a text: the hex BLAKE2b-256 digest of
// its exact bytes.
func Key(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached vector and source for a text, or ok=false on
// a miss. Storage failures count as misses.
func (c *Cache) Get(ctx context.Context, text string) (vector []float32, source core.EmbeddingSource, ok bool) {
	entry, err := c.store.GetEntry(ctx, Key(text))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("cache lookup failed", "err", err)
		}
		c.misses.Add(1)
		return nil, core.EmbeddingSourceNone, false
	}

	c.hits.Add(1)
	return entry.Vector, entry.Source, true
}

// Put stores a vector for a text. Failures are logged and dropped.
func (c *Cache) Put(ctx context.Context, text string, vector []float32, source core.EmbeddingSource) {
	entry := &core.CacheEntry{
		Vector:    vector,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.store.SetEntry(ctx, Key(text), entry); err != nil {
		c.logger.Warn("cache store failed", "err", err)
		return
	}
	c.writes.Add(1)
}

// Delete removes the cached entry for a text and reports whether an
// entry was present. Storage failures are logged and reported as false.
func (c *Cache) Delete(ctx context.Context, text string) bool {
	hash := Key(text)
	if _, err := c.store.GetEntry(ctx, hash); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("cache lookup failed", "err", err)
		}
		return false
	}
	if err := c.store.DeleteEntry(ctx, hash); err != nil {
		c.logger.Warn("cache delete failed", "err", err)
		return false
	}
	return true
}

// Clear removes every cache entry and returns the number removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	return c.store.ClearEntries(ctx)
}

// Stats returns a snapshot of the cache counters. The entry count is
// read from the store; a count failure leaves Entries at zero.
func (c *Cache) Stats(ctx context.Context) CacheStats {
	entries, err := c.store.CountEntries(ctx)
	if err != nil {
		c.logger.Warn("cache count failed", "err", err)
		entries = 0
	}
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Writes:  c.writes.Load(),
		Entries: entries,
	}
}
