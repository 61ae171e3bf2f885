package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// CacheStore implements storage.CacheStore for BadgerDB. Entries are
// keyed by a content hash computed by the caller.
type CacheStore struct {
	backend *Backend
}

var _ storage.CacheStore = (*CacheStore)(nil)

// NewCacheStore creates a new CacheStore.
func NewCacheStore(backend *Backend) (*CacheStore, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &CacheStore{backend: backend}, nil
}

// Close releases store resources.
func (s *CacheStore) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (s *CacheStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.backend.WithTransaction(ctx, fn)
}

// GetEntry retrieves a cache entry by content hash.
// Returns storage.ErrNotFound when the hash is absent.
func (s *CacheStore) GetEntry(ctx context.Context, hash string) (*core.CacheEntry, error) {
	var result *core.CacheEntry
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(hash))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalCacheEntry(val)
			return err
		})
	}, false)
	return result, err
}

// SetEntry stores a cache entry under a content hash, replacing any
// existing entry.
func (s *CacheStore) SetEntry(ctx context.Context, hash string, entry *core.CacheEntry) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCacheKey(hash), storage.MarshalCacheEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteEntry removes a cache entry. Deleting an absent hash is not an
// error.
func (s *CacheStore) DeleteEntry(ctx context.Context, hash string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCacheKey(hash)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ClearEntries removes all cache entries and returns the number removed.
func (s *CacheStore) ClearEntries(ctx context.Context) (int, error) {
	removed := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(cachePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			removed++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// CountEntries returns the number of cache entries.
func (s *CacheStore) CountEntries(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(cachePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}
