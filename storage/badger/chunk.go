package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &ChunkRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks stores a batch of chunks along with their document and
// keyword index entries.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks []*core.Chunk) error {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := writeChunk(tx, chunk); err != nil {
				return err
			}
			docKey := makeChunkDocKey(chunk.DocumentId, chunk.Position)
			if err := tx.Set(docKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateChunks rewrites existing chunks in place. Term index entries
// for the old content are removed before the new content is indexed.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks []*core.Chunk) error {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			existing, err := readChunk(tx, makeChunkKey(chunk.Id))
			if err != nil {
				return err
			}
			if existing == nil {
				return storage.ErrNotFound
			}
			if err := deleteTermIndex(tx, existing); err != nil {
				return err
			}
			if err := writeChunk(tx, chunk); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunksByDocument returns a document's chunks in position order.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, docID core.ID) ([]*core.Chunk, error) {
	var chunks []*core.Chunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkDocKey(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return chunks, nil
}

// FindSimilarChunks delegates to the backend's vector scan.
func (r *ChunkRepository) FindSimilarChunks(ctx context.Context, vector []float32, k int, onlyLatest bool) ([]*core.ScoredChunk, error) {
	return r.backend.FindSimilarChunks(ctx, vector, k, onlyLatest)
}

// SearchChunksByKeyword delegates to the backend's term index query.
func (r *ChunkRepository) SearchChunksByKeyword(ctx context.Context, query string, k int, onlyLatest bool) ([]*core.ScoredChunk, error) {
	return r.backend.SearchChunksByKeyword(ctx, query, k, onlyLatest)
}

// CountChunks returns the total number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
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

// writeChunk stores a chunk record and its term index entries.
func writeChunk(tx *badger.Txn, chunk *core.Chunk) error {
	if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
		return err
	}
	for _, term := range indexTerms(chunk.Content) {
		if err := tx.Set(makeTermKey(term, chunk.Id), nil); err != nil {
			return err
		}
	}
	return nil
}

// deleteTermIndex removes the keyword index entries of a chunk.
func deleteTermIndex(tx *badger.Txn, chunk *core.Chunk) error {
	for _, term := range indexTerms(chunk.Content) {
		if err := tx.Delete(makeTermKey(term, chunk.Id)); err != nil {
			return err
		}
	}
	return nil
}

// readChunk reads a chunk by key within a transaction.
// Returns nil without error if the key does not exist.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}
