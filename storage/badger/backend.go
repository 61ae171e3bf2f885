package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// WithTransaction executes a function within a transaction.
// Implements the storage.Repository transaction contract.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// supersededDocuments returns the set of document IDs that are no
// longer the latest version. Used to restrict search to latest chunks.
func (b *Backend) supersededDocuments(tx *badger.Txn) (map[core.ID]bool, error) {
	superseded := make(map[core.ID]bool)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(documentPrefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()

		var doc *core.Document
		err := item.Value(func(val []byte) error {
			var err error
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		if doc != nil && !doc.IsLatest {
			superseded[doc.Id] = true
		}
	}

	return superseded, nil
}

// FindSimilarChunks finds chunks similar to the given vector using
// cosine similarity over a full scan of the chunk records. Chunks
// without a real embedding (none or placeholder source) never match.
func (b *Backend) FindSimilarChunks(ctx context.Context, vector []float32, k int, onlyLatest bool) ([]*core.ScoredChunk, error) {
	var results []*core.ScoredChunk

	err := b.WithTx(func(tx *badger.Txn) error {
		var superseded map[core.ID]bool
		if onlyLatest {
			var err error
			superseded, err = b.supersededDocuments(tx)
			if err != nil {
				return err
			}
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var chunk *core.Chunk
			err := item.Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}

			// Placeholder vectors are all zeros and would otherwise rank
			// arbitrarily; skip them.
			if chunk.Source == core.EmbeddingSourceNone || chunk.Source == core.EmbeddingSourcePlaceholder {
				continue
			}

			if onlyLatest && superseded[chunk.DocumentId] {
				continue
			}

			similarity := cosineSimilarity(vector, chunk.Vector)
			results = append(results, &core.ScoredChunk{
				Chunk: chunk,
				Score: similarity,
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// SearchChunksByKeyword finds chunks matching the query terms using the
// inverted term index. A chunk's score is the fraction of distinct
// query terms it contains, in [0, 1].
func (b *Backend) SearchChunksByKeyword(ctx context.Context, query string, k int, onlyLatest bool) ([]*core.ScoredChunk, error) {
	terms := tokenizeAndFilter(query)
	if len(terms) == 0 {
		return []*core.ScoredChunk{}, nil
	}

	// Deduplicate query terms
	unique := make(map[string]bool, len(terms))
	for _, term := range terms {
		unique[term] = true
	}

	var results []*core.ScoredChunk

	err := b.WithTx(func(tx *badger.Txn) error {
		var superseded map[core.ID]bool
		if onlyLatest {
			var err error
			superseded, err = b.supersededDocuments(tx)
			if err != nil {
				return err
			}
		}

		// Count matched terms per chunk
		matched := make(map[core.ID]int)
		for term := range unique {
			prefix := makePartialTermKey(term)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				key := iter.Item().Key()
				chunkID, ok := chunkIDFromTermKey(key, prefix)
				if !ok {
					continue
				}
				matched[chunkID]++
			}
			iter.Close()
		}

		for chunkID, count := range matched {
			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			if onlyLatest && superseded[chunk.DocumentId] {
				continue
			}

			results = append(results, &core.ScoredChunk{
				Chunk: chunk,
				Score: float32(count) / float32(len(unique)),
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by score descending, then by content for determinism
	slices.SortFunc(results, func(a, b *core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.Chunk.Content, b.Chunk.Content)
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// cosineSimilarity calculates the cosine similarity of two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
