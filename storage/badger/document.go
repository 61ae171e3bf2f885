package badger

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

const defaultCandidateLimit = 50

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &DocumentRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertDocument stores a document, replacing any existing record with
// the same ID, and updates the path index.
func (r *DocumentRepository) UpsertDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.Id)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		pathKey := makeDocumentPathKey(doc.FilePath)
		if err := tx.Set(pathKey, storage.MarshalID(doc.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
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

// GetDocumentByPath retrieves a document by its canonical file path.
func (r *DocumentRepository) GetDocumentByPath(ctx context.Context, path string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentPathKey(path))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var id core.ID
		err = item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		result, err = readDocument(tx, makeDocumentKey(id))
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

// FindSupersessionCandidates returns latest documents matching any of
// the filter signals, newest first, bounded by the filter limit.
func (r *DocumentRepository) FindSupersessionCandidates(ctx context.Context, filter storage.CandidateFilter) ([]*core.SupersessionCandidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	parentDir := strings.ToLower(filter.ParentDir)
	titlePrefix := strings.ToLower(filter.TitlePrefix)
	baseName := strings.ToLower(filter.BaseName)

	var candidates []*core.SupersessionCandidate

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.forEachDocument(tx, func(doc *core.Document) error {
			if doc.Id == filter.NewDocumentId || !doc.IsLatest {
				return nil
			}

			title := strings.ToLower(doc.Title)
			docParent := strings.ToLower(filepath.Dir(doc.FilePath))

			match := (parentDir != "" && docParent == parentDir) ||
				(titlePrefix != "" && strings.HasPrefix(title, titlePrefix)) ||
				(baseName != "" && strings.Contains(title, baseName))
			if !match {
				return nil
			}

			candidates = append(candidates, &core.SupersessionCandidate{
				DocumentId: doc.Id,
				Title:      doc.Title,
				FilePath:   doc.FilePath,
				IngestedAt: doc.IngestedAt,
			})
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	// Most recent first, then bound the set
	slices.SortFunc(candidates, func(a, b *core.SupersessionCandidate) int {
		return b.IngestedAt.Compare(a.IngestedAt)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// ListLatestDocuments returns all latest documents ordered by ingestion
// time ascending.
func (r *DocumentRepository) ListLatestDocuments(ctx context.Context) ([]*core.Document, error) {
	var docs []*core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.forEachDocument(tx, func(doc *core.Document) error {
			if doc.IsLatest {
				docs = append(docs, doc)
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(docs, func(a, b *core.Document) int {
		return a.IngestedAt.Compare(b.IngestedAt)
	})

	return docs, nil
}

// MarkSuperseded marks a document as no longer latest.
func (r *DocumentRepository) MarkSuperseded(ctx context.Context, id, supersededBy core.ID, at time.Time) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		doc.IsLatest = false
		doc.SupersededBy = supersededBy
		doc.SupersededAt = at

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AddSupersedesLink records a supersedes relationship.
func (r *DocumentRepository) AddSupersedesLink(ctx context.Context, link *core.SupersedesLink) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSupersedesKey(link.NewerId, link.OlderId)
		if err := tx.Set(key, storage.MarshalSupersedesLink(link)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetSupersedesLinks returns the links originating from a newer document.
func (r *DocumentRepository) GetSupersedesLinks(ctx context.Context, newerID core.ID) ([]*core.SupersedesLink, error) {
	var links []*core.SupersedesLink

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSupersedesKey(newerID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var link *core.SupersedesLink
			err := iter.Item().Value(func(val []byte) error {
				var err error
				link, err = storage.UnmarshalSupersedesLink(val)
				return err
			})
			if err != nil {
				return err
			}
			if link != nil {
				links = append(links, link)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return links, nil
}

// SupersessionSummary aggregates document version counts.
func (r *DocumentRepository) SupersessionSummary(ctx context.Context) (*storage.SupersessionSummary, error) {
	summary := &storage.SupersessionSummary{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		err := r.forEachDocument(tx, func(doc *core.Document) error {
			summary.TotalDocuments++
			if doc.IsLatest {
				summary.LatestVersions++
			} else {
				summary.SupersededVersions++
			}
			return nil
		})
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(supersedesPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			summary.SupersedesLinks++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// DeleteDocumentAndChunks removes a document, its chunks, and all
// indices referring to them.
func (r *DocumentRepository) DeleteDocumentAndChunks(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		// Collect chunk IDs and index keys from the document index
		var chunkIDs []core.ID
		var indexKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkDocKey(id)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				iter.Close()
				return err
			}
			chunkIDs = append(chunkIDs, chunkID)
			indexKeys = append(indexKeys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		// Delete each chunk together with its term index entries
		for _, chunkID := range chunkIDs {
			chunkKey := makeChunkKey(chunkID)
			chunk, err := readChunk(tx, chunkKey)
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			if err := deleteTermIndex(tx, chunk); err != nil {
				return err
			}
			if err := tx.Delete(chunkKey); err != nil {
				return err
			}
		}
		for _, indexKey := range indexKeys {
			if err := tx.Delete(indexKey); err != nil {
				return err
			}
		}

		// Delete path index and the document itself
		if err := tx.Delete(makeDocumentPathKey(doc.FilePath)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// forEachDocument iterates all document records within a transaction.
func (r *DocumentRepository) forEachDocument(tx *badger.Txn, fn func(*core.Document) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(documentPrefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var doc *core.Document
		err := iter.Item().Value(func(val []byte) error {
			var err error
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return err
		}
		if doc == nil {
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// readDocument reads a document by key within a transaction.
// Returns nil without error if the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
