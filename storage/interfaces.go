package storage

import (
	"context"
	"time"

	"github.com/poiesic/scholarkb/core"
)

// CandidateFilter describes the signals used to select supersession
// candidates for a newly ingested document. All matching is performed
// against latest documents other than NewDocumentId.
type CandidateFilter struct {
	// NewDocumentId excludes the new document itself from the candidate set.
	NewDocumentId core.ID

	// ParentDir matches documents whose file path shares this parent directory.
	ParentDir string

	// TitlePrefix matches documents whose lowercase title starts with this
	// prefix (the first three words of the new document's title).
	TitlePrefix string

	// BaseName, when non-empty, matches documents whose lowercase title
	// contains this date-stripped session base name.
	BaseName string

	// Limit bounds the candidate set size. Zero means the default limit.
	Limit int
}

// SupersessionSummary aggregates version bookkeeping across the store.
type SupersessionSummary struct {
	TotalDocuments     int
	LatestVersions     int
	SupersededVersions int
	SupersedesLinks    int
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing documents and
// their version relationships.
type DocumentRepository interface {
	Repository

	// UpsertDocument stores a document, replacing any existing record
	// with the same ID. The path index is updated accordingly.
	UpsertDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocumentByPath retrieves a document by its canonical file path.
	// Returns ErrNotFound if no document exists at that path.
	GetDocumentByPath(ctx context.Context, path string) (*core.Document, error)

	// FindSupersessionCandidates returns latest documents matching the
	// filter, ordered by ingestion time descending, up to the limit.
	FindSupersessionCandidates(ctx context.Context, filter CandidateFilter) ([]*core.SupersessionCandidate, error)

	// ListLatestDocuments returns all latest documents ordered by
	// ingestion time ascending.
	ListLatestDocuments(ctx context.Context) ([]*core.Document, error)

	// MarkSuperseded marks a document as no longer latest, pointing it
	// at its successor with the supersession timestamp.
	MarkSuperseded(ctx context.Context, id, supersededBy core.ID, at time.Time) error

	// AddSupersedesLink records a directed supersedes relationship from
	// the newer document to the older one, carrying the matched reason.
	AddSupersedesLink(ctx context.Context, link *core.SupersedesLink) error

	// GetSupersedesLinks returns all supersedes links originating from
	// the given newer document.
	GetSupersedesLinks(ctx context.Context, newerID core.ID) ([]*core.SupersedesLink, error)

	// SupersessionSummary aggregates document version counts.
	SupersessionSummary(ctx context.Context) (*SupersessionSummary, error)

	// DeleteDocumentAndChunks removes a document, its chunks, and all
	// indices referring to them.
	DeleteDocumentAndChunks(ctx context.Context, id core.ID) error
}

// ChunkRepository provides operations for managing chunks and the two
// retrieval paths over them.
type ChunkRepository interface {
	Repository

	// AddChunks stores chunks and indexes their terms for keyword search.
	AddChunks(ctx context.Context, chunks []*core.Chunk) error

	// UpdateChunks replaces existing chunks (used when vectors are
	// regenerated). Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks []*core.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksByDocument retrieves all chunks of a document ordered by position.
	GetChunksByDocument(ctx context.Context, docID core.ID) ([]*core.Chunk, error)

	// FindSimilarChunks returns the top-k chunks by cosine similarity to
	// the query vector. When onlyLatest is true, chunks of superseded
	// documents are excluded. Placeholder vectors never match.
	FindSimilarChunks(ctx context.Context, vector []float32, k int, onlyLatest bool) ([]*core.ScoredChunk, error)

	// SearchChunksByKeyword returns the top-k chunks matching the query
	// terms, scored by term frequency overlap. Same latest-only rule.
	SearchChunksByKeyword(ctx context.Context, query string, k int, onlyLatest bool) ([]*core.ScoredChunk, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}

// CacheStore provides the persistence for the embedding cache.
// Keys are content hashes computed by the caller.
type CacheStore interface {
	Repository

	// GetEntry retrieves a cache entry by content hash.
	// Returns ErrNotFound if no entry exists.
	GetEntry(ctx context.Context, hash string) (*core.CacheEntry, error)

	// SetEntry stores a cache entry under the hash, overwriting any
	// previous value.
	SetEntry(ctx context.Context, hash string, entry *core.CacheEntry) error

	// DeleteEntry removes the entry for the hash. Deleting an absent
	// hash is not an error.
	DeleteEntry(ctx context.Context, hash string) error

	// ClearEntries removes all cache entries and returns how many were removed.
	ClearEntries(ctx context.Context) (int, error)

	// CountEntries returns the number of stored cache entries.
	CountEntries(ctx context.Context) (int, error)
}
