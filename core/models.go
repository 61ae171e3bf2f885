package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical
// content always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Document IDs hash the canonical file path; chunk IDs hash "docID:position".
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the identifier of a chunk from its parent document
// and its zero-based position within that document.
func ChunkID(documentID ID, position int) ID {
	return IDFromContent(fmt.Sprintf("%d:%d", documentID, position))
}

// DocumentType identifies the source format of a document.
type DocumentType int

const (
	// DocumentTypePDF represents a PDF document.
	DocumentTypePDF DocumentType = iota + 1
	// DocumentTypeMarkdown represents a Markdown document.
	DocumentTypeMarkdown
)

// String returns the lowercase name of the document type.
func (t DocumentType) String() string {
	switch t {
	case DocumentTypePDF:
		return "pdf"
	case DocumentTypeMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// EmbeddingSource records which backend produced a chunk's vector.
// Placeholder vectors are all zeros and must never be treated as
// genuine embeddings by ranking code.
type EmbeddingSource int

const (
	// EmbeddingSourceNone means no embedding has been generated yet.
	EmbeddingSourceNone EmbeddingSource = iota
	// EmbeddingSourceInference means the vector came from the inference service.
	EmbeddingSourceInference
	// EmbeddingSourceLocal means the vector came from the local fallback embedder.
	EmbeddingSourceLocal
	// EmbeddingSourcePlaceholder means the vector is a zero-valued placeholder.
	EmbeddingSourcePlaceholder
)

// String returns a short name for the embedding source.
func (s EmbeddingSource) String() string {
	switch s {
	case EmbeddingSourceInference:
		return "inference"
	case EmbeddingSourceLocal:
		return "local"
	case EmbeddingSourcePlaceholder:
		return "placeholder"
	default:
		return "none"
	}
}

// Document represents an ingested research document.
// A document's identity is derived from its canonical file path, so
// re-ingesting the same file always addresses the same record.
type Document struct {
	Id             ID
	Title          string
	Type           DocumentType
	FilePath       string
	Abstract       string
	Authors        []string
	Keywords       []string
	PublishedAt    time.Time // Publication date extracted from the source, if any
	Extra          string    // Opaque extra metadata, serialized by the extractor
	Version        int       // Starts at 1
	IsLatest       bool
	SupersededBy   ID        // Identifier of the newer document, 0 if latest
	SupersededAt   time.Time // Zero if latest
	FileModifiedAt time.Time // Source file mtime at ingestion
	IngestedAt     time.Time // When the document was ingested
}

// Chunk represents a contiguous passage of a document's text.
// Positions are contiguous and strictly increasing within a document.
type Chunk struct {
	Id         ID
	DocumentId ID
	Content    string
	Position   int
	StartChar  int
	EndChar    int
	WordCount  int
	CharCount  int
	Vector     []float32
	Source     EmbeddingSource
	Summary    string // Optional short summary, populated by processors
}

// CacheEntry is the stored value of the embedding cache, keyed by a
// content hash of the embedded text.
type CacheEntry struct {
	Vector    []float32
	Source    EmbeddingSource
	CreatedAt time.Time
}

// SupersedesLink records a directed "newer replaces older" relationship
// between two document versions, with the matched reason.
type SupersedesLink struct {
	NewerId   ID
	OlderId   ID
	Reason    string
	CreatedAt time.Time
}

// SupersessionCandidate is a transient record describing a possible
// predecessor of a newly ingested document. It is never persisted.
type SupersessionCandidate struct {
	DocumentId ID
	Title      string
	FilePath   string
	IngestedAt time.Time
}

// ScoredChunk represents a chunk match from one retrieval path.
type ScoredChunk struct {
	Chunk *Chunk
	Score float32
}

// FusedResult represents a chunk ranked by the combined semantic and
// keyword score. It exists only for the duration of one search call.
type FusedResult struct {
	ChunkId       ID
	DocumentId    ID
	Content       string
	SemanticScore float32
	KeywordScore  float32
	CombinedScore float32
	IngestedAt    time.Time // Parent document ingestion time, used for tie-breaking
}
