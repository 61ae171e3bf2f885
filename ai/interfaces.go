package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// MetadataExtractor derives structured metadata from document text.
// Implementations must be thread-safe for concurrent use.
type MetadataExtractor interface {
	// ExtractMetadata analyzes a document's title and leading text and
	// produces a short abstract plus keywords describing its subject
	// matter. Returns empty metadata, not an error, when the model
	// finds nothing to say about the text.
	ExtractMetadata(ctx context.Context, title, text string) (*DocumentMetadata, error)
}

// DocumentMetadata is the structured output of metadata extraction.
type DocumentMetadata struct {
	// Abstract is a 1-3 sentence summary of the document.
	Abstract string

	// Keywords are lowercase subject terms, most relevant first.
	Keywords []string
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and MetadataExtractor instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// MetadataExtractor returns the metadata extraction service.
	// The returned MetadataExtractor is safe for concurrent use.
	MetadataExtractor() MetadataExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
