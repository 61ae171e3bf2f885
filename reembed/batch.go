package reembed

import (
	"context"
	"fmt"

	"github.com/poiesic/scholarkb/ai"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// BatchProcessor handles embedding generation for batches of chunks.
type BatchProcessor struct {
	chunkRepo storage.ChunkRepository
	embedder  ai.Embedder
	retry     Policy
}

// NewBatchProcessor creates a new batch processor. The retry policy
// governs embedding API calls; a zero policy is replaced with
// DefaultPolicy.
func NewBatchProcessor(chunkRepo storage.ChunkRepository, embedder ai.Embedder, retry Policy) *BatchProcessor {
	if retry.MaxAttempts <= 0 {
		retry = DefaultPolicy()
	}
	return &BatchProcessor{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		retry:     retry,
	}
}

// Process generates embeddings for a batch of chunks and updates them in
// the database. Vectors are normalized after embedding to ensure
// compatibility with cosine similarity. Unlike the ingestion path, an
// embedding failure here is returned rather than degraded; the whole
// point of re-embedding is to replace degraded vectors.
func (bp *BatchProcessor) Process(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	var embeddings [][]float32
	err := bp.retry.Do(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.retry.MaxAttempts, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	for i := range chunks {
		chunks[i].Vector = NormalizeVector(embeddings[i])
		chunks[i].Source = core.EmbeddingSourceInference
	}

	if err := bp.chunkRepo.UpdateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}

	return nil
}
