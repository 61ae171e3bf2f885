// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to process in each batch
	DefaultBatchSize = 100
)

// ChunkIterator walks the chunks of all latest documents in batches.
// Superseded document versions are skipped; their chunks are excluded
// from search anyway, so re-embedding them would be wasted work.
type ChunkIterator struct {
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	batchSize int

	// includeAll selects every chunk rather than only those without a
	// genuine embedding.
	includeAll bool
}

// NewChunkIterator creates a new chunk iterator over chunks that still
// need a real embedding (placeholder or missing vectors).
// batchSize: number of chunks per batch (must be > 0)
func NewChunkIterator(docRepo storage.DocumentRepository, chunkRepo storage.ChunkRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		batchSize: batchSize,
	}
}

// IncludeAll makes the iterator visit every chunk, including those that
// already carry an inference embedding. Used for forced re-embedding
// after a model change.
func (it *ChunkIterator) IncludeAll() *ChunkIterator {
	it.includeAll = true
	return it
}

// needsEmbedding reports whether a chunk should be visited.
func (it *ChunkIterator) needsEmbedding(chunk *core.Chunk) bool {
	if it.includeAll {
		return true
	}
	switch chunk.Source {
	case core.EmbeddingSourceNone, core.EmbeddingSourcePlaceholder, core.EmbeddingSourceLocal:
		return true
	default:
		return false
	}
}

// Count returns the number of chunks the iterator would visit.
func (it *ChunkIterator) Count(ctx context.Context) (int, error) {
	total := 0
	err := it.ForEach(ctx, func(chunks []*core.Chunk) error {
		total += len(chunks)
		return nil
	})
	return total, err
}

// ForEach iterates over the selected chunks, calling fn for each batch.
// Iteration stops on the first error from fn or when all chunks have
// been visited. Context cancellation is checked between documents.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.Chunk) error) error {
	docs, err := it.docRepo.ListLatestDocuments(ctx)
	if err != nil {
		return err
	}

	var batch []*core.Chunk

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := fn(batch)
		batch = nil
		return err
	}

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunks, err := it.chunkRepo.GetChunksByDocument(ctx, doc.Id)
		if err != nil {
			return err
		}

		for _, chunk := range chunks {
			if !it.needsEmbedding(chunk) {
				continue
			}
			batch = append(batch, chunk)
			if len(batch) >= it.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}

	return flush()
}
