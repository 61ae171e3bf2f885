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
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scholarkb/ai"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of chunks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Workers is the number of batches processed concurrently
	Workers int
}

// RetryPolicy builds the retry policy for embedding calls from the
// config's attempt and delay settings.
func (c *Config) RetryPolicy() Policy {
	policy := DefaultPolicy()
	policy.MaxAttempts = c.MaxRetries
	policy.BaseDelay = c.RetryDelay
	return policy
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}

	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Workers:        workers,
	}
}

// Reembedder orchestrates the reembedding of chunks that carry a
// placeholder, fallback, or missing vector. Batches are processed
// concurrently on a worker pool.
type Reembedder struct {
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	pool      *ants.Pool
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(docRepo storage.DocumentRepository, chunkRepo storage.ChunkRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if docRepo == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunkRepo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &Reembedder{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(chunkRepo, embedder, config.RetryPolicy()),
		pool:      pool,
	}, nil
}

// Run executes the reembedding operation. With force set, every chunk
// of every latest document is re-embedded; otherwise only chunks
// without a genuine inference embedding are visited.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context, force bool) error {
	iterator := NewChunkIterator(r.docRepo, r.chunkRepo, r.config.BatchSize)
	if force {
		iterator.IncludeAll()
	}

	total, err := iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks need re-embedding (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks (batch size: %d, workers: %d)\n",
		total, r.config.BatchSize, r.pool.Cap())

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var batchErrs []error

	err = iterator.ForEach(ctx, func(chunks []*core.Chunk) error {
		batch := chunks
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			if err := r.processor.Process(ctx, batch); err != nil {
				mu.Lock()
				batchErrs = append(batchErrs, err)
				mu.Unlock()
				return
			}
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})

	wg.Wait()

	if err != nil {
		return err
	}
	if len(batchErrs) > 0 {
		return fmt.Errorf("failed to process %d batches: %w", len(batchErrs), errors.Join(batchErrs...))
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// Release releases the worker pool.
// The reembedder should not be used after calling Release.
func (r *Reembedder) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
