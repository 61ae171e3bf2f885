package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/scholarkb/ai"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/embeddings"
	"github.com/poiesic/scholarkb/extract"
	"github.com/poiesic/scholarkb/storage"
)

// Ingester orchestrates document ingestion: extraction, chunking,
// embedding, persistence, and supersession detection.
type Ingester struct {
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	chunker   *Chunker
	generator *embeddings.Generator
	detector  *Detector
	extractor ai.MetadataExtractor
	logger    *slog.Logger
}

// Stats accumulates counters over one or more ingestion calls.
type Stats struct {
	Processed  int
	Updated    int
	Skipped    int
	Failed     int
	Superseded int
	Chunks     int
	Embedded   int
	Errors     []string
}

// Merge folds another stats value into this one.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	s.Processed += other.Processed
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.Superseded += other.Superseded
	s.Chunks += other.Chunks
	s.Embedded += other.Embedded
	s.Errors = append(s.Errors, other.Errors...)
}

// IngesterOption configures an Ingester.
type IngesterOption func(*Ingester)

// WithMetadataExtractor enables LLM metadata extraction after a
// document is stored. Extraction failures never fail ingestion.
func WithMetadataExtractor(extractor ai.MetadataExtractor) IngesterOption {
	return func(ing *Ingester) {
		ing.extractor = extractor
	}
}

// WithChunker replaces the default chunker.
func WithChunker(chunker *Chunker) IngesterOption {
	return func(ing *Ingester) {
		ing.chunker = chunker
	}
}

// NewIngester creates an ingester. The generator may degrade to
// placeholder vectors; ingestion itself never depends on an inference
// service being reachable.
func NewIngester(docRepo storage.DocumentRepository, chunkRepo storage.ChunkRepository, generator *embeddings.Generator, opts ...IngesterOption) (*Ingester, error) {
	chunker, err := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		return nil, err
	}

	ing := &Ingester{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		chunker:   chunker,
		generator: generator,
		detector:  NewDetector(docRepo),
		logger:    slog.Default().With("component", "ingester"),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing, nil
}

// IngestFile ingests a single document. A file that is not strictly
// newer than the stored record is skipped unless force is set; a
// missing stored mtime always re-ingests. A newer file is fully
// replaced: old chunks are deleted before the new ones are written, so
// a crash can lose chunks but never mixes two versions.
func (ing *Ingester) IngestFile(ctx context.Context, path string, force bool, stats *Stats) error {
	if stats == nil {
		stats = &Stats{}
	}

	canonical, err := filepath.Abs(path)
	if err != nil {
		return ing.fail(stats, fmt.Errorf("resolving path %s: %w", path, err))
	}

	info, err := os.Stat(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return ing.fail(stats, fmt.Errorf("%w: %s", ErrFileNotFound, canonical))
		}
		return ing.fail(stats, err)
	}
	mtime := info.ModTime().UTC().Truncate(time.Microsecond)

	existing, err := ing.docRepo.GetDocumentByPath(ctx, canonical)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return ing.fail(stats, err)
	}

	if existing != nil && !force && !existing.FileModifiedAt.IsZero() && !mtime.After(existing.FileModifiedAt) {
		ing.logger.Debug("file not newer than stored version, skipping", "path", canonical)
		stats.Skipped++
		return nil
	}

	extractor, err := extract.ForPath(canonical)
	if err != nil {
		return ing.fail(stats, fmt.Errorf("%s: %w", canonical, err))
	}

	result, err := extractor.Extract(ctx, canonical)
	if err != nil {
		return ing.fail(stats, fmt.Errorf("extracting %s: %w", canonical, err))
	}

	chunks := ing.chunker.ChunkSmart(result.Text)
	if len(chunks) == 0 {
		return ing.fail(stats, fmt.Errorf("%w: %s", ErrNoContent, canonical))
	}

	doc := &core.Document{
		Id:             core.IDFromContent(canonical),
		Title:          result.Title,
		Type:           result.Type,
		FilePath:       canonical,
		Authors:        result.Authors,
		Keywords:       result.Keywords,
		PublishedAt:    result.PublishedAt,
		Extra:          result.Extra,
		Version:        1,
		IsLatest:       true,
		FileModifiedAt: mtime,
		IngestedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	// Re-ingestion replaces the document wholesale
	if existing != nil {
		doc.Version = existing.Version + 1
		if err := ing.docRepo.DeleteDocumentAndChunks(ctx, existing.Id); err != nil {
			return ing.fail(stats, fmt.Errorf("removing stale version of %s: %w", canonical, err))
		}
	}

	// Embed each chunk best-effort; degraded sources still persist
	for _, chunk := range chunks {
		chunk.DocumentId = doc.Id
		chunk.Id = core.ChunkID(doc.Id, chunk.Position)

		vector, source, err := ing.generator.Generate(ctx, chunk.Content)
		if err != nil {
			return ing.fail(stats, fmt.Errorf("embedding chunk %d of %s: %w", chunk.Position, canonical, err))
		}
		chunk.Vector = vector
		chunk.Source = source
		if source != core.EmbeddingSourcePlaceholder {
			stats.Embedded++
		}
	}

	if err := ing.docRepo.UpsertDocument(ctx, doc); err != nil {
		return ing.fail(stats, fmt.Errorf("storing document %s: %w", canonical, err))
	}
	if err := ing.chunkRepo.AddChunks(ctx, chunks); err != nil {
		return ing.fail(stats, fmt.Errorf("storing chunks of %s: %w", canonical, err))
	}
	stats.Chunks += len(chunks)

	detect, err := ing.detector.DetectAndMark(ctx, doc)
	if err != nil {
		// Supersession bookkeeping failed but the document is stored
		ing.logger.Error("supersession detection failed", "path", canonical, "err", err)
		stats.Errors = append(stats.Errors, err.Error())
	} else {
		stats.Superseded += detect.Count
	}

	ing.extractMetadata(ctx, doc, result.Text)

	if existing != nil {
		stats.Updated++
	} else {
		stats.Processed++
	}

	ing.logger.Info("document ingested",
		"path", canonical,
		"title", doc.Title,
		"chunks", len(chunks),
		"version", doc.Version)
	return nil
}

// IngestDirectory ingests every supported file under root, walking
// subdirectories. Individual file failures are recorded in the stats
// and do not stop the walk.
func (ing *Ingester) IngestDirectory(ctx context.Context, root string, force bool) (*Stats, error) {
	stats := &Stats{}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			// Skip hidden directories
			if name := entry.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !extract.SupportedPath(path) {
			return nil
		}

		if err := ing.IngestFile(ctx, path, force, stats); err != nil {
			ing.logger.Error("ingestion failed", "path", path, "err", err)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	ing.logger.Info("directory ingested",
		"root", root,
		"processed", stats.Processed,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return stats, nil
}

// Detector exposes the supersession detector for retroactive scans.
func (ing *Ingester) Detector() *Detector {
	return ing.detector
}

// extractMetadata runs LLM metadata extraction and stores the abstract
// and keywords on the document. Entirely best-effort.
func (ing *Ingester) extractMetadata(ctx context.Context, doc *core.Document, text string) {
	if ing.extractor == nil {
		return
	}

	// The leading text is enough for an abstract
	excerpt := text
	if len(excerpt) > 4000 {
		excerpt = excerpt[:4000]
	}

	meta, err := ing.extractor.ExtractMetadata(ctx, doc.Title, excerpt)
	if err != nil {
		ing.logger.Warn("metadata extraction failed", "title", doc.Title, "err", err)
		return
	}
	if meta.Abstract == "" && len(meta.Keywords) == 0 {
		return
	}

	if meta.Abstract != "" {
		doc.Abstract = meta.Abstract
	}
	if len(meta.Keywords) > 0 && len(doc.Keywords) == 0 {
		doc.Keywords = meta.Keywords
	}

	if err := ing.docRepo.UpsertDocument(ctx, doc); err != nil {
		ing.logger.Warn("storing extracted metadata failed", "title", doc.Title, "err", err)
	}
}

func (ing *Ingester) fail(stats *Stats, err error) error {
	stats.Failed++
	stats.Errors = append(stats.Errors, err.Error())
	return err
}
