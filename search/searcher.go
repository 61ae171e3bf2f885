package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/embeddings"
	"github.com/poiesic/scholarkb/storage"
)

// Searcher provides hybrid semantic and keyword search over document chunks.
type Searcher struct {
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	generator *embeddings.Generator
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	docRepo storage.DocumentRepository,
	chunkRepo storage.ChunkRepository,
	generator *embeddings.Generator,
	opts ...Option,
) (*Searcher, error) {
	if docRepo == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunkRepo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Searcher{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		generator: generator,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs the hybrid query and returns up to k fused results.
// With onlyLatest set (the default for callers), superseded document
// versions are excluded from both retrieval paths.
func (s *Searcher) Search(ctx context.Context, query string, k int, onlyLatest bool) ([]*core.FusedResult, error) {
	return s.SearchWithMonitor(ctx, query, k, onlyLatest, nil)
}

// SearchWithMonitor runs the hybrid query with monitoring callbacks at
// each stage.
//
// Each retrieval path fetches up to 2k candidates so that a chunk
// ranked low on one path can still surface after fusion. A keyword
// path failure degrades to semantic-only results; a semantic failure
// fails the search, since the keyword path alone inverts the ranking
// contract.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, k int, onlyLatest bool, monitor SearchMonitor) ([]*core.FusedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k < 1 {
		return nil, ErrInvalidLimit
	}

	monitor.Start(query)

	// 1. Embed the query and run the semantic path
	vector, source, err := s.generator.Generate(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	if source == core.EmbeddingSourcePlaceholder {
		// A zero query vector matches nothing meaningfully
		s.logger.Warn("query embedding degraded to placeholder, semantic path disabled")
		vector = nil
	}

	fetch := k * 2

	var semantic []*core.ScoredChunk
	if vector != nil {
		semantic, err = s.chunkRepo.FindSimilarChunks(ctx, vector, fetch, onlyLatest)
		if err != nil {
			s.logger.Error("error querying for similar chunks", "err", err)
			return nil, err
		}
	}
	monitor.AfterSemanticSearch(semantic)

	// 2. Keyword path, best-effort
	keyword, err := s.chunkRepo.SearchChunksByKeyword(ctx, query, fetch, onlyLatest)
	if err != nil {
		s.logger.Warn("keyword search failed, using semantic results only", "err", err)
		keyword = nil
	}
	monitor.AfterKeywordSearch(keyword)

	// 3. Fuse
	ingested := s.ingestionTimes(ctx, semantic, keyword)
	results := fuseResults(semantic, keyword, ingested, k)

	monitor.Finish(results)
	return results, nil
}

// ingestionTimes loads the ingestion timestamps of the parent documents
// of all matched chunks, for tie-breaking. Lookup failures leave the
// zero time, which only weakens tie-breaking.
func (s *Searcher) ingestionTimes(ctx context.Context, lists ...[]*core.ScoredChunk) map[core.ID]time.Time {
	ingested := make(map[core.ID]time.Time)
	for _, list := range lists {
		for _, match := range list {
			docID := match.Chunk.DocumentId
			if _, ok := ingested[docID]; ok {
				continue
			}
			doc, err := s.docRepo.GetDocument(ctx, docID)
			if err != nil {
				s.logger.Warn("failed to load document for tie-breaking", "documentId", docID, "err", err)
				ingested[docID] = time.Time{}
				continue
			}
			ingested[docID] = doc.IngestedAt
		}
	}
	return ingested
}
