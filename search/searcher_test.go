package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/scholarkb/ai/mock"
	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/embeddings"
	"github.com/poiesic/scholarkb/storage"
	badgerstore "github.com/poiesic/scholarkb/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSearcher builds a searcher over in-memory repositories with a
// mock embedder that always embeds queries as [1, 0, 0].
func newTestSearcher(t *testing.T) (*Searcher, storage.DocumentRepository, storage.ChunkRepository) {
	t.Helper()

	docRepo, chunkRepo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	generator := embeddings.NewGenerator(nil, embedder, embeddings.WithDimension(3))

	searcher, err := NewSearcher(docRepo, chunkRepo, generator)
	require.NoError(t, err)

	return searcher, docRepo, chunkRepo
}

func seedDocument(t *testing.T, docRepo storage.DocumentRepository, id core.ID, ingestedAt time.Time, isLatest bool) {
	t.Helper()
	doc := &core.Document{
		Id:         id,
		Title:      "Test Document",
		Type:       core.DocumentTypeMarkdown,
		FilePath:   fmt.Sprintf("/papers/doc-%d.md", id),
		Version:    1,
		IsLatest:   isLatest,
		IngestedAt: ingestedAt,
	}
	if !isLatest {
		doc.SupersededBy = 1
		doc.SupersededAt = ingestedAt
	}
	require.NoError(t, docRepo.UpsertDocument(context.Background(), doc))
}

func seedChunk(t *testing.T, chunkRepo storage.ChunkRepository, id, docID core.ID, content string, vector []float32) {
	t.Helper()
	err := chunkRepo.AddChunks(context.Background(), []*core.Chunk{{
		Id:         id,
		DocumentId: docID,
		Content:    content,
		EndChar:    len(content),
		WordCount:  3,
		CharCount:  len(content),
		Vector:     vector,
		Source:     core.EmbeddingSourceInference,
	}})
	require.NoError(t, err)
}

func TestSearcher_HybridRanking(t *testing.T) {
	searcher, docRepo, chunkRepo := newTestSearcher(t)
	ctx := context.Background()

	now := time.Now().UTC()
	seedDocument(t, docRepo, 1, now, true)
	// Closest to the query vector but no keyword overlap
	seedChunk(t, chunkRepo, 101, 1, "neural network training", []float32{1, 0, 0})
	// Weaker semantic match but both query terms present
	seedChunk(t, chunkRepo, 102, 1, "quantum computing basics", []float32{0.6, 0.8, 0})

	results, err := searcher.Search(ctx, "quantum computing", 10, true)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 0.7*0.6 + 0.3*1.0 = 0.72 beats 0.7*1.0 = 0.70
	assert.Equal(t, core.ID(102), results[0].ChunkId)
	assert.InDelta(t, 0.72, float64(results[0].CombinedScore), 1e-3)
	assert.Equal(t, core.ID(101), results[1].ChunkId)
	assert.InDelta(t, 0.70, float64(results[1].CombinedScore), 1e-3)

	assert.Equal(t, now, results[0].IngestedAt)
	assert.Equal(t, "quantum computing basics", results[0].Content)
}

func TestSearcher_OnlyLatestExcludesSuperseded(t *testing.T) {
	searcher, docRepo, chunkRepo := newTestSearcher(t)
	ctx := context.Background()

	now := time.Now().UTC()
	seedDocument(t, docRepo, 1, now, true)
	seedDocument(t, docRepo, 2, now.Add(-time.Hour), false)
	seedChunk(t, chunkRepo, 101, 1, "quantum computing current", []float32{1, 0, 0})
	seedChunk(t, chunkRepo, 201, 2, "quantum computing outdated", []float32{1, 0, 0})

	results, err := searcher.Search(ctx, "quantum computing", 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(101), results[0].ChunkId)

	results, err = searcher.Search(ctx, "quantum computing", 10, false)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearcher_PlaceholderQueryDisablesSemanticPath(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	// No embedders at all, so every query degrades to a placeholder
	generator := embeddings.NewGenerator(nil, nil, embeddings.WithDimension(3))
	searcher, err := NewSearcher(docRepo, chunkRepo, generator)
	require.NoError(t, err)

	ctx := context.Background()
	seedDocument(t, docRepo, 1, time.Now().UTC(), true)
	seedChunk(t, chunkRepo, 101, 1, "quantum computing basics", []float32{1, 0, 0})
	seedChunk(t, chunkRepo, 102, 1, "unrelated passage here", []float32{1, 0, 0})

	results, err := searcher.Search(ctx, "quantum computing", 10, true)
	require.NoError(t, err)

	// Keyword-only results: 0.3 * 1.0, nothing for the unrelated chunk
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(101), results[0].ChunkId)
	assert.InDelta(t, 0.3, float64(results[0].CombinedScore), 1e-6)
	assert.Zero(t, results[0].SemanticScore)
}

// failingKeywordRepo forces the keyword path to fail while keeping the
// semantic path intact.
type failingKeywordRepo struct {
	storage.ChunkRepository
}

func (r *failingKeywordRepo) SearchChunksByKeyword(_ context.Context, _ string, _ int, _ bool) ([]*core.ScoredChunk, error) {
	return nil, errors.New("term index offline")
}

func TestSearcher_KeywordFailureDegradesToSemanticOnly(t *testing.T) {
	_, docRepo, chunkRepo := newTestSearcher(t)
	ctx := context.Background()

	seedDocument(t, docRepo, 1, time.Now().UTC(), true)
	seedChunk(t, chunkRepo, 101, 1, "quantum computing basics", []float32{1, 0, 0})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	generator := embeddings.NewGenerator(nil, embedder, embeddings.WithDimension(3))

	searcher, err := NewSearcher(docRepo, &failingKeywordRepo{ChunkRepository: chunkRepo}, generator)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "quantum computing", 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(101), results[0].ChunkId)
	assert.InDelta(t, 0.7, float64(results[0].CombinedScore), 1e-3)
	assert.Zero(t, results[0].KeywordScore)
}

// recordingMonitor captures the callback sequence for assertions.
type recordingMonitor struct {
	query        string
	semanticSeen int
	keywordSeen  int
	finished     []*core.FusedResult
}

func (m *recordingMonitor) Start(query string) { m.query = query }

func (m *recordingMonitor) AfterSemanticSearch(matches []*core.ScoredChunk) {
	m.semanticSeen = len(matches)
}

func (m *recordingMonitor) AfterKeywordSearch(matches []*core.ScoredChunk) {
	m.keywordSeen = len(matches)
}

func (m *recordingMonitor) Finish(results []*core.FusedResult) { m.finished = results }

func TestSearcher_MonitorCallbacks(t *testing.T) {
	searcher, docRepo, chunkRepo := newTestSearcher(t)
	ctx := context.Background()

	seedDocument(t, docRepo, 1, time.Now().UTC(), true)
	seedChunk(t, chunkRepo, 101, 1, "quantum computing basics", []float32{1, 0, 0})

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(ctx, "quantum computing", 5, true, monitor)
	require.NoError(t, err)

	assert.Equal(t, "quantum computing", monitor.query)
	assert.Equal(t, 1, monitor.semanticSeen)
	assert.Equal(t, 1, monitor.keywordSeen)
	assert.Equal(t, results, monitor.finished)
}

func TestSearcher_InvalidLimit(t *testing.T) {
	searcher, _, _ := newTestSearcher(t)

	_, err := searcher.Search(context.Background(), "anything", 0, true)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestNewSearcher_RequiresDependencies(t *testing.T) {
	_, docRepo, chunkRepo := newTestSearcher(t)
	generator := embeddings.NewGenerator(nil, mock.NewMockEmbedder())

	_, err := NewSearcher(nil, chunkRepo, generator)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewSearcher(docRepo, nil, generator)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewSearcher(docRepo, chunkRepo, nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}

func TestSearcher_TruncatesToLimit(t *testing.T) {
	searcher, docRepo, chunkRepo := newTestSearcher(t)
	ctx := context.Background()

	seedDocument(t, docRepo, 1, time.Now().UTC(), true)
	for i := 0; i < 6; i++ {
		seedChunk(t, chunkRepo, core.ID(100+i), 1, "quantum computing passage", []float32{1, 0, float32(i) / 10})
	}

	results, err := searcher.Search(ctx, "quantum computing", 2, true)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
