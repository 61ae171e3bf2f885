package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
	badgerstore "github.com/poiesic/scholarkb/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.DocumentRepository, storage.ChunkRepository, storage.CacheStore) {
	t.Helper()
	docRepo, chunkRepo, cacheStore, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return docRepo, chunkRepo, cacheStore
}

func makeDoc(path, title string, ingestedAt time.Time) *core.Document {
	return &core.Document{
		Id:             core.IDFromContent(path),
		Title:          title,
		Type:           core.DocumentTypeMarkdown,
		FilePath:       path,
		Version:        1,
		IsLatest:       true,
		FileModifiedAt: ingestedAt,
		IngestedAt:     ingestedAt,
	}
}

func TestShouldSupersede_NewerRequired(t *testing.T) {
	now := time.Now().UTC()
	candidate := &core.SupersessionCandidate{
		Title:      "Annual Report",
		FilePath:   "docs/report.md",
		IngestedAt: now,
	}

	ok, reason := shouldSupersede("Annual Report", "docs/report_v2.md", now.Add(-time.Hour), candidate)
	assert.False(t, ok)
	assert.Equal(t, "newer_document_required", reason)

	// Equal timestamps do not supersede either
	ok, reason = shouldSupersede("Annual Report", "docs/report_v2.md", now, candidate)
	assert.False(t, ok)
	assert.Equal(t, "newer_document_required", reason)
}

func TestShouldSupersede_ExactTitle(t *testing.T) {
	now := time.Now().UTC()
	candidate := &core.SupersessionCandidate{
		Title:      "  Annual Report ",
		FilePath:   "docs/report.md",
		IngestedAt: now.Add(-time.Hour),
	}

	ok, reason := shouldSupersede("annual report", "docs/report_v2.md", now, candidate)
	assert.True(t, ok)
	assert.Equal(t, "exact_title_match", reason)
}

func TestShouldSupersede_TitleSimilarity(t *testing.T) {
	now := time.Now().UTC()
	candidate := &core.SupersessionCandidate{
		Title:      "Neural Network Training Guide v1",
		FilePath:   "docs/guide1.md",
		IngestedAt: now.Add(-time.Hour),
	}

	ok, reason := shouldSupersede("Neural Network Training Guide v2", "docs/guide2.md", now, candidate)
	assert.True(t, ok)
	assert.Contains(t, reason, "title_similarity_")

	// A clearly different title does not match
	ok, reason = shouldSupersede("Cooking With Cast Iron", "docs/cooking.md", now, candidate)
	assert.False(t, ok)
	assert.Equal(t, "no_supersession", reason)
}

func TestShouldSupersede_SessionPattern(t *testing.T) {
	now := time.Now().UTC()
	candidate := &core.SupersessionCandidate{
		Title:      "March Lab Session",
		FilePath:   "lab/session_2025-03-01_notes.md",
		IngestedAt: now.Add(-time.Hour),
	}

	ok, reason := shouldSupersede("April Lab Session", "lab/session_2025-04-01_notes.md", now, candidate)
	assert.True(t, ok)
	assert.Equal(t, "session_document_pattern", reason)

	// Different base name after stripping the session date
	ok, _ = shouldSupersede("Other Notes", "lab/session_2025-04-01_summary.md", now, candidate)
	assert.False(t, ok)
}

func TestTitleSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, titleSimilarity("same title", "same title"), 1e-9)
	assert.Less(t, titleSimilarity("alpha", "omega"), 0.85)
	assert.GreaterOrEqual(t, titleSimilarity("project plan draft 1", "project plan draft 2"), 0.85)
}

func TestDetectAndMark(t *testing.T) {
	docRepo, _, _ := newTestRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	oldDoc := makeDoc("/notes/plan_v1.md", "Migration Plan", now.Add(-time.Hour))
	require.NoError(t, docRepo.UpsertDocument(ctx, oldDoc))

	newDoc := makeDoc("/notes/plan_v2.md", "Migration Plan", now)
	require.NoError(t, docRepo.UpsertDocument(ctx, newDoc))

	detector := NewDetector(docRepo)
	result, err := detector.DetectAndMark(ctx, newDoc)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, oldDoc.Id, result.Superseded[0].DocumentId)
	assert.Equal(t, "exact_title_match", result.Superseded[0].Reason)

	// Old document no longer latest and the link is recorded
	stored, err := docRepo.GetDocument(ctx, oldDoc.Id)
	require.NoError(t, err)
	assert.False(t, stored.IsLatest)
	assert.Equal(t, newDoc.Id, stored.SupersededBy)

	links, err := docRepo.GetSupersedesLinks(ctx, newDoc.Id)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "exact_title_match", links[0].Reason)
}

func TestRetroactiveScan(t *testing.T) {
	docRepo, _, _ := newTestRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := makeDoc("/a/session_2025-01-01_log.md", "January Log", now.Add(-2*time.Hour))
	second := makeDoc("/a/session_2025-02-01_log.md", "February Log", now.Add(-time.Hour))
	unrelated := makeDoc("/b/recipes.md", "Recipes", now)
	for _, d := range []*core.Document{first, second, unrelated} {
		require.NoError(t, docRepo.UpsertDocument(ctx, d))
	}

	detector := NewDetector(docRepo)

	// Dry run reports but writes nothing
	result, err := detector.RetroactiveScan(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DocumentsChecked)
	assert.Equal(t, 1, result.SupersessionsFound)

	stored, err := docRepo.GetDocument(ctx, first.Id)
	require.NoError(t, err)
	assert.True(t, stored.IsLatest, "dry run must not modify documents")

	// Real run marks the older session log superseded
	result, err = detector.RetroactiveScan(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, result.SupersessionsFound)
	assert.Equal(t, "January Log", result.Superseded[0].OlderTitle)
	assert.Equal(t, "February Log", result.Superseded[0].NewerTitle)
	assert.Equal(t, "session_document_pattern", result.Superseded[0].Reason)

	stored, err = docRepo.GetDocument(ctx, first.Id)
	require.NoError(t, err)
	assert.False(t, stored.IsLatest)
}
