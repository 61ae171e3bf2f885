package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/scholarkb/core"
	"github.com/poiesic/scholarkb/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentUpsertAndGet(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	doc := testDocument("papers/transformers.md", "Attention Survey")

	require.NoError(t, docRepo.UpsertDocument(ctx, doc))

	retrieved, err := docRepo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, retrieved.Title)
	assert.Equal(t, doc.FilePath, retrieved.FilePath)
	assert.True(t, retrieved.IsLatest)

	byPath, err := docRepo.GetDocumentByPath(ctx, "papers/transformers.md")
	require.NoError(t, err)
	assert.Equal(t, doc.Id, byPath.Id)
}

func TestGetDocument_NotFound(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	_, err = docRepo.GetDocument(context.Background(), core.ID(12345))
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = docRepo.GetDocumentByPath(context.Background(), "missing/file.md")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestUpsertDocument_Invalid(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	doc := testDocument("", "No Path")
	err = docRepo.UpsertDocument(context.Background(), doc)
	assert.True(t, errors.Is(err, core.ErrEmptyFilePath))
}

func TestFindSupersessionCandidates(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	sameDir := testDocument("notes/project/plan_v1.md", "Project Plan Draft One")
	titleMatch := testDocument("archive/old_plan.md", "Project Plan Draft Zero")
	unrelated := testDocument("other/recipes.md", "Pancake Recipes")
	newDoc := testDocument("notes/project/plan_v2.md", "Project Plan Draft Two")

	for _, d := range []*core.Document{sameDir, titleMatch, unrelated, newDoc} {
		require.NoError(t, docRepo.UpsertDocument(ctx, d))
	}

	candidates, err := docRepo.FindSupersessionCandidates(ctx, storage.CandidateFilter{
		NewDocumentId: newDoc.Id,
		ParentDir:     "notes/project",
		TitlePrefix:   "project plan draft",
		BaseName:      "plan",
		Limit:         50,
	})
	require.NoError(t, err)

	ids := make(map[core.ID]bool)
	for _, c := range candidates {
		ids[c.DocumentId] = true
	}
	assert.True(t, ids[sameDir.Id], "same-directory document should be a candidate")
	assert.True(t, ids[titleMatch.Id], "title-prefix document should be a candidate")
	assert.False(t, ids[unrelated.Id], "unrelated document should not be a candidate")
	assert.False(t, ids[newDoc.Id], "new document must never be its own candidate")
}

func TestFindSupersessionCandidates_SkipsSuperseded(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	oldDoc := testDocument("notes/report_v1.md", "Quarterly Report")
	newDoc := testDocument("notes/report_v2.md", "Quarterly Report")
	require.NoError(t, docRepo.UpsertDocument(ctx, oldDoc))
	require.NoError(t, docRepo.UpsertDocument(ctx, newDoc))
	require.NoError(t, docRepo.MarkSuperseded(ctx, oldDoc.Id, newDoc.Id, time.Now().UTC()))

	candidates, err := docRepo.FindSupersessionCandidates(ctx, storage.CandidateFilter{
		NewDocumentId: core.IDFromContent("notes/report_v3.md"),
		ParentDir:     "notes",
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, newDoc.Id, candidates[0].DocumentId)
}

func TestMarkSupersededAndLinks(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	oldDoc := testDocument("docs/spec_v1.md", "Design Notes")
	newDoc := testDocument("docs/spec_v2.md", "Design Notes")
	require.NoError(t, docRepo.UpsertDocument(ctx, oldDoc))
	require.NoError(t, docRepo.UpsertDocument(ctx, newDoc))

	at := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, docRepo.MarkSuperseded(ctx, oldDoc.Id, newDoc.Id, at))

	updated, err := docRepo.GetDocument(ctx, oldDoc.Id)
	require.NoError(t, err)
	assert.False(t, updated.IsLatest)
	assert.Equal(t, newDoc.Id, updated.SupersededBy)
	assert.Equal(t, at, updated.SupersededAt)
	assert.Equal(t, time.UTC, updated.SupersededAt.Location(), "decoded timestamps come back in UTC")

	link := &core.SupersedesLink{
		NewerId:   newDoc.Id,
		OlderId:   oldDoc.Id,
		Reason:    "exact_title_match",
		CreatedAt: at,
	}
	require.NoError(t, docRepo.AddSupersedesLink(ctx, link))

	links, err := docRepo.GetSupersedesLinks(ctx, newDoc.Id)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, oldDoc.Id, links[0].OlderId)
	assert.Equal(t, "exact_title_match", links[0].Reason)
}

func TestSupersessionSummary(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	oldDoc := testDocument("a/one.md", "One")
	newDoc := testDocument("a/two.md", "One")
	other := testDocument("a/three.md", "Three")
	for _, d := range []*core.Document{oldDoc, newDoc, other} {
		require.NoError(t, docRepo.UpsertDocument(ctx, d))
	}

	now := time.Now().UTC()
	require.NoError(t, docRepo.MarkSuperseded(ctx, oldDoc.Id, newDoc.Id, now))
	require.NoError(t, docRepo.AddSupersedesLink(ctx, &core.SupersedesLink{
		NewerId: newDoc.Id, OlderId: oldDoc.Id, Reason: "newer_document_required", CreatedAt: now,
	}))

	summary, err := docRepo.SupersessionSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalDocuments)
	assert.Equal(t, 2, summary.LatestVersions)
	assert.Equal(t, 1, summary.SupersededVersions)
	assert.Equal(t, 1, summary.SupersedesLinks)
}

func TestDeleteDocumentAndChunks(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	doc := testDocument("papers/delete_me.md", "Ephemeral")
	require.NoError(t, docRepo.UpsertDocument(ctx, doc))

	require.NoError(t, chunkRepo.AddChunks(ctx, []*core.Chunk{
		testChunk(doc.Id, 0, "ephemeral content alpha", []float32{1}, core.EmbeddingSourceInference),
		testChunk(doc.Id, 1, "ephemeral content beta", []float32{1}, core.EmbeddingSourceInference),
	}))

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, docRepo.DeleteDocumentAndChunks(ctx, doc.Id))

	_, err = docRepo.GetDocument(ctx, doc.Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = docRepo.GetDocumentByPath(ctx, doc.FilePath)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	count, err = chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Term index entries must be gone too
	results, err := backend.SearchChunksByKeyword(ctx, "ephemeral", 10, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListLatestDocuments(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := testDocument("a/first.md", "First")
	first.IngestedAt = now.Add(-2 * time.Hour)
	second := testDocument("a/second.md", "Second")
	second.IngestedAt = now.Add(-1 * time.Hour)
	third := testDocument("a/third.md", "Third")
	third.IngestedAt = now

	// Insert out of order
	for _, d := range []*core.Document{third, first, second} {
		require.NoError(t, docRepo.UpsertDocument(ctx, d))
	}
	require.NoError(t, docRepo.MarkSuperseded(ctx, first.Id, second.Id, now))

	docs, err := docRepo.ListLatestDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, second.Id, docs[0].Id)
	assert.Equal(t, third.Id, docs[1].Id)
}
