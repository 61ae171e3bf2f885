package search

import (
	"slices"
	"time"

	"github.com/poiesic/scholarkb/core"
)

// Fusion weights. Semantic similarity dominates; keyword matching
// refines the ranking and rescues results the embedding missed.
const (
	semanticWeight = 0.7
	keywordWeight  = 0.3
)

// fuseResults merges the semantic and keyword result lists into one
// ranking. Every chunk appearing in either list is scored as
//
//	combined = 0.7*semantic + 0.3*keyword
//
// with a missing score counting as zero. Ties break by document
// ingestion time, newest first, so the ordering is deterministic for
// identical inputs. The returned slice is truncated to k.
func fuseResults(semantic, keyword []*core.ScoredChunk, ingested map[core.ID]time.Time, k int) []*core.FusedResult {
	semanticScores := make(map[core.ID]float32, len(semantic))
	chunks := make(map[core.ID]*core.Chunk, len(semantic)+len(keyword))
	for _, match := range semantic {
		semanticScores[match.Chunk.Id] = match.Score
		chunks[match.Chunk.Id] = match.Chunk
	}

	keywordScores := make(map[core.ID]float32, len(keyword))
	for _, match := range keyword {
		keywordScores[match.Chunk.Id] = match.Score
		chunks[match.Chunk.Id] = match.Chunk
	}

	results := make([]*core.FusedResult, 0, len(chunks))
	for id, chunk := range chunks {
		semScore := semanticScores[id]
		kwScore := keywordScores[id]
		results = append(results, &core.FusedResult{
			ChunkId:       id,
			DocumentId:    chunk.DocumentId,
			Content:       chunk.Content,
			SemanticScore: semScore,
			KeywordScore:  kwScore,
			CombinedScore: semanticWeight*semScore + keywordWeight*kwScore,
			IngestedAt:    ingested[chunk.DocumentId],
		})
	}

	slices.SortFunc(results, func(a, b *core.FusedResult) int {
		if a.CombinedScore > b.CombinedScore {
			return -1
		}
		if a.CombinedScore < b.CombinedScore {
			return 1
		}
		// Newest document first on equal scores
		if a.IngestedAt.After(b.IngestedAt) {
			return -1
		}
		if a.IngestedAt.Before(b.IngestedAt) {
			return 1
		}
		// Stable final tiebreak
		if a.ChunkId < b.ChunkId {
			return -1
		}
		if a.ChunkId > b.ChunkId {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}
