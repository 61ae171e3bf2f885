package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	scholarkb "github.com/poiesic/scholarkb"
)

// seedDocument is one generated markdown file.
type seedDocument struct {
	name  string
	title string
	body  []string
}

var documents = []seedDocument{
	{
		name:  "vector-search-survey.md",
		title: "A Survey of Vector Search Techniques",
		body: []string{
			"Vector search retrieves items by comparing dense embeddings rather than exact terms. The core operation is nearest neighbor lookup under a similarity metric, most commonly cosine similarity or inner product. Exact search scans every stored vector and scales linearly with collection size.",
			"Approximate methods trade recall for speed. Inverted file indexes partition the space with coarse quantizers, while graph methods such as HNSW build navigable small world structures that support logarithmic traversal. Product quantization compresses vectors into compact codes so that large collections fit in memory.",
			"Hybrid retrieval combines dense vectors with sparse keyword signals. Reciprocal rank fusion and weighted score fusion are the two common strategies, and both consistently outperform either path alone on heterogeneous corpora.",
		},
	},
	{
		name:  "chunking-strategies.md",
		title: "Chunking Strategies for Retrieval Augmented Generation",
		body: []string{
			"Splitting documents into chunks is the first irreversible decision in a retrieval pipeline. Chunks that are too small lose context, while chunks that are too large dilute the embedding and waste context window tokens downstream.",
			"Fixed word windows with overlap are the simplest scheme and remain a strong baseline. Overlap ensures that sentences near a boundary appear in two chunks, so a query matching the boundary region still retrieves a coherent passage.",
			"Structure aware splitting respects paragraph and heading boundaries. Keeping a paragraph intact preserves the author's unit of thought, which embeddings capture better than arbitrary windows. Oversized paragraphs still need to fall back to window splitting.",
		},
	},
	{
		name:  "embedding-caching.md",
		title: "Content Addressed Caching of Text Embeddings",
		body: []string{
			"Embedding the same text twice wastes inference capacity. A content addressed cache keyed by a cryptographic hash of the exact text bytes makes repeated embedding calls free, which matters when documents are re-ingested after small edits.",
			"Hashing the exact bytes means any whitespace change produces a new key. This is deliberate. Normalizing text before hashing risks returning a cached vector for text that the model would embed differently.",
			"Cache entries should record which backend produced the vector. A vector from a small local fallback model must not be served where an inference grade vector is expected, so the source travels with the entry.",
		},
	},
	{
		name:  "session-2025-06-10.md",
		title: "Reading Group Session 2025-06-10",
		body: []string{
			"Notes from the reading group session. We discussed retrieval evaluation metrics, focusing on recall at k and mean reciprocal rank. The group agreed that offline metrics correlate poorly with perceived answer quality once a generator is attached.",
			"Action items: collect a small set of golden queries against the lab corpus, and compare fusion weights on that set before changing defaults.",
		},
	},
	{
		name:  "session-2025-06-17.md",
		title: "Reading Group Session 2025-06-17",
		body: []string{
			"Notes from the reading group session. This week covered supersession of document versions. When a newer version of a document exists, search should prefer it and hide the stale one by default, while keeping the old version reachable for audits.",
			"We also revisited last week's action items. The golden query set now has forty entries and the weighted fusion at seventy thirty still wins over rank fusion on it.",
		},
	},
	{
		name:  "keyword-scoring-notes.md",
		title: "Notes on Keyword Scoring Without Term Frequencies",
		body: []string{
			"A minimal keyword score counts how many distinct query terms a chunk contains, divided by the number of distinct terms in the query. It ignores term frequency entirely, which sounds crude but behaves well on short chunks where a term rarely repeats.",
			"Stop words must be removed before counting or common words dominate the score. The stop list does not need to be large; a few dozen function words cover most of the damage.",
		},
	},
}

var (
	dirFlag = flag.String("dir", "./seed_docs", "directory to write seed documents into")
	dbFlag  = flag.String("db", "./scholar_kb", "knowledge base directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// writeSeedCorpus writes the sample documents and returns the directory.
func writeSeedCorpus(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, doc := range documents {
		var sb strings.Builder
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %s\n", doc.title)
		sb.WriteString("---\n\n")
		fmt.Fprintf(&sb, "# %s\n\n", doc.title)
		sb.WriteString(strings.Join(doc.body, "\n\n"))
		sb.WriteString("\n")

		path := filepath.Join(dir, doc.name)
		if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := writeSeedCorpus(*dirFlag); err != nil {
		panic(err)
	}
	slog.Info("seed corpus written", "dir", *dirFlag, "documents", len(documents))

	kb, err := scholarkb.NewKnowledgeBase(*dbFlag)
	if err != nil {
		panic(err)
	}
	defer kb.Close()

	ingester, err := kb.NewIngester()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	stats, err := ingester.IngestDirectory(ctx, *dirFlag, false)
	if err != nil {
		panic(err)
	}

	slog.Info("seed corpus ingested",
		"processed", stats.Processed,
		"chunks", stats.Chunks,
		"embedded", stats.Embedded,
		"superseded", stats.Superseded,
		"failed", stats.Failed)
}
