package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/scholarkb/core"
)

// Default chunking parameters, in words.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Chunker splits document text into overlapping word-window chunks.
type Chunker struct {
	size    int
	overlap int
}

// ChunkStats summarizes a chunking run.
type ChunkStats struct {
	TotalChunks int
	AvgWords    float64
	AvgChars    float64
	MinWords    int
	MaxWords    int
	MinChars    int
	MaxChars    int
}

// NewChunker creates a chunker with the given window size and overlap,
// both in words. The overlap must be smaller than the size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunkConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidChunkConfig, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into fixed word windows. Consecutive chunks share
// the configured number of overlapping words. Whitespace-only text
// yields no chunks.
func (c *Chunker) Chunk(text string) []*core.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	words := strings.Fields(text)
	if len(words) <= c.size {
		return []*core.Chunk{newChunk(text, 0, 0)}
	}

	var chunks []*core.Chunk
	step := c.size - c.overlap
	position := 0

	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}

		content := strings.Join(words[start:end], " ")
		startChar := estimateCharOffset(words, start)
		chunks = append(chunks, newChunk(content, position, startChar))
		position++
	}

	return chunks
}

// ChunkSmart accumulates whole paragraphs into chunks, flushing when
// the next paragraph would overflow the window and seeding the next
// chunk with the overlap tail of the previous one. A paragraph longer
// than the window is kept whole in its own chunk. Falls back to plain
// word windows when the text produces nothing.
func (c *Chunker) ChunkSmart(text string) []*core.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	paragraphs := strings.Split(text, "\n\n")

	var chunks []*core.Chunk
	var current []string
	position := 0
	charOffset := 0

	flush := func() {
		content := strings.Join(current, " ")
		chunks = append(chunks, newChunk(content, position, charOffset))
		position++

		// Seed the next chunk with the overlap tail
		overlapStart := len(current) - c.overlap
		if overlapStart < 0 {
			overlapStart = 0
		}
		charOffset += wordSpan(current[:overlapStart])
		current = current[overlapStart:]
	}

	for _, paragraph := range paragraphs {
		paraWords := strings.Fields(paragraph)
		if len(paraWords) == 0 {
			continue
		}
		if len(current)+len(paraWords) > c.size && len(current) > 0 {
			flush()
		}
		current = append(current, paraWords...)
	}

	if len(current) > 0 {
		content := strings.Join(current, " ")
		chunks = append(chunks, newChunk(content, position, charOffset))
	}

	if len(chunks) == 0 {
		return c.Chunk(text)
	}
	return chunks
}

// Stats computes summary statistics over a set of chunks.
func (c *Chunker) Stats(chunks []*core.Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}

	stats := ChunkStats{
		TotalChunks: len(chunks),
		MinWords:    chunks[0].WordCount,
		MaxWords:    chunks[0].WordCount,
		MinChars:    chunks[0].CharCount,
		MaxChars:    chunks[0].CharCount,
	}

	var totalWords, totalChars int
	for _, chunk := range chunks {
		totalWords += chunk.WordCount
		totalChars += chunk.CharCount
		if chunk.WordCount < stats.MinWords {
			stats.MinWords = chunk.WordCount
		}
		if chunk.WordCount > stats.MaxWords {
			stats.MaxWords = chunk.WordCount
		}
		if chunk.CharCount < stats.MinChars {
			stats.MinChars = chunk.CharCount
		}
		if chunk.CharCount > stats.MaxChars {
			stats.MaxChars = chunk.CharCount
		}
	}
	stats.AvgWords = float64(totalWords) / float64(len(chunks))
	stats.AvgChars = float64(totalChars) / float64(len(chunks))

	return stats
}

// newChunk builds a chunk with derived counts. The document ID and
// chunk ID are filled in by the ingester once the parent is known.
func newChunk(content string, position, startChar int) *core.Chunk {
	return &core.Chunk{
		Content:   content,
		Position:  position,
		StartChar: startChar,
		EndChar:   startChar + len(content),
		WordCount: len(strings.Fields(content)),
		CharCount: len(content),
		Source:    core.EmbeddingSourceNone,
	}
}

// estimateCharOffset approximates the character position of a word by
// summing the lengths of the preceding words plus one separator each.
// Runs of whitespace in the source make this an estimate, not an exact
// offset into the original text.
func estimateCharOffset(words []string, index int) int {
	return wordSpan(words[:index])
}

func wordSpan(words []string) int {
	span := 0
	for _, w := range words {
		span += len(w) + 1
	}
	return span
}
