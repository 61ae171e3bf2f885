package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/poiesic/scholarkb/ai"
)

// MockEmbedder is a test double for ai.Embedder. By default it derives
// a deterministic unit vector from the text, so chunk embeddings are
// stable across runs without an inference service; tests override the
// function fields when they need failures or fixed vectors.
type MockEmbedder struct {
	// EmbedTextFunc replaces the deterministic behavior of EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc replaces the deterministic behavior of EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of generated vectors. Zero means the
	// default embedding dimension from ai.DefaultConfig.
	Dimension int

	callCount int
}

// NewMockEmbedder creates a mock embedder producing vectors of the
// default embedding dimension.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) dimension() int {
	if m.Dimension > 0 {
		return m.Dimension
	}
	return ai.DefaultConfig().EmbeddingDimension
}

// EmbedText returns a deterministic embedding derived from the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return deterministicVector(text, m.dimension()), nil
}

// EmbedTexts returns deterministic embeddings for a batch of texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, m.dimension())
	}
	return vectors, nil
}

// CallCount returns the number of times any embedding method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// deterministicVector expands an FNV hash of the text into a unit
// vector, so identical text always embeds identically and cosine
// similarity behaves sensibly in tests.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	var sumSquares float64
	for i := range vector {
		seed = seed*1664525 + 1013904223 // LCG step
		vector[i] = float32(seed%1000) / 1000.0
		sumSquares += float64(vector[i]) * float64(vector[i])
	}

	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
