package local

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/scholarkb/ai"
)

// Embedder implements ai.Embedder without any external service. It
// hashes each token of the text into a fixed-size bag-of-words vector
// and normalizes the result. The vectors are far weaker than model
// embeddings but are deterministic, cheap, and good enough to keep
// ingestion moving when no inference service is reachable.
type Embedder struct {
	dimension int
	logger    *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a local fallback embedder producing vectors of
// the configured dimension.
func NewEmbedder(dimension int) *Embedder {
	if dimension < 1 {
		dimension = 768
	}
	return &Embedder{
		dimension: dimension,
		logger:    slog.Default().With("component", "local-embedder"),
	}
}

// EmbedText generates a deterministic hashed bag-of-words vector.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}
	return e.embed(text), nil
}

// EmbedTexts generates deterministic vectors for multiple texts.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, ai.ErrEmptyInput
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float32 {
	vector := make([]float32, e.dimension)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:'\"-()[]{}")
		if token == "" {
			continue
		}

		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()

		// Alternate sign from a second hash bit to spread tokens across
		// the vector space instead of piling up in one orthant.
		index := int(sum % uint32(e.dimension))
		if sum&0x80000000 != 0 {
			vector[index] -= 1
		} else {
			vector[index] += 1
		}
	}

	normalize(vector)
	return vector
}

// normalize scales a vector to unit length in place. A zero vector is
// left untouched.
func normalize(vector []float32) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(sumSquares))
	for i := range vector {
		vector[i] *= norm
	}
}
