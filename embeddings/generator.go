package embeddings

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/poiesic/scholarkb/ai"
	"github.com/poiesic/scholarkb/core"
)

// Generator produces embeddings through a degradation chain: cache
// first, then the inference embedder, then the local fallback, and as
// a last resort a zero-valued placeholder vector. It never returns an
// error for a degraded result; the source tells the caller what it got.
type Generator struct {
	cache     *Cache
	inference ai.Embedder
	fallback  ai.Embedder
	dimension int
	logger    *slog.Logger

	fromCache     atomic.Int64
	fromInference atomic.Int64
	fromFallback  atomic.Int64
	placeholders  atomic.Int64
}

// GeneratorStats is a point-in-time snapshot of generation counters.
type GeneratorStats struct {
	FromCache     int64
	FromInference int64
	FromFallback  int64
	Placeholders  int64
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithFallback sets the local fallback embedder used when the
// inference embedder fails. Pass nil to disable the fallback tier.
func WithFallback(embedder ai.Embedder) GeneratorOption {
	return func(g *Generator) {
		g.fallback = embedder
	}
}

// WithDimension sets the placeholder vector length. Default 768.
func WithDimension(dim int) GeneratorOption {
	return func(g *Generator) {
		if dim > 0 {
			g.dimension = dim
		}
	}
}

// NewGenerator creates a generator. The cache may be nil to disable
// caching, and inference may be nil to go straight to the fallback.
func NewGenerator(cache *Cache, inference ai.Embedder, opts ...GeneratorOption) *Generator {
	g := &Generator{
		cache:     cache,
		inference: inference,
		dimension: 768,
		logger:    slog.Default().With("component", "embedding-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// providerTier is one attempt in the fallback chain. A failed or empty
// result moves on to the next tier.
type providerTier struct {
	name     string
	embedder ai.Embedder
	source   core.EmbeddingSource
}

// chain returns the provider tiers in attempt order. Nil embedders are
// skipped by the caller.
func (g *Generator) chain() []providerTier {
	return []providerTier{
		{name: "inference", embedder: g.inference, source: core.EmbeddingSourceInference},
		{name: "local", embedder: g.fallback, source: core.EmbeddingSourceLocal},
	}
}

// Generate returns an embedding for the text along with its source.
// Empty text is rejected; every other outcome succeeds, possibly with
// a placeholder vector.
func (g *Generator) Generate(ctx context.Context, text string) ([]float32, core.EmbeddingSource, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.EmbeddingSourceNone, ErrEmptyText
	}

	if g.cache != nil {
		if vector, source, ok := g.cache.Get(ctx, text); ok {
			g.fromCache.Add(1)
			return vector, source, nil
		}
	}

	for _, tier := range g.chain() {
		if tier.embedder == nil {
			continue
		}
		vector, err := tier.embedder.EmbedText(ctx, text)
		if err == nil && len(vector) > 0 {
			g.countHit(tier.source)
			g.cachePut(ctx, text, vector, tier.source)
			return vector, tier.source, nil
		}
		if err != nil {
			g.logger.Warn("embedding tier failed, degrading", "tier", tier.name, "err", err)
		}
	}

	// Placeholder keeps ingestion moving; the chunk can be re-embedded
	// later. Placeholders are never cached.
	g.placeholders.Add(1)
	g.logger.Warn("no embedder available, using placeholder vector", "length", len(text))
	return make([]float32, g.dimension), core.EmbeddingSourcePlaceholder, nil
}

// ProgressFunc is called after each item of a batch with the number of
// items completed so far and the total.
type ProgressFunc func(done, total int)

// GenerateBatch embeds each text in order. Items degrade individually;
// the only errors returned are context cancellation and empty input.
func (g *Generator) GenerateBatch(ctx context.Context, texts []string, progress ProgressFunc) ([][]float32, []core.EmbeddingSource, error) {
	vectors := make([][]float32, len(texts))
	sources := make([]core.EmbeddingSource, len(texts))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		vector, source, err := g.Generate(ctx, text)
		if err != nil {
			return nil, nil, err
		}
		vectors[i] = vector
		sources[i] = source

		if progress != nil {
			progress(i+1, len(texts))
		}
	}

	return vectors, sources, nil
}

// Stats returns a snapshot of the generation counters.
func (g *Generator) Stats() GeneratorStats {
	return GeneratorStats{
		FromCache:     g.fromCache.Load(),
		FromInference: g.fromInference.Load(),
		FromFallback:  g.fromFallback.Load(),
		Placeholders:  g.placeholders.Load(),
	}
}

func (g *Generator) countHit(source core.EmbeddingSource) {
	switch source {
	case core.EmbeddingSourceInference:
		g.fromInference.Add(1)
	case core.EmbeddingSourceLocal:
		g.fromFallback.Add(1)
	}
}

func (g *Generator) cachePut(ctx context.Context, text string, vector []float32, source core.EmbeddingSource) {
	if g.cache != nil {
		g.cache.Put(ctx, text, vector, source)
	}
	if len(vector) != g.dimension {
		g.logger.Warn("embedding dimension mismatch",
			"expected", g.dimension,
			"actual", len(vector),
			"source", source.String())
	}
}
