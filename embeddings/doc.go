// Package embeddings provides the content-addressed embedding cache
// and the embedding generator with its degradation chain.
//
// The generator tries, in order: the cache, the configured inference
// embedder, the local fallback embedder, and finally a zero-valued
// placeholder vector. Each chunk records which tier produced its
// vector so search can exclude placeholders and a re-embedding pass
// can find them later.
package embeddings
