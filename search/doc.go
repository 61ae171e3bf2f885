// Package search implements hybrid retrieval over document chunks:
// cosine similarity over embeddings fused with keyword matching at
// fixed 0.7/0.3 weights.
package search
