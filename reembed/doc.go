// Package reembed provides functionality for reembedding chunks whose
// vectors were degraded at ingestion time, or for re-running embedding
// after a model change.
//
// This package supports batch processing of chunks, concurrent workers,
// progress tracking, retry logic with exponential backoff, and vector
// normalization to ensure compatibility with cosine similarity search.
package reembed
