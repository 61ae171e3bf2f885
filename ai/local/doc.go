// Package local provides a deterministic offline embedder used as a
// fallback when no inference service is available.
package local
