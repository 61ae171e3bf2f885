// Package storage defines the persistence interfaces for the knowledge
// base: document and chunk repositories, the embedding cache store, and
// binary serialization of core records.
//
// Implementations live in subpackages (see storage/badger).
package storage
