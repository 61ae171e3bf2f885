// Package core defines the domain model for the knowledge base:
// documents, chunks, supersession links, and search result records,
// together with content-based identifier derivation and validation.
package core
