package badger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/poiesic/scholarkb/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentPathPrefix = "docpath"
	chunkPrefix        = "chkrec"
	chunkDocPrefix     = "chkdoc"
	termPrefix         = "chkterm"
	supersedesPrefix   = "suplink"
	cachePrefix        = "embcache"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeDocumentPathKey generates a key for the path index.
// Format: prefix:path
func makeDocumentPathKey(path string) []byte {
	return []byte(documentPathPrefix + ":" + path)
}

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkDocKey generates a composite key for the document→chunk index.
// Format: prefix:documentID:position
func makeChunkDocKey(docID core.ID, position int) []byte {
	prefix := chunkDocPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 16 // 8 bytes for docID + 8 bytes for position
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort preserves position order
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}

// makePartialChunkDocKey generates a partial key for iterating all
// chunks of one document in position order.
func makePartialChunkDocKey(docID core.ID) []byte {
	prefix := chunkDocPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeTermKey generates a composite key for the keyword index.
// Format: prefix:term:chunkID
func makeTermKey(term string, chunkID core.ID) []byte {
	prefix := termPrefix + ":" + term + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialTermKey generates a partial key for keyword queries.
func makePartialTermKey(term string) []byte {
	return []byte(termPrefix + ":" + term + ":")
}

// chunkIDFromTermKey extracts the chunk ID suffix from a term index key.
func chunkIDFromTermKey(key, prefix []byte) (core.ID, bool) {
	if !bytes.HasPrefix(key, prefix) || len(key) != len(prefix)+8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(prefix):])), true
}

// makeSupersedesKey generates a composite key for a supersedes link.
// Format: prefix:newerID:olderID
func makeSupersedesKey(newerID, olderID core.ID) []byte {
	prefix := supersedesPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(newerID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(olderID))
	return buf
}

// makePartialSupersedesKey generates a partial key for iterating the
// links originating from one newer document.
func makePartialSupersedesKey(newerID core.ID) []byte {
	prefix := supersedesPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(newerID))
	return buf
}

// makeCacheKey generates a key for an embedding cache entry.
// The hash is already a fixed-length hex string.
func makeCacheKey(hash string) []byte {
	return []byte(cachePrefix + ":" + hash)
}
