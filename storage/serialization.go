// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/scholarkb/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes. Decoded
// timestamps are normalized to UTC, which is how they were written.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	doc.PublishedAt = doc.PublishedAt.UTC()
	doc.SupersededAt = doc.SupersededAt.UTC()
	doc.FileModifiedAt = doc.FileModifiedAt.UTC()
	doc.IngestedAt = doc.IngestedAt.UTC()
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalCacheEntry serializes a CacheEntry to bytes.
func MarshalCacheEntry(entry *core.CacheEntry) []byte {
	buf := make([]byte, core.CacheEntryMUS.Size(*entry))
	core.CacheEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalCacheEntry deserializes a CacheEntry from bytes.
func UnmarshalCacheEntry(data []byte) (*core.CacheEntry, error) {
	entry, _, err := core.CacheEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}

// MarshalSupersedesLink serializes a SupersedesLink to bytes.
func MarshalSupersedesLink(link *core.SupersedesLink) []byte {
	buf := make([]byte, core.SupersedesLinkMUS.Size(*link))
	core.SupersedesLinkMUS.Marshal(*link, buf)
	return buf
}

// UnmarshalSupersedesLink deserializes a SupersedesLink from bytes.
func UnmarshalSupersedesLink(data []byte) (*core.SupersedesLink, error) {
	link, _, err := core.SupersedesLinkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	link.CreatedAt = link.CreatedAt.UTC()
	return &link, nil
}
