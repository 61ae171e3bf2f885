// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slice5xg8tgwFqdIJYESgYΣQtrgΞΞ = ord.NewSliceSer[float32](varint.Float32)
	sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var DocumentTypeMUS = documentTypeMUS{}

type documentTypeMUS struct{}

func (s documentTypeMUS) Marshal(v DocumentType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s documentTypeMUS) Unmarshal(bs []byte) (v DocumentType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = DocumentType(tmp)
	return
}

func (s documentTypeMUS) Size(v DocumentType) (size int) {
	return varint.Int.Size(int(v))
}

func (s documentTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var EmbeddingSourceMUS = embeddingSourceMUS{}

type embeddingSourceMUS struct{}

func (s embeddingSourceMUS) Marshal(v EmbeddingSource, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s embeddingSourceMUS) Unmarshal(bs []byte) (v EmbeddingSource, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = EmbeddingSource(tmp)
	return
}

func (s embeddingSourceMUS) Size(v EmbeddingSource) (size int) {
	return varint.Int.Size(int(v))
}

func (s embeddingSourceMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += DocumentTypeMUS.Marshal(v.Type, bs[n:])
	n += ord.String.Marshal(v.FilePath, bs[n:])
	n += ord.String.Marshal(v.Abstract, bs[n:])
	n += sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Marshal(v.Authors, bs[n:])
	n += sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Marshal(v.Keywords, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.PublishedAt, bs[n:])
	n += ord.String.Marshal(v.Extra, bs[n:])
	n += varint.Int.Marshal(v.Version, bs[n:])
	n += ord.Bool.Marshal(v.IsLatest, bs[n:])
	n += IDMUS.Marshal(v.SupersededBy, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.SupersededAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.FileModifiedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.IngestedAt, bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = DocumentTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FilePath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Abstract, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Authors, n1, err = sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Keywords, n1, err = sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PublishedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Extra, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Version, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IsLatest, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SupersededBy, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SupersededAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileModifiedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IngestedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += DocumentTypeMUS.Size(v.Type)
	size += ord.String.Size(v.FilePath)
	size += ord.String.Size(v.Abstract)
	size += sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Size(v.Authors)
	size += sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Size(v.Keywords)
	size += raw.TimeUnixMicro.Size(v.PublishedAt)
	size += ord.String.Size(v.Extra)
	size += varint.Int.Size(v.Version)
	size += ord.Bool.Size(v.IsLatest)
	size += IDMUS.Size(v.SupersededBy)
	size += raw.TimeUnixMicro.Size(v.SupersededAt)
	size += raw.TimeUnixMicro.Size(v.FileModifiedAt)
	return size + raw.TimeUnixMicro.Size(v.IngestedAt)
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = DocumentTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceCFNQcXzw1KwxHU8qDFkPvQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.DocumentId, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += varint.Int.Marshal(v.Position, bs[n:])
	n += varint.Int.Marshal(v.StartChar, bs[n:])
	n += varint.Int.Marshal(v.EndChar, bs[n:])
	n += varint.Int.Marshal(v.WordCount, bs[n:])
	n += varint.Int.Marshal(v.CharCount, bs[n:])
	n += slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Marshal(v.Vector, bs[n:])
	n += EmbeddingSourceMUS.Marshal(v.Source, bs[n:])
	return n + ord.String.Marshal(v.Summary, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Position, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartChar, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EndChar, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.WordCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CharCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = EmbeddingSourceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.DocumentId)
	size += ord.String.Size(v.Content)
	size += varint.Int.Size(v.Position)
	size += varint.Int.Size(v.StartChar)
	size += varint.Int.Size(v.EndChar)
	size += varint.Int.Size(v.WordCount)
	size += varint.Int.Size(v.CharCount)
	size += slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Size(v.Vector)
	size += EmbeddingSourceMUS.Size(v.Source)
	return size + ord.String.Size(v.Summary)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = EmbeddingSourceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var CacheEntryMUS = cacheEntryMUS{}

type cacheEntryMUS struct{}

func (s cacheEntryMUS) Marshal(v CacheEntry, bs []byte) (n int) {
	n = slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Marshal(v.Vector, bs)
	n += EmbeddingSourceMUS.Marshal(v.Source, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s cacheEntryMUS) Unmarshal(bs []byte) (v CacheEntry, n int, err error) {
	v.Vector, n, err = slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = EmbeddingSourceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s cacheEntryMUS) Size(v CacheEntry) (size int) {
	size = slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Size(v.Vector)
	size += EmbeddingSourceMUS.Size(v.Source)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s cacheEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = slice5xg8tgwFqdIJYESgYΣQtrgΞΞ.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = EmbeddingSourceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var SupersedesLinkMUS = supersedesLinkMUS{}

type supersedesLinkMUS struct{}

func (s supersedesLinkMUS) Marshal(v SupersedesLink, bs []byte) (n int) {
	n = IDMUS.Marshal(v.NewerId, bs)
	n += IDMUS.Marshal(v.OlderId, bs[n:])
	n += ord.String.Marshal(v.Reason, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s supersedesLinkMUS) Unmarshal(bs []byte) (v SupersedesLink, n int, err error) {
	v.NewerId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.OlderId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s supersedesLinkMUS) Size(v SupersedesLink) (size int) {
	size = IDMUS.Size(v.NewerId)
	size += IDMUS.Size(v.OlderId)
	size += ord.String.Size(v.Reason)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s supersedesLinkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
