package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "/papers/vector-search.md",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunkID(t *testing.T) {
	docID := IDFromContent("/papers/doc.md")

	id1 := ChunkID(docID, 0)
	id2 := ChunkID(docID, 0)
	if id1 != id2 {
		t.Errorf("ChunkID() produced different IDs for same inputs: %d vs %d", id1, id2)
	}

	if ChunkID(docID, 0) == ChunkID(docID, 1) {
		t.Errorf("ChunkID() produced same ID for different positions")
	}

	otherDoc := IDFromContent("/papers/other.md")
	if ChunkID(docID, 0) == ChunkID(otherDoc, 0) {
		t.Errorf("ChunkID() produced same ID for different documents")
	}
}

func TestDocumentType_String(t *testing.T) {
	tests := []struct {
		name string
		typ  DocumentType
		want string
	}{
		{name: "pdf", typ: DocumentTypePDF, want: "pdf"},
		{name: "markdown", typ: DocumentTypeMarkdown, want: "markdown"},
		{name: "unknown", typ: DocumentType(99), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("DocumentType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmbeddingSource_String(t *testing.T) {
	tests := []struct {
		name   string
		source EmbeddingSource
		want   string
	}{
		{name: "none", source: EmbeddingSourceNone, want: "none"},
		{name: "inference", source: EmbeddingSourceInference, want: "inference"},
		{name: "local", source: EmbeddingSourceLocal, want: "local"},
		{name: "placeholder", source: EmbeddingSourcePlaceholder, want: "placeholder"},
		{name: "out of range", source: EmbeddingSource(99), want: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.source.String(); got != tt.want {
				t.Errorf("EmbeddingSource.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
