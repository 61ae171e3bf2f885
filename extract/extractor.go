package extract

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/scholarkb/core"
)

// Result holds the text and metadata pulled from a source file.
type Result struct {
	Title       string
	Text        string
	Type        core.DocumentType
	Authors     []string
	Keywords    []string
	PublishedAt time.Time // Zero when the source carries no date
	Extra       string    // Leftover source metadata, serialized as JSON
}

// Extractor converts one source file format into plain text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	// Extract reads the file at path and returns its text and metadata.
	Extract(ctx context.Context, path string) (*Result, error)
}

// ForPath returns the extractor for a file based on its extension,
// or ErrUnsupportedFormat.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFExtractor(), nil
	case ".md", ".markdown":
		return NewMarkdownExtractor(), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// SupportedPath reports whether a file can be ingested.
func SupportedPath(path string) bool {
	_, err := ForPath(path)
	return err == nil
}

// titleFromPath derives a fallback title from the file name, with the
// extension stripped and separators turned into spaces.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
