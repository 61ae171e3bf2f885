package mock

import (
	"context"
	"strings"

	"github.com/poiesic/scholarkb/ai"
)

// MockMetadataExtractor is a test double for ai.MetadataExtractor.
// It allows custom behavior injection via function fields.
type MockMetadataExtractor struct {
	// ExtractMetadataFunc is called by ExtractMetadata if set.
	// If nil, uses default simple word extraction.
	ExtractMetadataFunc func(ctx context.Context, title, text string) (*ai.DocumentMetadata, error)

	callCount int
}

// NewMockMetadataExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockMetadataExtractor() *MockMetadataExtractor {
	return &MockMetadataExtractor{}
}

// ExtractMetadata produces simple mock metadata from the text.
// Default behavior: first sentence as abstract, first distinct words as keywords.
func (m *MockMetadataExtractor) ExtractMetadata(ctx context.Context, title, text string) (*ai.DocumentMetadata, error) {
	m.callCount++

	if m.ExtractMetadataFunc != nil {
		return m.ExtractMetadataFunc(ctx, title, text)
	}

	abstract := text
	if idx := strings.IndexAny(text, ".!?"); idx > 0 {
		abstract = text[:idx+1]
	}

	words := strings.Fields(strings.ToLower(text))
	seen := make(map[string]bool)
	keywords := make([]string, 0, 5)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) >= 5 {
			break
		}
	}

	return &ai.DocumentMetadata{
		Abstract: strings.TrimSpace(abstract),
		Keywords: keywords,
	}, nil
}

// CallCount returns the number of times ExtractMetadata was called.
func (m *MockMetadataExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockMetadataExtractor) Reset() {
	m.callCount = 0
	m.ExtractMetadataFunc = nil
}
