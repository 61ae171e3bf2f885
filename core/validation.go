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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - FilePath must not be empty
//   - Type must be valid (PDF or Markdown)
//   - IsLatest must be false exactly when SupersededBy is set
//
// NOT validated (populated later in the pipeline):
//   - Abstract, Authors, Keywords, PublishedAt (optional metadata)
//   - SupersededAt (set together with SupersededBy by the detector)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.FilePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilePath)
	}

	if err := ValidateDocumentType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if doc.IsLatest != (doc.SupersededBy == 0) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrSupersessionFlagMismatch)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Position must not be negative
//   - EndChar must be greater than StartChar
//
// NOT validated (populated by processors):
//   - Vector and Source (can be empty until the embedding step runs)
//   - Summary
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Position < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativePosition)
	}

	if chunk.EndChar <= chunk.StartChar {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidCharRange)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType has a valid value.
func ValidateDocumentType(t DocumentType) error {
	if t != DocumentTypePDF && t != DocumentTypeMarkdown {
		return fmt.Errorf("%w: value %d", ErrInvalidDocumentType, t)
	}
	return nil
}
