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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyFilePath indicates the FilePath field is empty.
	ErrEmptyFilePath = errors.New("file path cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidDocumentType indicates an invalid DocumentType value.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidCharRange indicates EndChar is not greater than StartChar.
	ErrInvalidCharRange = errors.New("end char must be greater than start char")

	// ErrNegativePosition indicates a chunk position below zero.
	ErrNegativePosition = errors.New("chunk position cannot be negative")

	// ErrSupersessionFlagMismatch indicates IsLatest disagrees with SupersededBy.
	ErrSupersessionFlagMismatch = errors.New("is_latest must be false exactly when superseded_by is set")
)
