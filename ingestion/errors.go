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


package ingestion

import "errors"

var (
	// ErrInvalidChunkConfig indicates chunk size/overlap parameters that
	// cannot produce forward progress.
	ErrInvalidChunkConfig = errors.New("invalid chunker configuration")

	// ErrFileNotFound indicates the source file does not exist.
	ErrFileNotFound = errors.New("source file not found")

	// ErrNoContent indicates the file produced no chunks.
	ErrNoContent = errors.New("document produced no content")
)
