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


// Package ingestion turns source files into stored, embedded, versioned
// documents.
//
// The pipeline per file: resolve the canonical path, skip unchanged
// files by mtime, extract text, chunk it paragraph-aware, embed each
// chunk through the degradation chain, persist document and chunks,
// then run supersession detection so older versions of the same
// document stop appearing in default search results.
package ingestion
