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


package chunk

import "errors"

var (
	// ErrEmbedderRequired is returned when semantic chunking is requested
	// but no embedding service is configured. Semantic chunking without
	// embeddings would produce semantically misleading results, so this is
	// a configuration error rather than a silent degradation.
	ErrEmbedderRequired = errors.New("semantic chunking requires an embedding service")

	// ErrEmbeddingFailed wraps embedding errors during semantic chunking.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)
