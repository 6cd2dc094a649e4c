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

import (
	"fmt"
	"strings"
)

// Bounds for chunking parameters accepted at the request surface.
const (
	MinChunkSize = 50
	MaxChunkSize = 4096
	MaxCount     = 10
)

// ValidateChunkParams validates chunk size and overlap against the
// request-surface bounds.
//
// Validation rules:
//   - MinChunkSize <= size <= MaxChunkSize
//   - 0 <= overlap < size
//
// Splitters assume overlap < size; rejecting it here keeps that
// invariant out of every splitter's inner loop.
func ValidateChunkParams(size, overlap int) error {
	if size < MinChunkSize || size > MaxChunkSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrChunkSizeRange, size, MinChunkSize, MaxChunkSize)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: overlap %d, size %d", ErrOverlapRange, overlap, size)
	}
	return nil
}

// ValidateText validates that text is non-empty after trimming.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateCount validates a keyword/question count.
func ValidateCount(n int) error {
	if n < 1 || n > MaxCount {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrCountRange, n, MaxCount)
	}
	return nil
}

// ValidateChunkedDocument checks the aggregate invariants:
// TotalChunks equals the chunk list length and chunk indices form the
// contiguous range [0, TotalChunks).
func ValidateChunkedDocument(doc *ChunkedDocument) error {
	if doc.TotalChunks != len(doc.Chunks) {
		return fmt.Errorf("%w: total_chunks %d, len %d", ErrIndexGap, doc.TotalChunks, len(doc.Chunks))
	}
	for i, chunk := range doc.Chunks {
		if chunk.ChunkIndex != i {
			return fmt.Errorf("%w: position %d has index %d", ErrIndexGap, i, chunk.ChunkIndex)
		}
	}
	return nil
}
