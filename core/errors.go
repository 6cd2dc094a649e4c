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
	// ErrUnknownStrategy indicates a chunking strategy name outside the
	// request surface.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")

	// ErrEmptyText indicates text input that is empty after trimming.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrChunkSizeRange indicates a chunk size outside the accepted bounds.
	ErrChunkSizeRange = errors.New("chunk size out of range")

	// ErrOverlapRange indicates a chunk overlap that is negative or not
	// smaller than the chunk size.
	ErrOverlapRange = errors.New("chunk overlap must be smaller than chunk size")

	// ErrCountRange indicates a keyword/question count outside the
	// accepted bounds.
	ErrCountRange = errors.New("count out of range")

	// ErrIndexGap indicates chunk indices that are not the contiguous
	// range [0, total_chunks).
	ErrIndexGap = errors.New("chunk indices are not contiguous")
)
