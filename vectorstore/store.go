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


package vectorstore

import (
	"context"
	"errors"
)

// Record is one stored chunk: its text, embedding vector and flat
// metadata payload.
type Record struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]any
}

// Result is a ranked query hit. Score is cosine similarity, higher is
// more similar.
type Result struct {
	Record Record
	Score  float64
}

// Store persists chunk vectors and supports similarity search.
type Store interface {
	// Init prepares the backing collection for vectors of the given
	// dimension. Idempotent.
	Init(ctx context.Context, dimension int) error

	// Upsert stores records, replacing any with the same id.
	Upsert(ctx context.Context, records []Record) error

	// Query returns the topK records most similar to vector, optionally
	// restricted to records whose metadata matches every filter entry.
	Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]Result, error)

	// Delete removes all records whose document_id metadata matches.
	Delete(ctx context.Context, documentID string) error
}

var (
	// ErrDimensionMismatch indicates a vector whose length differs from
	// the collection's configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotInitialized indicates Init has not been called.
	ErrNotInitialized = errors.New("vector store not initialized")
)
