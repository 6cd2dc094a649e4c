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

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/poiesic/docproc/ai"
)

// breakpointPercentile is the similarity-drop threshold for semantic
// splits: a boundary is placed wherever the distance between adjacent
// sentence windows exceeds the 95th percentile of all distances.
const breakpointPercentile = 0.95

// SemanticSplitter splits where embedding similarity between adjacent
// sentences drops sharply. Each sentence is embedded together with a
// one-sentence buffer on each side to smooth out local noise. Chunk size
// and overlap parameters do not apply to this strategy.
type SemanticSplitter struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewSemanticSplitter creates a semantic splitter. The embedder must be
// non-nil; the selector enforces this.
func NewSemanticSplitter(embedder ai.Embedder) *SemanticSplitter {
	return &SemanticSplitter{
		embedder: embedder,
		logger:   slog.Default().With("component", "semantic-splitter"),
	}
}

// Split divides text at embedding-similarity breakpoints.
func (s *SemanticSplitter) Split(ctx context.Context, text string) ([]Node, error) {
	sentences := splitSentenceSpans(text)
	if len(sentences) == 0 {
		return nil, nil
	}
	if len(sentences) == 1 {
		sp := sentences[0]
		return []Node{{
			ID:        uuid.NewString(),
			Text:      text[sp.start:sp.end],
			StartChar: sp.start,
			EndChar:   sp.end,
		}}, nil
	}

	windows := make([]string, len(sentences))
	for i := range sentences {
		windows[i] = windowText(text, sentences, i)
	}

	vectors, err := s.embedder.EmbedTexts(ctx, windows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("%w: got %d vectors for %d sentences",
			ErrEmbeddingFailed, len(vectors), len(sentences))
	}

	distances := make([]float64, len(sentences)-1)
	for i := 0; i < len(sentences)-1; i++ {
		distances[i] = 1 - cosineSimilarity(vectors[i], vectors[i+1])
	}
	threshold := percentile(distances, breakpointPercentile)

	var nodes []Node
	groupStart := 0
	flush := func(endIdx int) {
		first, last := sentences[groupStart], sentences[endIdx]
		nodes = append(nodes, Node{
			ID:        uuid.NewString(),
			Text:      text[first.start:last.end],
			StartChar: first.start,
			EndChar:   last.end,
		})
		groupStart = endIdx + 1
	}

	for i, d := range distances {
		if d > threshold {
			flush(i)
		}
	}
	if groupStart < len(sentences) {
		flush(len(sentences) - 1)
	}

	s.logger.Debug("semantic split complete",
		"sentences", len(sentences), "chunks", len(nodes), "threshold", threshold)
	return nodes, nil
}

// windowText joins sentence i with one buffer sentence on each side.
func windowText(text string, sentences []span, i int) string {
	lo := i - 1
	if lo < 0 {
		lo = 0
	}
	hi := i + 1
	if hi >= len(sentences) {
		hi = len(sentences) - 1
	}
	out := ""
	for j := lo; j <= hi; j++ {
		if out != "" {
			out += " "
		}
		out += text[sentences[j].start:sentences[j].end]
	}
	return out
}

// percentile returns the p-th percentile of values using linear
// interpolation between ranks, so a single outlier distance still
// exceeds the threshold on short inputs.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched or zero-magnitude vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
