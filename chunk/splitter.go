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
	"log/slog"

	"github.com/poiesic/docproc/ai"
	"github.com/poiesic/docproc/core"
)

// Node is a structural text unit produced by a splitter, before
// conversion into a core.TextChunk.
//
// StartChar/EndChar are offsets into the source text passed to Split,
// or -1 when the splitter cannot track them. ParentID and ChildIDs are
// populated only by the hierarchical splitter.
type Node struct {
	ID        string
	Text      string
	StartChar int
	EndChar   int
	Metadata  map[string]any
	ParentID  string
	ChildIDs  []string
}

// Splitter divides text into ordered nodes.
type Splitter interface {
	Split(ctx context.Context, text string) ([]Node, error)
}

// Selector maps a chunking strategy to a configured Splitter.
//
// The embedder is optional; it is only needed for the semantic strategy.
type Selector struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewSelector creates a splitter selector. Pass a nil embedder when no
// embedding service is configured; semantic chunking then becomes
// unavailable.
func NewSelector(embedder ai.Embedder) *Selector {
	return &Selector{
		embedder: embedder,
		logger:   slog.Default().With("component", "splitter-selector"),
	}
}

// Select returns the splitter for the given strategy along with the
// strategy that will actually run.
//
// Strategies outside the known set fall back to sentence splitting; the
// fallback is logged and visible to the caller through the returned
// strategy value, never hidden. Semantic chunking without an embedder is
// a hard configuration error (ErrEmbedderRequired).
func (s *Selector) Select(strategy core.ChunkingStrategy, chunkSize, chunkOverlap int) (Splitter, core.ChunkingStrategy, error) {
	switch strategy {
	case core.StrategySentence:
		return NewSentenceSplitter(chunkSize, chunkOverlap), strategy, nil
	case core.StrategyRecursive:
		return newRecursiveSplitter(chunkSize, chunkOverlap), strategy, nil
	case core.StrategyToken:
		return newTokenSplitter(chunkSize, chunkOverlap), strategy, nil
	case core.StrategyMarkdown:
		return newMarkdownSplitter(chunkSize, chunkOverlap), strategy, nil
	case core.StrategyHierarchical:
		return NewHierarchicalSplitter(chunkSize, chunkOverlap), strategy, nil
	case core.StrategySemantic:
		if s.embedder == nil {
			return nil, "", ErrEmbedderRequired
		}
		return NewSemanticSplitter(s.embedder), strategy, nil
	default:
		s.logger.Warn("unknown chunking strategy, falling back to sentence",
			"requested", string(strategy))
		return NewSentenceSplitter(chunkSize, chunkOverlap), core.StrategySentence, nil
	}
}
