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
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// langchainSplitter adapts a langchaingo text splitter to the Splitter
// interface, recovering source offsets for each emitted piece where the
// piece appears verbatim in the source.
type langchainSplitter struct {
	splitter textsplitter.TextSplitter
}

// newRecursiveSplitter builds the "fixed"/recursive strategy: paragraph
// boundaries first, then lines, then words.
func newRecursiveSplitter(chunkSize, chunkOverlap int) Splitter {
	return &langchainSplitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

// newTokenSplitter builds the token strategy: a hard token budget with
// token-level overlap, deterministic for a fixed encoding.
func newTokenSplitter(chunkSize, chunkOverlap int) Splitter {
	return &langchainSplitter{
		splitter: textsplitter.NewTokenSplitter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// newMarkdownSplitter builds the markdown strategy: header boundaries
// take priority over the advisory chunk size.
func newMarkdownSplitter(chunkSize, chunkOverlap int) Splitter {
	return &langchainSplitter{
		splitter: textsplitter.NewMarkdownTextSplitter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

func (l *langchainSplitter) Split(_ context.Context, text string) ([]Node, error) {
	pieces, err := l.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(pieces))
	searchFrom := 0
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		start, end := locatePiece(text, piece, searchFrom)
		if start >= 0 {
			// Overlapping chunks can start before the previous one ends,
			// but never before it starts.
			searchFrom = start + 1
		}
		nodes = append(nodes, Node{
			ID:        uuid.NewString(),
			Text:      piece,
			StartChar: start,
			EndChar:   end,
		})
	}
	return nodes, nil
}

// locatePiece finds piece's offsets in source at or after from. The
// markdown splitter rewrites header prefixes into each piece, so a piece
// may not appear verbatim; offsets are then (-1, -1).
func locatePiece(source, piece string, from int) (int, int) {
	if from > len(source) {
		return -1, -1
	}
	idx := strings.Index(source[from:], piece)
	if idx < 0 {
		// Retry from the top: overlap can reorder matches behind from.
		idx = strings.Index(source, piece)
		if idx < 0 {
			return -1, -1
		}
		return idx, idx + len(piece)
	}
	return from + idx, from + idx + len(piece)
}
