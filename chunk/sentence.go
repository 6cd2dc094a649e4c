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
)

// span marks one sentence's [start, end) byte offsets in the source text.
type span struct {
	start, end int
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// trimSpan shrinks [start, end) past leading and trailing whitespace.
func trimSpan(text string, start, end int) (int, int) {
	for start < end && isSpaceByte(text[start]) {
		start++
	}
	for end > start && isSpaceByte(text[end-1]) {
		end--
	}
	return start, end
}

// splitSentenceSpans scans text into sentence spans. A paragraph break
// ("\n\n") always ends a sentence; otherwise a sentence ends after
// '.', '!' or '?' followed by whitespace or end of input.
func splitSentenceSpans(text string) []span {
	var spans []span
	start := 0
	i := 0
	n := len(text)

	flush := func(end int) {
		s, e := trimSpan(text, start, end)
		if s < e {
			spans = append(spans, span{s, e})
		}
	}

	for i < n {
		c := text[i]
		switch {
		case c == '\n' && i+1 < n && text[i+1] == '\n':
			flush(i)
			for i < n && (text[i] == '\n' || text[i] == '\r') {
				i++
			}
			start = i
		case (c == '.' || c == '!' || c == '?') && (i+1 >= n || isSpaceByte(text[i+1])):
			flush(i + 1)
			i++
			start = i
		default:
			i++
		}
	}
	flush(n)
	return spans
}

// paragraphBreakBetween reports whether a blank line separates two
// adjacent sentence spans.
func paragraphBreakBetween(text string, prev, next span) bool {
	if prev.end >= next.start {
		return false
	}
	return strings.Contains(text[prev.end:next.start], "\n\n")
}

// SentenceSplitter groups whole sentences into chunks up to a soft
// character budget. Paragraph boundaries are preferred split points: a
// group at least half full ends at a blank line even when under budget.
// Overlap reuses trailing sentences of the previous group, never the
// whole group, so progress is always made.
type SentenceSplitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSentenceSplitter creates a sentence splitter. Callers validate that
// overlap < size; the splitter itself only guarantees forward progress.
func NewSentenceSplitter(chunkSize, chunkOverlap int) *SentenceSplitter {
	return &SentenceSplitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split divides text into sentence-group nodes with exact source offsets.
func (s *SentenceSplitter) Split(_ context.Context, text string) ([]Node, error) {
	sentences := splitSentenceSpans(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var nodes []Node
	var group []span

	groupLen := func() int {
		if len(group) == 0 {
			return 0
		}
		return group[len(group)-1].end - group[0].start
	}

	emit := func() {
		first, last := group[0], group[len(group)-1]
		nodes = append(nodes, Node{
			ID:        uuid.NewString(),
			Text:      text[first.start:last.end],
			StartChar: first.start,
			EndChar:   last.end,
		})
	}

	for _, sent := range sentences {
		sentLen := sent.end - sent.start
		if len(group) > 0 {
			overBudget := groupLen()+sentLen > s.chunkSize
			atParagraph := paragraphBreakBetween(text, group[len(group)-1], sent) &&
				groupLen() >= s.chunkSize/2
			if overBudget || atParagraph {
				emit()
				group = overlapTail(group, s.chunkOverlap)
			}
		}
		group = append(group, sent)
	}
	if len(group) > 0 {
		emit()
	}

	return nodes, nil
}

// overlapTail selects trailing sentences of an emitted group to repeat at
// the start of the next one, up to the overlap budget. It always keeps
// strictly fewer sentences than the full group.
func overlapTail(group []span, overlap int) []span {
	if overlap <= 0 || len(group) <= 1 {
		return nil
	}
	total := 0
	i := len(group)
	for i > 1 {
		s := group[i-1]
		l := s.end - s.start
		if total+l > overlap {
			break
		}
		total += l
		i--
	}
	if i == len(group) {
		return nil
	}
	return append([]span(nil), group[i:]...)
}
