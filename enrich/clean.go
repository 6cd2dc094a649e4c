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


package enrich

import (
	"encoding/json"
	"fmt"
	"strings"
)

// boilerplatePrefixes are chatty lead-ins models emit despite being told
// not to. Matched case-insensitively against the start of the output.
var boilerplatePrefixes = []string{
	"based on the provided context, the title of the document could be:",
	"based on the provided context, the title could be:",
	"based on the provided context,",
	"based on the context,",
	"the title of the document is:",
	"the title of this document is:",
	"the title is:",
	"here is the title:",
	"here is a title:",
	"sure, here is the title:",
	"a suitable title would be:",
}

// hedgingPrefixes mark lines that are commentary rather than the answer.
var hedgingPrefixes = []string{
	"i would suggest",
	"i suggest",
	"i think",
	"i'm sorry",
	"i am sorry",
	"i apologize",
	"unfortunately",
	"sure,",
	"certainly",
	"here is",
	"here are",
	"note:",
}

// CleanTitle extracts a single-line document title from raw model output.
//
// Rules apply in order, stopping at the first match: a double-quoted span
// of at least 5 characters wins; then a case-insensitive "Title:" marker;
// then boilerplate prefix stripping followed by first-reasonable-line
// selection. Empty input yields an empty string, never an error.
func CleanTitle(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if quoted := quotedSpan(text); quoted != "" {
		return quoted
	}

	if after := afterTitleMarker(text); after != "" {
		return after
	}

	text = stripBoilerplate(text)

	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || len(line) >= 100 {
				continue
			}
			if hasHedgingPrefix(line) {
				continue
			}
			return line
		}
		return strings.TrimSpace(lines[0])
	}
	return strings.TrimSpace(text)
}

// quotedSpan returns the contents of the first double-quoted span of at
// least 5 characters, or "".
func quotedSpan(text string) string {
	start := strings.IndexByte(text, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(text[start+1:], '"')
	if end < 0 {
		return ""
	}
	span := text[start+1 : start+1+end]
	if len(span) < 5 {
		return ""
	}
	return strings.TrimSpace(span)
}

// afterTitleMarker returns the text following a case-insensitive "Title:"
// marker on the same line, or "".
func afterTitleMarker(text string) string {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, "title:")
	if idx < 0 {
		return ""
	}
	rest := text[idx+len("title:"):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

func stripBoilerplate(text string) string {
	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(text[len(prefix):])
		}
	}
	return text
}

func hasHedgingPrefix(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range hedgingPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// CleanKeywords parses raw model output into a keyword list: strips a
// leading "Keywords:" label, splits on commas, trims each fragment and
// drops empties. The list stays native; persistence layers that cannot
// store lists comma-join it at their own boundary.
func CleanKeywords(raw string) []string {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "keywords:") {
		text = strings.TrimSpace(text[len("keywords:"):])
	}
	if text == "" {
		return nil
	}

	var keywords []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}

// questionKey is the canonical metadata key for extracted questions.
const questionKey = "questions"

// NormalizeQuestionKey finds question data in a metadata map. When the
// canonical key is absent it scans for any key containing "question"
// (case-insensitive), moves that value under the canonical key and
// deletes the original. Returns the value and whether one was found.
func NormalizeQuestionKey(meta map[string]any) (any, bool) {
	if v, ok := meta[questionKey]; ok {
		return v, true
	}
	for k, v := range meta {
		if strings.Contains(strings.ToLower(k), "question") {
			delete(meta, k)
			meta[questionKey] = v
			return v, true
		}
	}
	return nil, false
}

// CleanQuestions normalizes a questions value into at most count trimmed
// strings.
//
// String values are first parsed as a JSON array; on failure they are
// split on newlines. Numeric list markers ("1.", "2)", …) are dropped
// when they stand alone, and stripped from every line only when all
// non-empty lines carry one. List values are coerced element-wise.
func CleanQuestions(value any, count int) []string {
	var lines []string

	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		lines = v
	case []any:
		for _, item := range v {
			lines = append(lines, fmt.Sprintf("%v", item))
		}
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		var parsed []string
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			lines = parsed
		} else {
			lines = splitQuestionLines(text)
		}
	default:
		lines = []string{fmt.Sprintf("%v", value)}
	}

	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out
}

// splitQuestionLines handles newline-delimited question text, applying
// the all-or-nothing numeric-marker rule.
func splitQuestionLines(text string) []string {
	raw := strings.Split(text, "\n")

	var nonEmpty []string
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	allMarked := true
	for _, line := range nonEmpty {
		if stripListMarker(line) == line {
			allMarked = false
			break
		}
	}

	var out []string
	for _, line := range nonEmpty {
		stripped := stripListMarker(line)
		switch {
		case allMarked:
			if stripped != "" {
				out = append(out, stripped)
			}
		case stripped == "":
			// A bare marker line ("1.") with no content.
		default:
			out = append(out, line)
		}
	}
	return out
}

// stripListMarker removes a leading numeric list marker ("3.", "12)")
// and returns the remainder; returns the line unchanged when no marker
// is present.
func stripListMarker(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return line
	}
	if line[i] != '.' && line[i] != ')' {
		return line
	}
	return strings.TrimSpace(line[i+1:])
}
