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
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/docproc/ai"
	"github.com/poiesic/docproc/chunk"
	"github.com/poiesic/docproc/core"
)

const (
	// titleContextBudget caps how much leading node text feeds the
	// title prompt. The title is computed once and copied to all nodes.
	titleContextBudget = 2000

	defaultNumKeywords  = 5
	defaultNumQuestions = 3

	// unreachableAfter is the number of consecutive failed completions,
	// with no success in between, after which the endpoint is treated
	// as unreachable and enrichment is abandoned for this batch.
	unreachableAfter = 3
)

// Extractor attaches LLM-derived metadata to chunk nodes: one document
// title shared by every node, plus per-node keyword and question lists.
//
// Enrichment never fails chunking. Each per-field completion is isolated:
// a failure leaves that field unset and the others proceed. When the
// endpoint looks entirely unreachable the batch is returned un-enriched.
type Extractor struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewExtractor creates a metadata extractor around a completion service.
func NewExtractor(completer ai.Completer) *Extractor {
	return &Extractor{
		completer: completer,
		logger:    slog.Default().With("component", "metadata-extractor"),
	}
}

// EnrichNodes annotates nodes in place and returns them.
func (e *Extractor) EnrichNodes(ctx context.Context, nodes []chunk.Node, opts chunk.EnrichOptions) []chunk.Node {
	if len(nodes) == 0 || e.completer == nil {
		return nodes
	}

	numKeywords := opts.NumKeywords
	if numKeywords <= 0 {
		numKeywords = defaultNumKeywords
	}
	numQuestions := opts.NumQuestions
	if numQuestions <= 0 {
		numQuestions = defaultNumQuestions
	}

	var failures, successes int

	title := e.extractTitle(ctx, nodes, &failures, &successes)

	for i := range nodes {
		if successes == 0 && failures >= unreachableAfter {
			e.logger.Error("completion endpoint unreachable, returning nodes un-enriched",
				"failures", failures, "nodes", len(nodes))
			return nodes
		}

		if nodes[i].Metadata == nil {
			nodes[i].Metadata = map[string]any{}
		}
		if title != "" {
			nodes[i].Metadata[core.MetaDocumentTitle] = title
		}

		if keywords := e.extractKeywords(ctx, nodes[i].Text, numKeywords, &failures, &successes); len(keywords) > 0 {
			nodes[i].Metadata[core.MetaKeywords] = keywords
		}
		if questions := e.extractQuestions(ctx, nodes[i].Text, numQuestions, &failures, &successes); len(questions) > 0 {
			nodes[i].Metadata[core.MetaQuestions] = questions
		}
	}

	e.logger.Debug("enrichment complete",
		"nodes", len(nodes), "successes", successes, "failures", failures)
	return nodes
}

// extractTitle derives the document title from a representative prefix
// of the node texts.
func (e *Extractor) extractTitle(ctx context.Context, nodes []chunk.Node, failures, successes *int) string {
	var b strings.Builder
	for _, n := range nodes {
		if b.Len() >= titleContextBudget {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(n.Text)
	}
	prefix := b.String()
	if len(prefix) > titleContextBudget {
		prefix = prefix[:titleContextBudget]
	}

	raw, err := e.completer.Complete(ctx, titlePrompt(prefix))
	if err != nil {
		*failures++
		e.logger.Warn("title extraction failed", "err", err)
		return ""
	}
	*successes++
	return CleanTitle(raw)
}

func (e *Extractor) extractKeywords(ctx context.Context, text string, count int, failures, successes *int) []string {
	raw, err := e.completer.Complete(ctx, keywordsPrompt(text, count))
	if err != nil {
		*failures++
		e.logger.Warn("keyword extraction failed", "err", err)
		return nil
	}
	*successes++

	keywords := CleanKeywords(raw)
	if len(keywords) > count {
		keywords = keywords[:count]
	}
	return keywords
}

func (e *Extractor) extractQuestions(ctx context.Context, text string, count int, failures, successes *int) []string {
	raw, err := e.completer.Complete(ctx, questionsPrompt(text, count))
	if err != nil {
		*failures++
		e.logger.Warn("question extraction failed", "err", err)
		return nil
	}
	*successes++
	return parseQuestions(raw, count)
}

// parseQuestions cleans a raw question completion. Some models wrap the
// list in a JSON object under a "questions"-ish key despite the prompt;
// unwrap before cleaning.
func parseQuestions(raw string, count int) []string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if value, ok := NormalizeQuestionKey(obj); ok {
				return CleanQuestions(value, count)
			}
		}
	}
	return CleanQuestions(trimmed, count)
}

// Title extracts a cleaned document title for one block of text. Unlike
// EnrichNodes, a completion failure is surfaced to the caller.
func (e *Extractor) Title(ctx context.Context, text string) (string, error) {
	if len(text) > titleContextBudget {
		text = text[:titleContextBudget]
	}
	raw, err := e.completer.Complete(ctx, titlePrompt(text))
	if err != nil {
		return "", err
	}
	return CleanTitle(raw), nil
}

// Keywords extracts up to count cleaned keywords for one block of text.
func (e *Extractor) Keywords(ctx context.Context, text string, count int) ([]string, error) {
	if count <= 0 {
		count = defaultNumKeywords
	}
	raw, err := e.completer.Complete(ctx, keywordsPrompt(text, count))
	if err != nil {
		return nil, err
	}
	keywords := CleanKeywords(raw)
	if len(keywords) > count {
		keywords = keywords[:count]
	}
	return keywords, nil
}

// Questions extracts up to count cleaned questions for one block of text.
func (e *Extractor) Questions(ctx context.Context, text string, count int) ([]string, error) {
	if count <= 0 {
		count = defaultNumQuestions
	}
	raw, err := e.completer.Complete(ctx, questionsPrompt(text, count))
	if err != nil {
		return nil, err
	}
	return parseQuestions(raw, count), nil
}
