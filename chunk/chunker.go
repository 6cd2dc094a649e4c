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

	"github.com/poiesic/docproc/core"
)

// EnrichOptions control LLM metadata enrichment of splitter nodes.
type EnrichOptions struct {
	NumKeywords  int
	NumQuestions int
}

// Enricher attaches LLM-derived metadata (title, keywords, questions) to
// nodes. Implementations must never fail the chunking pipeline: on any
// error they log and return the nodes unchanged or partially enriched.
type Enricher interface {
	EnrichNodes(ctx context.Context, nodes []Node, opts EnrichOptions) []Node
}

// Params are the caller-supplied chunking parameters, validated at the
// request boundary before reaching the chunker.
type Params struct {
	Strategy        core.ChunkingStrategy
	ChunkSize       int
	ChunkOverlap    int
	ExtractMetadata bool
	NumKeywords     int
	NumQuestions    int
}

// Chunker turns parsed documents or raw text into ordered chunk records.
// It owns strategy selection, optional enrichment, token counting and
// table-chunk assembly.
type Chunker struct {
	selector *Selector
	enricher Enricher
	tokens   *TokenCounter
	logger   *slog.Logger
}

// NewChunker creates a chunker. The enricher may be nil when no
// completion service is configured; enrichment requests are then logged
// and skipped.
func NewChunker(selector *Selector, enricher Enricher, tokens *TokenCounter) *Chunker {
	return &Chunker{
		selector: selector,
		enricher: enricher,
		tokens:   tokens,
		logger:   slog.Default().With("component", "chunker"),
	}
}

// ChunkDocument splits a parsed document into chunks.
//
// The markdown rendering is preferred over plain text as the split source
// so the markdown and hierarchical strategies keep their structural cues.
// Extracted tables become one extra chunk each, appended after the text
// chunks with contiguous indices.
func (c *Chunker) ChunkDocument(ctx context.Context, doc *core.ParsedDocument, p Params) (*core.ChunkedDocument, error) {
	source := doc.MarkdownText
	if source == "" {
		source = doc.RawText
	}
	if source == "" {
		c.logger.Warn("document has no text content", "document_id", doc.DocumentID)
	}

	nodes, used, err := c.split(ctx, source, p)
	if err != nil {
		return nil, err
	}

	chunks := c.assemble(doc.DocumentID, nodes)

	for _, table := range doc.Tables {
		idx := len(chunks)
		chunks = append(chunks, core.TextChunk{
			ID:   core.ChunkID(doc.DocumentID, idx),
			Text: table.Markdown,
			Metadata: map[string]any{
				core.MetaDocumentID:  doc.DocumentID,
				core.MetaContentType: core.ContentTypeTable,
				core.MetaTableIndex:  table.Index,
			},
			PageNumber: table.Page,
			StartChar:  -1,
			EndChar:    -1,
			ChunkIndex: idx,
			TokenCount: c.tokens.Count(table.Markdown),
		})
	}

	result := &core.ChunkedDocument{
		DocumentID:   doc.DocumentID,
		Metadata:     doc.Metadata,
		Chunks:       chunks,
		TotalChunks:  len(chunks),
		Strategy:     used,
		ChunkSize:    p.ChunkSize,
		ChunkOverlap: p.ChunkOverlap,
	}

	c.logger.Info("document chunked",
		"document_id", doc.DocumentID,
		"strategy", string(used),
		"chunks", result.TotalChunks,
		"tables", len(doc.Tables))
	return result, nil
}

// ChunkText splits raw text without a parsed document wrapper. A fresh
// document id is generated; table handling does not apply. Extra metadata
// is copied onto every chunk. The returned strategy reflects what
// actually ran, which differs from the request on fallback.
func (c *Chunker) ChunkText(ctx context.Context, text string, p Params, extraMeta map[string]any) ([]core.TextChunk, core.ChunkingStrategy, error) {
	nodes, used, err := c.split(ctx, text, p)
	if err != nil {
		return nil, "", err
	}

	documentID := core.NewDocumentID()
	chunks := c.assemble(documentID, nodes)
	for i := range chunks {
		for k, v := range extraMeta {
			chunks[i].Metadata[k] = v
		}
	}
	return chunks, used, nil
}

// split selects the splitter, runs it and applies optional enrichment.
func (c *Chunker) split(ctx context.Context, text string, p Params) ([]Node, core.ChunkingStrategy, error) {
	splitter, used, err := c.selector.Select(p.Strategy, p.ChunkSize, p.ChunkOverlap)
	if err != nil {
		return nil, "", err
	}
	if used != p.Strategy {
		c.logger.Warn("chunking strategy fallback",
			"requested", string(p.Strategy), "used", string(used))
	}

	nodes, err := splitter.Split(ctx, text)
	if err != nil {
		return nil, "", err
	}

	if p.ExtractMetadata {
		if c.enricher == nil {
			c.logger.Warn("metadata extraction requested but no completion service configured")
		} else {
			nodes = c.enricher.EnrichNodes(ctx, nodes, EnrichOptions{
				NumKeywords:  p.NumKeywords,
				NumQuestions: p.NumQuestions,
			})
		}
	}
	return nodes, used, nil
}

// assemble converts nodes into chunk records with contiguous zero-based
// indices in splitter output order.
func (c *Chunker) assemble(documentID string, nodes []Node) []core.TextChunk {
	chunks := make([]core.TextChunk, 0, len(nodes))
	for i, node := range nodes {
		id := node.ID
		if id == "" {
			id = core.ChunkID(documentID, i)
		}

		meta := map[string]any{core.MetaDocumentID: documentID}
		for k, v := range node.Metadata {
			meta[k] = v
		}
		if node.ParentID != "" {
			meta[core.MetaParentID] = node.ParentID
		}
		if len(node.ChildIDs) > 0 {
			meta[core.MetaChildIDs] = node.ChildIDs
		}

		chunks = append(chunks, core.TextChunk{
			ID:         id,
			Text:       node.Text,
			Metadata:   meta,
			StartChar:  node.StartChar,
			EndChar:    node.EndChar,
			ChunkIndex: i,
			TokenCount: c.tokens.Count(node.Text),
		})
	}
	return chunks
}
