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


package parse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/docproc/core"
	"github.com/tsawler/tabula"
)

// Extraction methods recorded in document metadata. The layout pass is
// the primary path; the text pass is the fallback when layout analysis
// fails on a malformed document.
const (
	MethodLayout    = "tabula-layout"
	MethodTextOnly  = "tabula-text"
	MethodPlainText = "plain-text"
)

// TabulaParser implements Parser on top of the tabula extraction engine.
// Plain-text formats (.txt, .md) bypass the engine entirely.
//
// The engine reads from disk, so each request stages its bytes in a
// temporary file that is removed before Parse returns.
type TabulaParser struct {
	logger *slog.Logger
}

// NewTabulaParser creates a document parser.
func NewTabulaParser() *TabulaParser {
	return &TabulaParser{
		logger: slog.Default().With("component", "parser"),
	}
}

// Parse extracts text, structure and tables from a document.
func (p *TabulaParser) Parse(_ context.Context, req ParseRequest) (*core.ParsedDocument, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	switch ext {
	case ".txt", ".md", ".markdown":
		return p.parsePlainText(req, ext), nil
	}
	return p.parseWithEngine(req, ext)
}

// parsePlainText handles text formats that need no extraction engine.
func (p *TabulaParser) parsePlainText(req ParseRequest, ext string) *core.ParsedDocument {
	text := string(req.Data)

	doc := &core.ParsedDocument{
		DocumentID: core.NewDocumentID(),
		Metadata: core.DocumentMetadata{
			Filename:         req.Filename,
			FileType:         strings.TrimPrefix(ext, "."),
			FileSizeBytes:    int64(len(req.Data)),
			ExtractionMethod: MethodPlainText,
		},
		RawText: text,
	}
	if ext == ".md" || ext == ".markdown" {
		doc.MarkdownText = text
	}
	return doc
}

func (p *TabulaParser) parseWithEngine(req ParseRequest, ext string) (*core.ParsedDocument, error) {
	path, cleanup, err := p.stage(req.Data, ext)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// PageCount is not a terminal operation, so this extractor must be
	// closed by hand.
	counter := tabula.Open(path)
	totalPages, err := counter.PageCount()
	counter.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	// Clamp before building page ranges: tabula rejects ranges past the
	// last page instead of truncating them.
	limit := totalPages
	if req.MaxPages > 0 && req.MaxPages < totalPages {
		limit = req.MaxPages
	}

	// Terminal tabula operations (Text, ToMarkdown, Document) each close
	// their extractor, so every pass gets a fresh one over the staged
	// file. Reusing one instance across terminal calls panics on a nil
	// reader inside the engine.
	open := func() *tabula.Extractor {
		e := tabula.Open(path)
		if limit < totalPages {
			e = e.PageRange(1, limit)
		}
		return e
	}

	doc := &core.ParsedDocument{
		DocumentID: core.NewDocumentID(),
		Metadata: core.DocumentMetadata{
			Filename:      req.Filename,
			FileType:      strings.TrimPrefix(ext, "."),
			PageCount:     limit,
			FileSizeBytes: int64(len(req.Data)),
		},
	}

	if !req.TextOnly && p.extractLayout(open, doc) {
		doc.Metadata.ExtractionMethod = MethodLayout
		return doc, nil
	}

	text, warnings, err := open().Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if len(warnings) > 0 {
		p.logger.Debug("text extraction warnings", "filename", req.Filename, "count", len(warnings))
	}

	doc.RawText = text
	doc.Metadata.ExtractionMethod = MethodTextOnly
	return doc, nil
}

// extractLayout runs the structural pass: markdown rendering, page
// records, tables and document metadata. Returns false when the layout
// engine fails, letting the caller fall back to plain text extraction.
func (p *TabulaParser) extractLayout(open func() *tabula.Extractor, doc *core.ParsedDocument) bool {
	markdown, warnings, err := open().ToMarkdown()
	if err != nil {
		p.logger.Warn("markdown rendering failed, falling back to text extraction",
			"filename", doc.Metadata.Filename, "err", err)
		return false
	}
	if len(warnings) > 0 {
		p.logger.Debug("markdown rendering warnings",
			"filename", doc.Metadata.Filename, "count", len(warnings))
	}

	model, _, err := open().Document()
	if err != nil {
		p.logger.Warn("layout analysis failed, falling back to text extraction",
			"filename", doc.Metadata.Filename, "err", err)
		return false
	}

	doc.MarkdownText = markdown
	doc.RawText = model.ExtractText()
	doc.Metadata.Title = model.Metadata.Title
	doc.Metadata.Author = model.Metadata.Author
	doc.Metadata.CreatedAt = model.Metadata.CreationDate

	for _, page := range model.Pages {
		doc.Pages = append(doc.Pages, core.PageRecord{
			PageNumber: page.Number,
			Text:       page.ExtractText(),
		})
		for _, table := range page.ExtractTables() {
			doc.Tables = append(doc.Tables, core.TableRecord{
				Index:    len(doc.Tables),
				Markdown: table.ToMarkdown(),
				Page:     page.Number,
				Rows:     table.RowCount(),
				Columns:  table.ColCount(),
			})
		}
	}
	return true
}

// stage writes uploaded bytes to a temporary file for the engine.
func (p *TabulaParser) stage(data []byte, ext string) (string, func(), error) {
	f, err := os.CreateTemp("", "docproc-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("staging upload: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("staging upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("staging upload: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}
