package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChunkingStrategy selects the algorithm used to split text into chunks.
type ChunkingStrategy string

const (
	// StrategySentence groups whole sentences up to a soft size budget,
	// preferring paragraph boundaries as split points.
	StrategySentence ChunkingStrategy = "sentence"

	// StrategySemantic splits where embedding similarity between adjacent
	// sentences drops sharply. Requires an embedding model.
	StrategySemantic ChunkingStrategy = "semantic"

	// StrategyToken splits on a hard token budget with token-level overlap.
	StrategyToken ChunkingStrategy = "token"

	// StrategyRecursive splits on paragraph boundaries first, then more
	// aggressively on smaller separators. Exposed as "fixed" on the wire.
	StrategyRecursive ChunkingStrategy = "recursive"

	// StrategyMarkdown splits along markdown structure (headers, sections).
	StrategyMarkdown ChunkingStrategy = "markdown"

	// StrategyHierarchical produces a three-level parent/child chunk tree
	// over the same text.
	StrategyHierarchical ChunkingStrategy = "hierarchical"
)

// ParseStrategy maps a request-surface strategy name to a ChunkingStrategy.
// "fixed" is the wire-level synonym for the recursive splitter.
// Returns ErrUnknownStrategy for names outside the request surface.
func ParseStrategy(name string) (ChunkingStrategy, error) {
	switch name {
	case "sentence":
		return StrategySentence, nil
	case "semantic":
		return StrategySemantic, nil
	case "token":
		return StrategyToken, nil
	case "fixed", "recursive":
		return StrategyRecursive, nil
	case "markdown":
		return StrategyMarkdown, nil
	case "hierarchical":
		return StrategyHierarchical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Canonical metadata keys attached to chunks. Enrichment and downstream
// consumers agree on these names; adapters for backends that use different
// key names normalize to these once, at the extraction boundary.
const (
	MetaDocumentID    = "document_id"
	MetaDocumentTitle = "document_title"
	MetaKeywords      = "excerpt_keywords"
	MetaQuestions     = "questions"
	MetaParentID      = "parent_id"
	MetaChildIDs      = "child_ids"
	MetaContentType   = "content_type"
	MetaTableIndex    = "table_index"
	MetaPage          = "page"
)

// ContentTypeTable marks chunks generated from extracted tables.
const ContentTypeTable = "table"

// DocumentMetadata describes a parsed source document.
type DocumentMetadata struct {
	Filename         string    `json:"filename"`
	FileType         string    `json:"file_type"`
	PageCount        int       `json:"page_count,omitempty"`
	Title            string    `json:"title,omitempty"`
	Author           string    `json:"author,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	FileSizeBytes    int64     `json:"file_size_bytes"`
	ExtractionMethod string    `json:"extraction_method"`
}

// PageRecord holds page-level information from the parser.
type PageRecord struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text,omitempty"`
}

// TableRecord is an extracted table, rendered to markdown for chunking.
type TableRecord struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
	Page     int    `json:"page,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Columns  int    `json:"columns,omitempty"`
}

// FigureRecord is an extracted figure/image reference.
type FigureRecord struct {
	Index   int    `json:"index"`
	Page    int    `json:"page,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// ParsedDocument is the immutable result of parsing one document.
// It is created once per parse call and never mutated afterwards.
type ParsedDocument struct {
	DocumentID   string           `json:"document_id"`
	Metadata     DocumentMetadata `json:"metadata"`
	RawText      string           `json:"raw_text"`
	MarkdownText string           `json:"markdown_text,omitempty"`
	Pages        []PageRecord     `json:"pages,omitempty"`
	Tables       []TableRecord    `json:"tables,omitempty"`
	Figures      []FigureRecord   `json:"figures,omitempty"`
}

// TextChunk is one retrievable unit of text.
//
// ChunkIndex is the retrieval/display order and is contiguous per document.
// StartChar/EndChar are offsets into the source text when the splitter can
// track them (-1 when unknown). Metadata values are limited to strings,
// numbers, bools and string lists so persistence adapters can flatten them.
type TextChunk struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	PageNumber int            `json:"page_number,omitempty"`
	StartChar  int            `json:"start_char"`
	EndChar    int            `json:"end_char"`
	ChunkIndex int            `json:"chunk_index"`
	TokenCount int            `json:"token_count,omitempty"`
}

// ChunkedDocument aggregates the chunks produced from one document.
// TotalChunks always equals len(Chunks).
type ChunkedDocument struct {
	DocumentID   string           `json:"document_id"`
	Metadata     DocumentMetadata `json:"metadata"`
	Chunks       []TextChunk      `json:"chunks"`
	TotalChunks  int              `json:"total_chunks"`
	Strategy     ChunkingStrategy `json:"chunking_strategy"`
	ChunkSize    int              `json:"chunk_size"`
	ChunkOverlap int              `json:"chunk_overlap"`
}

// JobStatus is the lifecycle state of an asynchronous parse job.
// Transitions are strictly forward: accepted -> processing -> completed|failed.
type JobStatus string

const (
	JobAccepted   JobStatus = "accepted"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// CanTransition reports whether moving from s to next is a legal
// forward transition.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobAccepted:
		return next == JobProcessing
	case JobProcessing:
		return next == JobCompleted || next == JobFailed
	default:
		return false
	}
}

// NewDocumentID generates a fresh document identifier.
func NewDocumentID() string {
	return uuid.NewString()
}

// ChunkID derives a chunk identifier from its document and position,
// used when a splitter node carries no native id.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
