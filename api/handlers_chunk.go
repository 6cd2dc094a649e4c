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


package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/docproc/chunk"
	"github.com/poiesic/docproc/core"
)

// ChunkHandler serves the text chunking endpoints.
type ChunkHandler struct {
	chunker *chunk.Chunker
}

type chunkTextRequest struct {
	Text            string `json:"text"`
	Strategy        string `json:"strategy"`
	ChunkSize       int    `json:"chunk_size"`
	ChunkOverlap    *int   `json:"chunk_overlap"`
	ExtractMetadata bool   `json:"extract_metadata"`
	NumKeywords     int    `json:"num_keywords"`
	NumQuestions    int    `json:"num_questions"`
}

type chunkTextResponse struct {
	Chunks       []core.TextChunk      `json:"chunks"`
	TotalChunks  int                   `json:"total_chunks"`
	Strategy     core.ChunkingStrategy `json:"chunking_strategy"`
	ChunkSize    int                   `json:"chunk_size"`
	ChunkOverlap int                   `json:"chunk_overlap"`
}

// buildParams applies defaults and validates the chunking fields.
func (r *chunkTextRequest) buildParams() (chunk.Params, error) {
	var p chunk.Params

	if err := core.ValidateText(r.Text); err != nil {
		return p, err
	}

	if r.Strategy == "" {
		r.Strategy = string(core.StrategySentence)
	}
	strategy, err := core.ParseStrategy(r.Strategy)
	if err != nil {
		return p, err
	}

	size := r.ChunkSize
	if size == 0 {
		size = defaultChunkSize
	}
	// Overlap is a pointer so an explicit zero survives defaulting.
	overlap := defaultChunkOverlap
	if r.ChunkOverlap != nil {
		overlap = *r.ChunkOverlap
	}
	if err := core.ValidateChunkParams(size, overlap); err != nil {
		return p, err
	}

	keywords := r.NumKeywords
	if keywords == 0 {
		keywords = defaultNumKeywords
	}
	questions := r.NumQuestions
	if questions == 0 {
		questions = defaultNumQuestions
	}
	if r.ExtractMetadata {
		if err := core.ValidateCount(keywords); err != nil {
			return p, err
		}
		if err := core.ValidateCount(questions); err != nil {
			return p, err
		}
	}

	p = chunk.Params{
		Strategy:        strategy,
		ChunkSize:       size,
		ChunkOverlap:    overlap,
		ExtractMetadata: r.ExtractMetadata,
		NumKeywords:     keywords,
		NumQuestions:    questions,
	}
	return p, nil
}

// ChunkText handles POST /chunk/text: the full chunking surface with
// strategy selection and optional metadata enrichment.
func (h *ChunkHandler) ChunkText(c echo.Context) error {
	var req chunkTextRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	params, err := req.buildParams()
	if err != nil {
		return err
	}

	chunks, used, err := h.chunker.ChunkText(c.Request().Context(), req.Text, params, nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, chunkTextResponse{
		Chunks:       chunks,
		TotalChunks:  len(chunks),
		Strategy:     used,
		ChunkSize:    params.ChunkSize,
		ChunkOverlap: params.ChunkOverlap,
	})
}

type chunkSimpleRequest struct {
	Text         string `json:"text"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap *int   `json:"chunk_overlap"`
}

// ChunkSimple handles POST /chunk/simple: sentence chunking with no
// enrichment, for callers that only want the split.
func (h *ChunkHandler) ChunkSimple(c echo.Context) error {
	var req chunkSimpleRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	full := chunkTextRequest{
		Text:         req.Text,
		Strategy:     string(core.StrategySentence),
		ChunkSize:    req.ChunkSize,
		ChunkOverlap: req.ChunkOverlap,
	}
	params, err := full.buildParams()
	if err != nil {
		return err
	}

	chunks, used, err := h.chunker.ChunkText(c.Request().Context(), req.Text, params, nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, chunkTextResponse{
		Chunks:       chunks,
		TotalChunks:  len(chunks),
		Strategy:     used,
		ChunkSize:    params.ChunkSize,
		ChunkOverlap: params.ChunkOverlap,
	})
}

// Health handles GET /chunk/health.
func (h *ChunkHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type strategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Strategies handles GET /chunk/strategies.
func (h *ChunkHandler) Strategies(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"strategies": []strategyInfo{
			{Name: "sentence", Description: "Groups whole sentences up to the size budget, preferring paragraph boundaries."},
			{Name: "semantic", Description: "Splits where embedding similarity between adjacent sentences drops. Requires an embedding model."},
			{Name: "token", Description: "Hard token budget with token-level overlap."},
			{Name: "fixed", Description: "Recursive character splitting on paragraph, line and word boundaries."},
			{Name: "markdown", Description: "Splits along markdown structure such as headers and sections."},
			{Name: "hierarchical", Description: "Three-level parent/child chunk tree over the same text."},
		},
		"default": "sentence",
	})
}
