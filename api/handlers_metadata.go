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
	"github.com/poiesic/docproc/core"
	"github.com/poiesic/docproc/enrich"
)

// MetadataHandler serves standalone LLM metadata extraction.
type MetadataHandler struct {
	extractor *enrich.Extractor
}

type metadataRequest struct {
	Text string `json:"text"`
	// Extract flags are pointers so an explicit false survives the
	// all-true default.
	ExtractTitle     *bool `json:"extract_title"`
	ExtractKeywords  *bool `json:"extract_keywords"`
	ExtractQuestions *bool `json:"extract_questions"`
	NumKeywords      int   `json:"num_keywords"`
	NumQuestions     int   `json:"num_questions"`
}

type metadataResponse struct {
	Title     string   `json:"title"`
	Keywords  []string `json:"keywords"`
	Questions []string `json:"questions"`
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// bind parses and validates the shared metadata request fields.
func (h *MetadataHandler) bind(c echo.Context) (*metadataRequest, error) {
	if h.extractor == nil {
		return nil, NewServiceUnavailableError("completion service not configured")
	}

	var req metadataRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewBadRequestError("invalid request body", err)
	}
	if err := core.ValidateText(req.Text); err != nil {
		return nil, err
	}

	if req.NumKeywords == 0 {
		req.NumKeywords = defaultNumKeywords
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultNumQuestions
	}
	if err := core.ValidateCount(req.NumKeywords); err != nil {
		return nil, err
	}
	if err := core.ValidateCount(req.NumQuestions); err != nil {
		return nil, err
	}
	return &req, nil
}

// Extract handles POST /metadata/extract: title, keywords and questions
// for one block of text, without chunking it. Each field can be switched
// off individually.
func (h *MetadataHandler) Extract(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	resp := metadataResponse{Keywords: []string{}, Questions: []string{}}
	if enabled(req.ExtractTitle) {
		title, err := h.extractor.Title(ctx, req.Text)
		if err != nil {
			return NewInternalError("title extraction failed", err)
		}
		resp.Title = title
	}
	if enabled(req.ExtractKeywords) {
		keywords, err := h.extractor.Keywords(ctx, req.Text, req.NumKeywords)
		if err != nil {
			return NewInternalError("keyword extraction failed", err)
		}
		if keywords != nil {
			resp.Keywords = keywords
		}
	}
	if enabled(req.ExtractQuestions) {
		questions, err := h.extractor.Questions(ctx, req.Text, req.NumQuestions)
		if err != nil {
			return NewInternalError("question extraction failed", err)
		}
		if questions != nil {
			resp.Questions = questions
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Title handles POST /metadata/title.
func (h *MetadataHandler) Title(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	title, err := h.extractor.Title(c.Request().Context(), req.Text)
	if err != nil {
		return NewInternalError("title extraction failed", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"title": title})
}

// Keywords handles POST /metadata/keywords.
func (h *MetadataHandler) Keywords(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	keywords, err := h.extractor.Keywords(c.Request().Context(), req.Text, req.NumKeywords)
	if err != nil {
		return NewInternalError("keyword extraction failed", err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"keywords": keywords})
}

// Questions handles POST /metadata/questions.
func (h *MetadataHandler) Questions(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	questions, err := h.extractor.Questions(c.Request().Context(), req.Text, req.NumQuestions)
	if err != nil {
		return NewInternalError("question extraction failed", err)
	}
	if questions == nil {
		questions = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"questions": questions})
}
