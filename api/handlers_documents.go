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
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/docproc"
	"github.com/poiesic/docproc/chunk"
	"github.com/poiesic/docproc/core"
)

// DocumentsHandler serves the end-to-end document pipeline and the
// document registry.
type DocumentsHandler struct {
	service *docproc.Service
}

// Process handles POST /documents/process: parse, chunk, embed, index
// and register in one call. The multipart form carries the file plus the
// chunking fields of /chunk/text.
func (h *DocumentsHandler) Process(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing file upload", err)
	}
	f, err := fh.Open()
	if err != nil {
		return NewBadRequestError("unreadable file upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return NewInternalError("reading file upload", err)
	}

	params, maxPages, err := processParams(c)
	if err != nil {
		return err
	}

	chunked, err := h.service.ProcessDocument(c.Request().Context(), data, fh.Filename, maxPages, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chunked)
}

// processParams reads and validates the chunking form fields.
func processParams(c echo.Context) (chunk.Params, int, error) {
	var p chunk.Params

	name := c.FormValue("strategy")
	if name == "" {
		name = string(core.StrategySentence)
	}
	strategy, err := core.ParseStrategy(name)
	if err != nil {
		return p, 0, err
	}

	size := defaultChunkSize
	overlap := defaultChunkOverlap
	maxPages := 0
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"chunk_size", &size},
		{"chunk_overlap", &overlap},
		{"max_pages", &maxPages},
	} {
		raw := c.FormValue(field.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, 0, NewBadRequestError(field.name+" must be an integer", err)
		}
		*field.dst = n
	}
	if err := core.ValidateChunkParams(size, overlap); err != nil {
		return p, 0, err
	}
	if maxPages < 0 {
		return p, 0, NewBadRequestError("max_pages must be a non-negative integer", nil)
	}

	extract := c.FormValue("extract_metadata") == "true"
	keywords := defaultNumKeywords
	questions := defaultNumQuestions
	if extract {
		if raw := c.FormValue("num_keywords"); raw != "" {
			if keywords, err = strconv.Atoi(raw); err != nil {
				return p, 0, NewBadRequestError("num_keywords must be an integer", err)
			}
		}
		if raw := c.FormValue("num_questions"); raw != "" {
			if questions, err = strconv.Atoi(raw); err != nil {
				return p, 0, NewBadRequestError("num_questions must be an integer", err)
			}
		}
		if err := core.ValidateCount(keywords); err != nil {
			return p, 0, err
		}
		if err := core.ValidateCount(questions); err != nil {
			return p, 0, err
		}
	}

	p = chunk.Params{
		Strategy:        strategy,
		ChunkSize:       size,
		ChunkOverlap:    overlap,
		ExtractMetadata: extract,
		NumKeywords:     keywords,
		NumQuestions:    questions,
	}
	return p, maxPages, nil
}

// List handles GET /documents.
func (h *DocumentsHandler) List(c echo.Context) error {
	records, err := h.service.Registry.List(c.Request().Context())
	if err != nil {
		return err
	}
	if records == nil {
		records = []map[string]string{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"documents": records,
		"count":     len(records),
	})
}

// Get handles GET /documents/:id.
func (h *DocumentsHandler) Get(c echo.Context) error {
	record, err := h.service.Registry.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /documents/:id.
func (h *DocumentsHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteDocument(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
