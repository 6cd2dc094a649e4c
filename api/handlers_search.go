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
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/docproc"
	"github.com/poiesic/docproc/core"
	"github.com/poiesic/docproc/vectorstore"
)

// maxTopK bounds the result count for a single search.
const maxTopK = 100

// SearchHandler serves similarity search over indexed chunks.
type SearchHandler struct {
	service *docproc.Service
}

type searchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	DocumentID string `json:"document_id"`
}

type searchResponse struct {
	Results []vectorstore.Result `json:"results"`
	Count   int                  `json:"count"`
}

// Search handles POST /search.
func (h *SearchHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := core.ValidateText(req.Query); err != nil {
		return err
	}

	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	if topK < 1 || topK > maxTopK {
		return NewBadRequestError("top_k out of range", nil)
	}

	results, err := h.service.Search(c.Request().Context(), req.Query, topK, req.DocumentID)
	if err != nil {
		if errors.Is(err, docproc.ErrEmbeddingUnavailable) {
			return NewServiceUnavailableError(err.Error())
		}
		return err
	}
	if results == nil {
		results = []vectorstore.Result{}
	}
	return c.JSON(http.StatusOK, searchResponse{Results: results, Count: len(results)})
}
