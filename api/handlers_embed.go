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
	"github.com/poiesic/docproc/embed"
)

// EmbedHandler serves direct embedding requests.
type EmbedHandler struct {
	embeddings *embed.Service
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Model      string      `json:"model"`
	Dimension  int         `json:"dimension"`
	Count      int         `json:"count"`
}

// Embed handles POST /embed.
func (h *EmbedHandler) Embed(c echo.Context) error {
	if h.embeddings == nil {
		return NewServiceUnavailableError("embedding service not configured")
	}

	var req embedRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if len(req.Texts) == 0 {
		return NewBadRequestError("texts must not be empty", nil)
	}
	for _, text := range req.Texts {
		if err := core.ValidateText(text); err != nil {
			return err
		}
	}

	vectors, err := h.embeddings.EmbedTexts(c.Request().Context(), req.Texts)
	if err != nil {
		return NewInternalError("embedding failed", err)
	}

	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	return c.JSON(http.StatusOK, embedResponse{
		Embeddings: vectors,
		Model:      h.embeddings.Model(),
		Dimension:  dimension,
		Count:      len(vectors),
	})
}
