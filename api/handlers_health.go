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
	"github.com/poiesic/docproc"
)

// HealthHandler serves liveness and feature availability.
type HealthHandler struct {
	service *docproc.Service
	version string
}

// Check handles GET /health. Feature flags tell clients which optional
// endpoints will answer 503.
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"features": map[string]bool{
			"embedding":  h.service.Embeddings != nil,
			"completion": h.service.Extractor != nil,
		},
	})
}
