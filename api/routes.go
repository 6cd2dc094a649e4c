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
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/docproc"
)

// Request-surface defaults applied when a field is absent.
const (
	defaultChunkSize    = 512
	defaultChunkOverlap = 50
	defaultNumKeywords  = 5
	defaultNumQuestions = 3
	defaultTopK         = 5
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Service *docproc.Service
	Version string
}

// Handlers aggregates the per-concern handler groups.
type Handlers struct {
	Parse     *ParseHandler
	Chunk     *ChunkHandler
	Metadata  *MetadataHandler
	Embed     *EmbedHandler
	Documents *DocumentsHandler
	Search    *SearchHandler
	Health    *HealthHandler
}

// NewHandlers constructs all handler groups from shared dependencies.
func NewHandlers(deps *Dependencies) *Handlers {
	s := deps.Service
	return &Handlers{
		Parse:     &ParseHandler{runner: s.Runner},
		Chunk:     &ChunkHandler{chunker: s.Chunker},
		Metadata:  &MetadataHandler{extractor: s.Extractor},
		Embed:     &EmbedHandler{embeddings: s.Embeddings},
		Documents: &DocumentsHandler{service: s},
		Search:    &SearchHandler{service: s},
		Health:    &HealthHandler{service: s, version: deps.Version},
	}
}

// RegisterRoutes attaches every route to the echo instance.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/health", h.Health.Check)

	parse := e.Group("/parse")
	parse.POST("/document", h.Parse.ParseDocument)
	parse.POST("/text", h.Parse.ParseText)
	parse.GET("/health", h.Parse.Health)

	chunkGroup := e.Group("/chunk")
	chunkGroup.POST("/text", h.Chunk.ChunkText)
	chunkGroup.POST("/simple", h.Chunk.ChunkSimple)
	chunkGroup.GET("/strategies", h.Chunk.Strategies)
	chunkGroup.GET("/health", h.Chunk.Health)

	metadata := e.Group("/metadata")
	metadata.POST("/extract", h.Metadata.Extract)
	metadata.POST("/title", h.Metadata.Title)
	metadata.POST("/keywords", h.Metadata.Keywords)
	metadata.POST("/questions", h.Metadata.Questions)

	e.POST("/embed", h.Embed.Embed)

	docs := e.Group("/documents")
	docs.POST("/process", h.Documents.Process)
	docs.GET("", h.Documents.List)
	docs.GET("/:id", h.Documents.Get)
	docs.DELETE("/:id", h.Documents.Delete)

	e.POST("/search", h.Search.Search)
}

// SetupMiddleware installs the standard middleware stack and the error
// handler.
func SetupMiddleware(e *echo.Echo) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Default().Info("request",
				"method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
}
