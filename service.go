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


package docproc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/poiesic/docproc/ai"
	"github.com/poiesic/docproc/ai/openai"
	"github.com/poiesic/docproc/chunk"
	"github.com/poiesic/docproc/core"
	"github.com/poiesic/docproc/embed"
	"github.com/poiesic/docproc/enrich"
	"github.com/poiesic/docproc/jobs"
	"github.com/poiesic/docproc/parse"
	"github.com/poiesic/docproc/registry"
	"github.com/poiesic/docproc/vectorstore"
	"github.com/poiesic/docproc/vectorstore/memory"
	"github.com/poiesic/docproc/vectorstore/qdrant"
)

// ErrEmbeddingUnavailable is returned by operations that need the
// embedding service when none is configured.
var ErrEmbeddingUnavailable = errors.New("embedding service not configured")

// Config holds service-level configuration.
type Config struct {
	// DataDir is the root for on-disk state (the document registry).
	DataDir string

	// InMemoryRegistry keeps the registry in memory (dev mode, tests).
	InMemoryRegistry bool

	// AI configures the optional embedding and completion services.
	AI *ai.Config

	// QdrantURL enables the Qdrant vector store when set; otherwise an
	// in-process store is used.
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	// PoolSize is the background parse worker count.
	PoolSize int

	// EmbedCacheTTL bounds the embedding cache lifetime.
	EmbedCacheTTL time.Duration
}

// Service wires every component together. All construction happens
// here, once, at process start; nothing is lazily initialized.
type Service struct {
	Parser     parse.Parser
	Chunker    *chunk.Chunker
	Extractor  *enrich.Extractor
	Runner     *jobs.Runner
	Registry   *registry.Registry
	Embeddings *embed.Service
	Vectors    vectorstore.Store

	provider ai.Provider
	logger   *slog.Logger
}

// New constructs the service from configuration.
func New(cfg *Config) (*Service, error) {
	s := &Service{
		logger: slog.Default().With("component", "service"),
	}

	if cfg.AI != nil && (cfg.AI.HasEmbedding() || cfg.AI.HasCompletion()) {
		provider, err := openai.NewProvider(cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("ai provider: %w", err)
		}
		s.provider = provider
	}

	var embedder ai.Embedder
	if s.provider != nil && s.provider.Embedder() != nil {
		svc, err := embed.NewService(s.provider.Embedder(), cfg.EmbedCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("embed cache: %w", err)
		}
		s.Embeddings = svc
		embedder = svc
	}

	var enricher chunk.Enricher
	if s.provider != nil && s.provider.Completer() != nil {
		s.Extractor = enrich.NewExtractor(s.provider.Completer())
		enricher = s.Extractor
	}

	s.Chunker = chunk.NewChunker(chunk.NewSelector(embedder), enricher, chunk.NewTokenCounter())
	s.Parser = parse.NewTabulaParser()

	runner, err := jobs.NewRunner(s.Parser, cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("job runner: %w", err)
	}
	s.Runner = runner

	reg, err := registry.Open(filepath.Join(cfg.DataDir, "registry"), cfg.InMemoryRegistry)
	if err != nil {
		runner.Close()
		return nil, fmt.Errorf("registry: %w", err)
	}
	s.Registry = reg

	if cfg.QdrantURL != "" {
		collection := cfg.QdrantCollection
		if collection == "" {
			collection = "docproc_chunks"
		}
		s.Vectors = qdrant.New(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: collection,
		})
	} else {
		s.Vectors = memory.New()
	}

	s.logger.Info("service constructed",
		"embedding", s.Embeddings != nil,
		"completion", s.Extractor != nil,
		"vector_store", map[bool]string{true: "qdrant", false: "memory"}[cfg.QdrantURL != ""])
	return s, nil
}

// Close releases every component. Safe to call once.
func (s *Service) Close() error {
	if s.Runner != nil {
		s.Runner.Close()
	}
	if s.Embeddings != nil {
		s.Embeddings.Close()
	}
	var err error
	if s.Registry != nil {
		err = s.Registry.Close()
	}
	if s.provider != nil {
		if perr := s.provider.Close(); err == nil {
			err = perr
		}
	}
	return err
}

// ProcessDocument runs the full pipeline: parse, chunk, optionally
// embed and index, then register the document.
func (s *Service) ProcessDocument(ctx context.Context, data []byte, filename string, maxPages int, p chunk.Params) (*core.ChunkedDocument, error) {
	doc, err := s.Parser.Parse(ctx, parse.ParseRequest{
		Data:     data,
		Filename: filename,
		MaxPages: maxPages,
	})
	if err != nil {
		return nil, err
	}

	chunked, err := s.Chunker.ChunkDocument(ctx, doc, p)
	if err != nil {
		return nil, err
	}

	if s.Embeddings != nil && len(chunked.Chunks) > 0 {
		if err := s.index(ctx, chunked); err != nil {
			return nil, err
		}
	}

	if err := s.register(ctx, doc, chunked); err != nil {
		return nil, err
	}
	return chunked, nil
}

// index embeds every chunk and upserts the vectors.
func (s *Service) index(ctx context.Context, chunked *core.ChunkedDocument) error {
	texts := make([]string, len(chunked.Chunks))
	for i, ch := range chunked.Chunks {
		texts[i] = ch.Text
	}

	vectors, err := s.Embeddings.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return ErrEmbeddingUnavailable
	}

	if err := s.Vectors.Init(ctx, len(vectors[0])); err != nil {
		return fmt.Errorf("vector store init: %w", err)
	}

	records := make([]vectorstore.Record, len(chunked.Chunks))
	for i, ch := range chunked.Chunks {
		meta := map[string]any{
			core.MetaDocumentID: chunked.DocumentID,
			"chunk_index":       ch.ChunkIndex,
		}
		for k, v := range ch.Metadata {
			meta[k] = v
		}
		if ch.PageNumber > 0 {
			meta[core.MetaPage] = ch.PageNumber
		}
		records[i] = vectorstore.Record{
			ID:       ch.ID,
			Text:     ch.Text,
			Vector:   vectors[i],
			Metadata: meta,
		}
	}
	return s.Vectors.Upsert(ctx, records)
}

// register writes the document record as a flat string map.
func (s *Service) register(ctx context.Context, doc *core.ParsedDocument, chunked *core.ChunkedDocument) error {
	fields := map[string]string{
		"document_id":       chunked.DocumentID,
		"filename":          doc.Metadata.Filename,
		"file_type":         doc.Metadata.FileType,
		"extraction_method": doc.Metadata.ExtractionMethod,
		"chunk_count":       strconv.Itoa(chunked.TotalChunks),
		"strategy":          string(chunked.Strategy),
		"created_at":        time.Now().UTC().Format(time.RFC3339),
	}
	if doc.Metadata.PageCount > 0 {
		fields["page_count"] = strconv.Itoa(doc.Metadata.PageCount)
	}

	title := doc.Metadata.Title
	if title == "" && len(chunked.Chunks) > 0 {
		if t, ok := chunked.Chunks[0].Metadata[core.MetaDocumentTitle].(string); ok {
			title = t
		}
	}
	if title != "" {
		fields["title"] = title
	}

	if len(chunked.Chunks) > 0 {
		if kws, ok := chunked.Chunks[0].Metadata[core.MetaKeywords].([]string); ok {
			joined, err := registry.JoinKeywords(kws)
			if err != nil {
				// Model-derived keywords are uncontrolled input; losing
				// one field beats failing the whole pipeline.
				s.logger.Warn("dropping unstorable keywords", "document_id", chunked.DocumentID, "err", err)
			} else if joined != "" {
				fields["keywords"] = joined
			}
		}
	}

	return s.Registry.Register(ctx, chunked.DocumentID, fields)
}

// Search embeds the query and runs a similarity search, optionally
// scoped to one document.
func (s *Service) Search(ctx context.Context, query string, topK int, documentID string) ([]vectorstore.Result, error) {
	if s.Embeddings == nil {
		return nil, ErrEmbeddingUnavailable
	}

	vector, err := s.Embeddings.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var filter map[string]any
	if documentID != "" {
		filter = map[string]any{core.MetaDocumentID: documentID}
	}
	return s.Vectors.Query(ctx, vector, topK, filter)
}

// DeleteDocument removes a document from the registry and the vector
// store.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	if err := s.Registry.Delete(ctx, documentID); err != nil {
		return err
	}
	if err := s.Vectors.Delete(ctx, documentID); err != nil {
		s.logger.Warn("vector cleanup failed", "document_id", documentID, "err", err)
	}
	return nil
}
