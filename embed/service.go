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


package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/poiesic/docproc/ai"
)

const (
	cacheNumCounters = 1e6
	cacheMaxCost     = 256 << 20 // 256 MiB of vectors
	cacheBufferItems = 64

	// DefaultTTL bounds how long a cached embedding stays valid.
	DefaultTTL = 12 * time.Hour
)

// Service wraps an embedder with a TTL cache keyed by (model, text).
//
// The cache is best-effort: concurrent requests for the same uncached
// text may both compute it, which is duplicate work, not a correctness
// problem. Service itself implements ai.Embedder so callers can use it
// wherever a raw embedder is expected.
type Service struct {
	embedder  ai.Embedder
	cache     *ristretto.Cache[string, []float32]
	ttl       time.Duration
	dimension atomic.Int64
	logger    *slog.Logger
}

var _ ai.Embedder = (*Service)(nil)

// NewService creates a caching embedding service. A non-positive ttl
// falls back to DefaultTTL.
func NewService(embedder ai.Embedder, ttl time.Duration) (*Service, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []float32]{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		embedder: embedder,
		cache:    cache,
		ttl:      ttl,
		logger:   slog.Default().With("component", "embed-service"),
	}, nil
}

// Close releases cache resources.
func (s *Service) Close() {
	s.cache.Close()
}

// Model returns the underlying embedding model identifier.
func (s *Service) Model() string {
	return s.embedder.Model()
}

// Dimension reports the embedding dimension observed so far, or 0 when
// nothing has been embedded yet.
func (s *Service) Dimension() int {
	return int(s.dimension.Load())
}

// ProbeDimension ensures the dimension is known, embedding a probe text
// on first use.
func (s *Service) ProbeDimension(ctx context.Context) (int, error) {
	if d := s.Dimension(); d > 0 {
		return d, nil
	}
	if _, err := s.EmbedText(ctx, "dimension probe"); err != nil {
		return 0, err
	}
	return s.Dimension(), nil
}

// EmbedText returns the embedding for one text, from cache when possible.
func (s *Service) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := s.cacheKey(text)
	if vec, ok := s.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	s.store(key, vec)
	return vec, nil
}

// EmbedTexts embeds a batch, serving cached entries and computing only
// the misses in one underlying call. Output order matches input order.
func (s *Service) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vec, ok := s.cache.Get(s.cacheKey(text)); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		computed, err := s.embedder.EmbedTexts(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, vec := range computed {
			i := missIdx[j]
			out[i] = vec
			s.store(s.cacheKey(texts[i]), vec)
		}
	}

	s.logger.Debug("batch embedded",
		"total", len(texts), "cache_hits", len(texts)-len(missTexts))
	return out, nil
}

func (s *Service) store(key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	s.dimension.Store(int64(len(vec)))
	s.cache.SetWithTTL(key, vec, int64(len(vec)*4), s.ttl)
}

func (s *Service) cacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(s.embedder.Model()))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
