package chunk

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates token counts for chunk text using the cl100k_base
// encoding. When the encoding cannot be loaded (the encoder fetches its
// vocabulary on first use), counting degrades to a characters/4 estimate.
type TokenCounter struct {
	enc    *tiktoken.Tiktoken
	logger *slog.Logger
}

// NewTokenCounter creates a token counter. Never fails: a missing
// encoding is logged and the counter runs in degraded mode.
func NewTokenCounter() *TokenCounter {
	logger := slog.Default().With("component", "token-counter")

	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("tokenizer unavailable, falling back to character estimate", "err", err)
		enc = nil
	}

	return &TokenCounter{enc: enc, logger: logger}
}

// Count returns the token count for text, or len(text)/4 in degraded mode.
func (c *TokenCounter) Count(text string) int {
	if c.enc == nil {
		return len(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}
