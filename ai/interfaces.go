package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice preserves input order.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the identifier of the underlying embedding model.
	// Embedding dimension depends on the model and is reported alongside
	// results by callers that know it.
	Model() string
}

// Completer produces a single text completion for a prompt.
// The output is uncontrolled model text; callers are responsible for any
// parsing or cleaning. Implementations must be thread-safe.
type Completer interface {
	// Complete sends one prompt and returns the raw completion text.
	// May fail or time out; callers decide whether that is fatal.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. Either service may be absent when the matching
// host is not configured.
type Provider interface {
	// Embedder returns the text embedding service, or nil when no
	// embedding host is configured.
	Embedder() Embedder

	// Completer returns the completion service, or nil when no
	// completion host is configured.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	Close() error
}
