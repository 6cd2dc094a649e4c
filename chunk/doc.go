// Package chunk implements multi-strategy text chunking: splitting
// documents or raw text into ordered, retrieval-sized chunks with source
// offsets and token-count estimates.
//
// Six strategies are supported: sentence, recursive ("fixed"), token,
// markdown, semantic and hierarchical. Strategy selection is permissive:
// unknown strategies fall back to sentence splitting, visibly to the
// caller. Semantic chunking requires an embedding service and fails
// hard without one.
package chunk
