// Package openai provides ai.Embedder and ai.Completer implementations
// backed by any OpenAI-compatible API, including local servers such as
// Ollama, LocalAI, and vLLM.
package openai
