// Package ai defines the interfaces for external model capabilities
// consumed by the service: text embedding and prompt completion.
//
// Concrete implementations live in subpackages: openai for any
// OpenAI-compatible API (including local servers such as Ollama), and
// mock for deterministic test doubles.
package ai
