// Package openai implements the ai service interfaces against
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The Embedder uses the embeddings endpoint; the ImageDescriber uses a
// vision-capable chat model. Both are created from a shared ai.Config and
// are safe for concurrent use.
package openai
