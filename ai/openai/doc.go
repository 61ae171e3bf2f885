// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs (Ollama, LocalAI, vLLM, and OpenAI itself).
package openai
