// Package openai implements the ai interfaces on OpenAI-compatible APIs.
//
// The implementations are built on langchaingo and work against any server
// speaking the OpenAI wire protocol, including local Ollama and vLLM
// deployments. No API key is required for local servers; a placeholder token
// is sent instead.
package openai
