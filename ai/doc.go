// Copyright 2025 Quellwerk
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


// Package ai provides abstractions for the AI services used in ragline.
//
// This package defines interfaces for text generation and embeddings. It
// follows the dependency inversion principle, allowing the pipeline and chat
// layers to depend on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Generator: Produces free-form text completions from prompts
//   - Embedder: Generates vector embeddings from text
//   - Provider: Aggregates AI services for convenient initialization
//
// Concrete implementations live in subpackages: openai for OpenAI-compatible
// servers (Ollama, LocalAI, vLLM), mock for tests.
//
// # Configuration
//
// Config carries the hosts, model names and sampling temperature shared by
// every implementation. Use NewConfig with functional options:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434/v1"),
//	    ai.WithGenerationModel("deepseek-r1:8b"),
//	)
package ai
