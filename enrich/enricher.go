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


package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quellwerk/ragline/ai"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/recovery"
)

// Chunking, summary, question and metadata responses are retried this many
// times when the model emits unusable JSON.
const maxParseAttempts = 3

// SummaryKeywords is the result of the summary_keywords prompt.
type SummaryKeywords struct {
	Summary  string
	Keywords []string
}

// SentencesMetadata is the result of the sentences_metadata prompt.
type SentencesMetadata struct {
	KeySentences []string
	Topic        string
	Sentiment    string
	Entities     []core.Entity
}

// Enricher binds a text generator to the enrichment prompts.
type Enricher struct {
	generator ai.Generator
	logger    *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEnricher creates a new enricher.
func NewEnricher(generator ai.Generator, opts ...Option) (*Enricher, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	e := &Enricher{
		generator: generator,
		logger:    slog.Default().With("component", "enricher"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// call renders the prompt, generates a response and recovers JSON from it,
// retrying generation when the output is unusable.
func (e *Enricher) call(ctx context.Context, prompt Prompt, args ...any) (map[string]any, error) {
	rendered := prompt.Render(args...)

	var lastErr error
	for attempt := 1; attempt <= maxParseAttempts; attempt++ {
		response, err := e.generator.Generate(ctx, rendered)
		if err != nil {
			e.logger.Error("failed to generate content", "prompt", prompt.ID, "attempt", attempt, "err", err)
			return nil, err
		}

		result, err := recovery.Recover(response, prompt.Schema)
		if err != nil {
			lastErr = err
			e.logger.Warn("error recovering model response",
				"prompt", prompt.ID,
				"attempt", attempt,
				"err", err)
			continue
		}

		return result, nil
	}

	e.logger.Error("failed to recover model response after retries", "prompt", prompt.ID, "err", lastErr)
	return nil, lastErr
}

// SplitChunks splits document text into semantic chunks.
// Every returned chunk is verified to be a span of the source text after
// whitespace normalization; responses containing fabricated text are
// rejected.
func (e *Enricher) SplitChunks(ctx context.Context, text, language string) ([]string, error) {
	result, err := e.call(ctx, PromptChunking, language, text)
	if err != nil {
		return nil, err
	}

	raw := result["chunks"].([]string)
	normalizedDoc := core.NormalizeChunkText(text)

	chunks := make([]string, 0, len(raw))
	for _, chunk := range raw {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		if !strings.Contains(normalizedDoc, core.NormalizeChunkText(trimmed)) {
			e.logger.Warn("model fabricated chunk text", "chunk", trimmed)
			return nil, ErrFabricatedChunk
		}
		chunks = append(chunks, trimmed)
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	e.logger.Debug("split document into chunks", "count", len(chunks))
	return chunks, nil
}

// SummaryKeywords produces the summary and keywords for a chunk.
func (e *Enricher) SummaryKeywords(ctx context.Context, text string) (*SummaryKeywords, error) {
	result, err := e.call(ctx, PromptSummaryKeywords, text)
	if err != nil {
		return nil, err
	}

	return &SummaryKeywords{
		Summary:  result["summary"].(string),
		Keywords: result["keywords"].([]string),
	}, nil
}

// Questions produces the hypothetical questions for a chunk.
func (e *Enricher) Questions(ctx context.Context, text string) ([]string, error) {
	result, err := e.call(ctx, PromptQuestions, text)
	if err != nil {
		return nil, err
	}
	return result["questions"].([]string), nil
}

// SentencesMetadata produces the key sentences and metadata for a chunk.
func (e *Enricher) SentencesMetadata(ctx context.Context, text string) (*SentencesMetadata, error) {
	result, err := e.call(ctx, PromptSentencesMetadata, text)
	if err != nil {
		return nil, err
	}

	rawEntities := result["entities"].([]map[string]string)
	entities := make([]core.Entity, len(rawEntities))
	for i, entity := range rawEntities {
		entities[i] = core.Entity{Name: entity["name"], Type: entity["type"]}
	}

	return &SentencesMetadata{
		KeySentences: result["key_sentences"].([]string),
		Topic:        result["topic"].(string),
		Sentiment:    strings.ToLower(strings.TrimSpace(result["sentiment"].(string))),
		Entities:     entities,
	}, nil
}
