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


package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/quellwerk/ragline/ai"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/storage"
)

const defaultTopK = 5

const answerTemplate = `Answer the question using ONLY the context below. If the context does not
contain the answer, say that you don't know. Do not use outside knowledge
and do not speculate.

Context:
%s

Question: %s

Answer:`

// noContextAnswer is returned without calling the model when retrieval
// finds nothing.
const noContextAnswer = "I don't know. Nothing in the indexed documents relates to that question."

// Answer is a model response together with the chunks that grounded it.
type Answer struct {
	Text    string
	Sources []*core.SearchResult
}

// Bot answers questions against the vector store.
type Bot struct {
	generator ai.Generator
	embedder  ai.Embedder
	store     storage.VectorStore
	topK      int
	logger    *slog.Logger
}

// Option configures a Bot.
type Option func(*Bot) error

// WithTopK sets how many chunks are retrieved per question.
// Default is 5.
func WithTopK(k int) Option {
	return func(b *Bot) error {
		if k < 1 {
			return fmt.Errorf("topK must be greater than zero")
		}
		b.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// New creates a chat bot.
func New(provider ai.Provider, store storage.VectorStore, opts ...Option) (*Bot, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	b := &Bot{
		generator: provider.Generator(),
		embedder:  provider.Embedder(),
		store:     store,
		topK:      defaultTopK,
		logger:    slog.Default().With("component", "chat"),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Ask retrieves the chunks most similar to the question and generates an
// answer grounded in them.
func (b *Bot) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	vector, err := b.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	sources, err := b.store.Search(ctx, vector, b.topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	b.logger.Debug("retrieved context", "question", question, "hits", len(sources))

	if len(sources) == 0 {
		return &Answer{Text: noContextAnswer}, nil
	}

	text, err := b.generator.Generate(ctx, fmt.Sprintf(answerTemplate, formatContext(sources), question))
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &Answer{Text: strings.TrimSpace(text), Sources: sources}, nil
}

// formatContext renders the retrieved chunks as a numbered context block.
func formatContext(sources []*core.SearchResult) string {
	var sb strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&sb, "[%d] (%s)\n%s\n\n", i+1, src.DocumentID, src.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Run drives an interactive question loop, reading questions from in and
// writing answers to out. It returns when the input is exhausted, the user
// types "exit" or "quit", or the context ends.
func (b *Bot) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		answer, err := b.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n\n", err)
			continue
		}

		fmt.Fprintf(out, "%s\n", answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Fprintln(out, "\nSources:")
			for _, src := range answer.Sources {
				fmt.Fprintf(out, "  %s chunk %s (score %.3f)\n", src.DocumentID, src.ChunkID.Hex(), src.Score)
			}
		}
		fmt.Fprintln(out)
	}
}
