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


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Bundle must pass ValidateBundle
//
// NOT validated (populated downstream):
//   - Vector (empty until the embedding stage runs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if strings.TrimSpace(chunk.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if err := ValidateBundle(&chunk.Bundle); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	return nil
}

// ValidateBundle validates an EnrichmentBundle according to domain rules.
//
// Validation rules:
//   - Summary must be non-empty and at most 3 sentences
//   - Keywords must number between 3 and 5, all non-empty
//   - Questions must number between 2 and 3, all non-empty
//   - KeySentences must number between 1 and 3, all non-empty
//   - Metadata must pass ValidateMetadata
func ValidateBundle(bundle *EnrichmentBundle) error {
	if bundle == nil {
		return fmt.Errorf("%w: bundle is nil", ErrInvalidBundle)
	}

	if strings.TrimSpace(bundle.Summary) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBundle, ErrEmptySummary)
	}
	if SentenceCount(bundle.Summary) > 3 {
		return fmt.Errorf("%w: %w", ErrInvalidBundle, ErrSummaryTooLong)
	}

	if len(bundle.Keywords) < 3 || len(bundle.Keywords) > 5 || hasBlank(bundle.Keywords) {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidBundle, ErrKeywordCount, len(bundle.Keywords))
	}

	if len(bundle.Questions) < 2 || len(bundle.Questions) > 3 || hasBlank(bundle.Questions) {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidBundle, ErrQuestionCount, len(bundle.Questions))
	}

	if len(bundle.KeySentences) < 1 || len(bundle.KeySentences) > 3 || hasBlank(bundle.KeySentences) {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidBundle, ErrKeySentenceCount, len(bundle.KeySentences))
	}

	if err := ValidateMetadata(&bundle.Metadata); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}

	return nil
}

// ValidateMetadata validates ChunkMetadata according to domain rules.
func ValidateMetadata(meta *ChunkMetadata) error {
	switch meta.Sentiment {
	case "positive", "neutral", "negative":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidSentiment, meta.Sentiment)
	}

	for _, entity := range meta.Entities {
		if strings.TrimSpace(entity.Name) == "" || strings.TrimSpace(entity.Type) == "" {
			return fmt.Errorf("%w: %+v", ErrInvalidEntity, entity)
		}
	}

	return nil
}

// SentenceCount counts sentences by terminal punctuation. Runs of terminators
// count once, so "Really?!" is a single sentence. Text without any terminator
// counts as one sentence.
func SentenceCount(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inRun {
				count++
				inRun = true
			}
		default:
			inRun = false
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		return 1
	}
	return count
}

func hasBlank(items []string) bool {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return true
		}
	}
	return false
}
