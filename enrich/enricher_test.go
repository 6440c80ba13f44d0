package enrich

import (
	"context"
	"testing"

	"github.com/quellwerk/ragline/ai/mock"
	"github.com/quellwerk/ragline/recovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = "The plant was commissioned in 1974. It supplies the northern grid.\nDecommissioning is planned for 2031. Replacement capacity is under construction."

func TestSplitChunks(t *testing.T) {
	t.Run("accepts verbatim spans", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return `{"chunks": ["The plant was commissioned in 1974. It supplies the northern grid.", "Decommissioning is planned for 2031. Replacement capacity is under construction."]}`, nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		chunks, err := enricher.SplitChunks(context.Background(), document, "en")
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Contains(t, chunks[0], "commissioned in 1974")
	})

	t.Run("tolerates whitespace drift in spans", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return `{"chunks": ["The plant  was commissioned in 1974.  It supplies the northern grid."]}`, nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		chunks, err := enricher.SplitChunks(context.Background(), document, "en")
		require.NoError(t, err)
		require.Len(t, chunks, 1)
	})

	t.Run("rejects fabricated text", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return `{"chunks": ["The plant runs on cold fusion."]}`, nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		_, err = enricher.SplitChunks(context.Background(), document, "en")
		require.ErrorIs(t, err, ErrFabricatedChunk)
	})

	t.Run("rejects empty chunk lists", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return `{"chunks": ["", "  "]}`, nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		_, err = enricher.SplitChunks(context.Background(), document, "en")
		require.ErrorIs(t, err, ErrNoChunks)
	})

	t.Run("retries malformed output", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			if generator.CallCount() < 2 {
				return "I'd rather chat about something else.", nil
			}
			return `{"chunks": ["The plant was commissioned in 1974. It supplies the northern grid."]}`, nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		chunks, err := enricher.SplitChunks(context.Background(), document, "en")
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, 2, generator.CallCount())
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "still not json", nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		_, err = enricher.SplitChunks(context.Background(), document, "en")
		require.ErrorIs(t, err, recovery.ErrUnparseable)
		assert.Equal(t, maxParseAttempts, generator.CallCount())
	})
}

func TestSummaryKeywords(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "```json\n{\"summary\": \"An aging plant nears retirement.\", \"keywords\": [\"plant\", \"grid\", \"decommissioning\"]}\n```", nil
	}

	enricher, err := NewEnricher(generator)
	require.NoError(t, err)

	result, err := enricher.SummaryKeywords(context.Background(), document)
	require.NoError(t, err)
	assert.Equal(t, "An aging plant nears retirement.", result.Summary)
	assert.Equal(t, []string{"plant", "grid", "decommissioning"}, result.Keywords)
}

func TestQuestions(t *testing.T) {
	t.Run("accepts a bare array response", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return `["When was the plant commissioned?", "Which grid does it supply?"]`, nil
		}

		enricher, err := NewEnricher(generator)
		require.NoError(t, err)

		questions, err := enricher.Questions(context.Background(), document)
		require.NoError(t, err)
		assert.Len(t, questions, 2)
	})
}

func TestSentencesMetadata(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{"key_sentences": ["The plant was commissioned in 1974."], "topic": "power infrastructure", "sentiment": "Neutral", "entities": [{"name": "northern grid", "type": "place"}]}`, nil
	}

	enricher, err := NewEnricher(generator)
	require.NoError(t, err)

	result, err := enricher.SentencesMetadata(context.Background(), document)
	require.NoError(t, err)
	assert.Equal(t, []string{"The plant was commissioned in 1974."}, result.KeySentences)
	assert.Equal(t, "power infrastructure", result.Topic)
	assert.Equal(t, "neutral", result.Sentiment)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "northern grid", result.Entities[0].Name)
}

func TestNewEnricher(t *testing.T) {
	_, err := NewEnricher(nil)
	require.ErrorIs(t, err, ErrGeneratorRequired)
}
