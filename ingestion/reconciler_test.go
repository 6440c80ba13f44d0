package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/enrich"
)

func completeParts() Parts {
	return Parts{
		Summary: &enrich.SummaryKeywords{
			Summary:  "The plant increased its output.",
			Keywords: []string{"plant", "output", "energy"},
		},
		Questions: []string{"What did the plant increase?", "When did output rise?"},
		Sentences: &enrich.SentencesMetadata{
			KeySentences: []string{"Output rose sharply."},
			Topic:        "energy production",
			Sentiment:    "neutral",
			Entities:     []core.Entity{{Name: "alpha plant", Type: "organization"}},
		},
	}
}

func TestReconcileChunk(t *testing.T) {
	doc := &core.Document{
		ID:       "report.pdf",
		Language: "en",
		Annotation: core.Annotation{
			Entities: []core.AnnotatedEntity{{Text: "Alpha", Label: "ORG"}},
		},
	}

	t.Run("assembles a valid chunk", func(t *testing.T) {
		chunk, err := ReconcileChunk(doc, 2, "Output rose sharply.", completeParts())
		require.NoError(t, err)

		assert.Equal(t, core.ChunkIDFor("report.pdf", 2, "Output rose sharply."), chunk.ID)
		assert.Equal(t, "report.pdf", chunk.DocumentID)
		assert.Equal(t, 2, chunk.Ordinal)
		assert.Equal(t, "en", chunk.Language)
		assert.Equal(t, "The plant increased its output.", chunk.Bundle.Summary)
		assert.Equal(t, "energy production", chunk.Bundle.Metadata.Topic)
		assert.Equal(t, doc.Annotation, chunk.Annotation)
	})

	t.Run("rejects missing questions", func(t *testing.T) {
		parts := completeParts()
		parts.Questions = nil

		_, err := ReconcileChunk(doc, 0, "text", parts)
		assert.ErrorIs(t, err, ErrReconcileIncomplete)
	})

	t.Run("rejects missing summary", func(t *testing.T) {
		parts := completeParts()
		parts.Summary = nil

		_, err := ReconcileChunk(doc, 0, "text", parts)
		assert.ErrorIs(t, err, ErrReconcileIncomplete)
	})

	t.Run("rejects an invalid bundle", func(t *testing.T) {
		parts := completeParts()
		parts.Summary.Keywords = []string{"only", "two"}

		_, err := ReconcileChunk(doc, 0, "text", parts)
		assert.Error(t, err)
	})
}

func TestCollapseDuplicates(t *testing.T) {
	mkChunk := func(ordinal int, text string, keywords, questions []string) *core.Chunk {
		return &core.Chunk{
			ID:      core.ChunkIDFor("doc", ordinal, text),
			Ordinal: ordinal,
			Text:    text,
			Bundle:  core.EnrichmentBundle{Keywords: keywords, Questions: questions},
		}
	}

	t.Run("merges chunks with identical normalized text", func(t *testing.T) {
		chunks := []*core.Chunk{
			mkChunk(0, "The grid held steady.", []string{"grid", "stability"}, []string{"Did the grid hold?"}),
			mkChunk(1, "Demand peaked at noon.", []string{"demand"}, nil),
			mkChunk(2, "the grid  HELD steady.", []string{"grid", "steady"}, []string{"What held steady?"}),
		}

		out := CollapseDuplicates(chunks)
		require.Len(t, out, 2)

		survivor := out[0]
		assert.Equal(t, 0, survivor.Ordinal)
		assert.Equal(t, "The grid held steady.", survivor.Text)
		assert.Equal(t, []string{"grid", "stability", "steady"}, survivor.Bundle.Keywords)
		assert.Equal(t, []string{"Did the grid hold?", "What held steady?"}, survivor.Bundle.Questions)

		assert.Equal(t, 1, out[1].Ordinal)
	})

	t.Run("keeps the lowest ordinal when the duplicate comes first", func(t *testing.T) {
		chunks := []*core.Chunk{
			mkChunk(3, "Shared text.", []string{"later"}, nil),
			mkChunk(1, "shared TEXT.", []string{"earlier"}, nil),
		}

		out := CollapseDuplicates(chunks)
		require.Len(t, out, 1)
		assert.Equal(t, 1, out[0].Ordinal)
		assert.Equal(t, []string{"earlier", "later"}, out[0].Bundle.Keywords)
	})

	t.Run("leaves distinct chunks alone", func(t *testing.T) {
		chunks := []*core.Chunk{
			mkChunk(0, "First.", nil, nil),
			mkChunk(1, "Second.", nil, nil),
		}
		assert.Len(t, CollapseDuplicates(chunks), 2)
	})
}
