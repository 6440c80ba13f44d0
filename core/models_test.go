package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIDFor(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := ChunkIDFor("report.pdf", 3, "The quick brown fox.")
		b := ChunkIDFor("report.pdf", 3, "The quick brown fox.")
		assert.Equal(t, a, b)
	})

	t.Run("whitespace and case insensitive", func(t *testing.T) {
		a := ChunkIDFor("report.pdf", 3, "The quick   brown\nfox.")
		b := ChunkIDFor("report.pdf", 3, "the quick brown fox.")
		assert.Equal(t, a, b)
	})

	t.Run("ordinal changes the id", func(t *testing.T) {
		a := ChunkIDFor("report.pdf", 3, "The quick brown fox.")
		b := ChunkIDFor("report.pdf", 4, "The quick brown fox.")
		assert.NotEqual(t, a, b)
	})

	t.Run("document changes the id", func(t *testing.T) {
		a := ChunkIDFor("report.pdf", 3, "The quick brown fox.")
		b := ChunkIDFor("other.pdf", 3, "The quick brown fox.")
		assert.NotEqual(t, a, b)
	})

	t.Run("hex is 16 chars", func(t *testing.T) {
		id := ChunkIDFor("report.pdf", 0, "text")
		assert.Len(t, id.Hex(), 16)
	})
}

func TestNormalizeChunkText(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeChunkText("  A\t b \n C "))
	assert.Equal(t, "", NormalizeChunkText("   \n\t "))
}

func TestStructuredText(t *testing.T) {
	blocks := []LayoutBlock{
		{Type: BlockTitle, Text: "Introduction"},
		{Type: "Header", Text: "Page 1 of 20"},
		{Type: BlockNarrativeText, Text: "First paragraph."},
		{Type: "Footer", Text: "Confidential"},
		{Type: BlockListItem, Text: "- a point"},
		{Type: BlockUncategorizedText, Text: "Stray text."},
		{Type: BlockNarrativeText, Text: "   "},
	}

	text := StructuredText(blocks)
	assert.Equal(t, "Introduction\nFirst paragraph.\n- a point\nStray text.", text)
}

func TestRunRecordTransitions(t *testing.T) {
	t.Run("advances through the happy path", func(t *testing.T) {
		run := NewRunRecord("report.pdf")
		require.Equal(t, StageIngested, run.State)

		for _, next := range []Stage{
			StageLanguageDetected, StageStructured, StageAnnotated,
			StageChunked, StageEnriching, StageEmbedded, StageStored,
		} {
			require.NoError(t, run.Advance(next, 1))
			assert.Equal(t, next, run.State)
		}

		run.Finish()
		assert.False(t, run.FinishedAt.IsZero())
		assert.Len(t, run.Stages, 8)
	})

	t.Run("rejects skipping a stage", func(t *testing.T) {
		run := NewRunRecord("report.pdf")
		err := run.Advance(StageStructured, 1)
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StageIngested, run.State)
	})

	t.Run("rejects moving backwards", func(t *testing.T) {
		run := NewRunRecord("report.pdf")
		require.NoError(t, run.Advance(StageLanguageDetected, 1))
		err := run.Advance(StageIngested, 1)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("failed runs never advance", func(t *testing.T) {
		run := NewRunRecord("report.pdf")
		run.Fail(StageLanguageDetected, 3, assert.AnError)
		require.Equal(t, StageFailed, run.State)
		assert.Equal(t, StageLanguageDetected, run.FailedStage)
		assert.False(t, run.FinishedAt.IsZero())

		err := run.Advance(StageLanguageDetected, 1)
		require.ErrorIs(t, err, ErrRunFailed)
	})
}

func TestRunRecordPartialFailures(t *testing.T) {
	run := NewRunRecord("report.pdf")
	run.Chunks = []ChunkOutcome{
		{Ordinal: 0, Status: ChunkStored},
		{Ordinal: 1, Status: ChunkPartialFailed, Reason: "enrichment failed"},
		{Ordinal: 2, Status: ChunkStored},
		{Ordinal: 3, Status: ChunkPartialFailed, Reason: "deadline expired"},
	}
	assert.Equal(t, 2, run.PartialFailures())
}
