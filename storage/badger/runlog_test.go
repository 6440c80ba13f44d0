package badger

import (
	"context"
	"testing"
	"time"

	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) storage.RunLogRepository {
	t.Helper()

	backend, err := OpenBackend(t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	repo, err := NewRunLogRepository(backend)
	require.NoError(t, err)
	return repo
}

func TestRunLogSaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	run := core.NewRunRecord("report.pdf")
	require.NoError(t, run.Advance(core.StageLanguageDetected, 1))
	run.Chunks = []core.ChunkOutcome{
		{ChunkID: core.ChunkIDFor("report.pdf", 0, "text"), Ordinal: 0, Status: core.ChunkStored},
	}

	require.NoError(t, repo.Save(ctx, run))

	loaded, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, "report.pdf", loaded.DocumentID)
	assert.Equal(t, core.StageLanguageDetected, loaded.State)
	require.Len(t, loaded.Chunks, 1)
	assert.Equal(t, core.ChunkStored, loaded.Chunks[0].Status)
	assert.WithinDuration(t, run.StartedAt, loaded.StartedAt, time.Millisecond)
}

func TestRunLogGetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "no-such-run")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunLogResaveIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	run := core.NewRunRecord("report.pdf")
	require.NoError(t, repo.Save(ctx, run))

	// Progress the run and save again
	require.NoError(t, run.Advance(core.StageLanguageDetected, 1))
	require.NoError(t, repo.Save(ctx, run))

	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, core.StageLanguageDetected, runs[0].State)
}

func TestRunLogListNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	var want []string
	for i := 0; i < 3; i++ {
		run := core.NewRunRecord("report.pdf")
		run.StartedAt = time.Date(2025, 6, 1+i, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, run))
		want = append([]string{run.ID}, want...)
	}

	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, run := range runs {
		assert.Equal(t, want[i], run.ID)
	}

	t.Run("limit caps results", func(t *testing.T) {
		runs, err := repo.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}
