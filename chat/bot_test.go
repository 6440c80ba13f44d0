package chat

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellwerk/ragline/ai/mock"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/storage"
)

// searchStore is a storage.VectorStore stub serving canned search results.
type searchStore struct {
	results []*core.SearchResult
	err     error
	lastK   int
}

func (s *searchStore) EnsureCollection(ctx context.Context, dimension int) error { return nil }
func (s *searchStore) Upsert(ctx context.Context, chunks []*core.Chunk) error    { return nil }
func (s *searchStore) Drop(ctx context.Context) error                            { return nil }
func (s *searchStore) Count(ctx context.Context) (int64, error)                  { return 0, nil }
func (s *searchStore) Close(ctx context.Context) error                           { return nil }

func (s *searchStore) Search(ctx context.Context, vector []float32, topK int) ([]*core.SearchResult, error) {
	s.lastK = topK
	return s.results, s.err
}

var _ storage.VectorStore = (*searchStore)(nil)

func testResults() []*core.SearchResult {
	return []*core.SearchResult{
		{
			ChunkID:    core.ChunkIDFor("report.pdf", 0, "The plant produces 400 MW."),
			DocumentID: "report.pdf",
			Content:    "The plant produces 400 MW.",
			Summary:    "Plant output.",
			Score:      0.12,
		},
		{
			ChunkID:    core.ChunkIDFor("report.pdf", 3, "Output is sold on the spot market."),
			DocumentID: "report.pdf",
			Content:    "Output is sold on the spot market.",
			Summary:    "Sales channel.",
			Score:      0.34,
		},
	}
}

func TestAsk(t *testing.T) {
	t.Run("grounds the answer in retrieved chunks", func(t *testing.T) {
		provider := mock.NewMockProvider().(*mock.MockProvider)
		provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "The plant produces 400 MW.", nil
		}
		store := &searchStore{results: testResults()}

		bot, err := New(provider, store, WithTopK(3))
		require.NoError(t, err)

		answer, err := bot.Ask(context.Background(), "How much does the plant produce?")
		require.NoError(t, err)

		assert.Equal(t, "The plant produces 400 MW.", answer.Text)
		assert.Len(t, answer.Sources, 2)
		assert.Equal(t, 3, store.lastK)

		prompts := provider.GetMockGenerator().Prompts()
		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "The plant produces 400 MW.")
		assert.Contains(t, prompts[0], "Output is sold on the spot market.")
		assert.Contains(t, prompts[0], "How much does the plant produce?")
	})

	t.Run("answers without the model when retrieval is empty", func(t *testing.T) {
		provider := mock.NewMockProvider().(*mock.MockProvider)
		bot, err := New(provider, &searchStore{})
		require.NoError(t, err)

		answer, err := bot.Ask(context.Background(), "Anything?")
		require.NoError(t, err)

		assert.Contains(t, answer.Text, "don't know")
		assert.Empty(t, answer.Sources)
		assert.Zero(t, provider.GetMockGenerator().CallCount())
	})

	t.Run("rejects a blank question", func(t *testing.T) {
		bot, err := New(mock.NewMockProvider(), &searchStore{})
		require.NoError(t, err)

		_, err = bot.Ask(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})
}

func TestRun(t *testing.T) {
	t.Run("answers until exit", func(t *testing.T) {
		provider := mock.NewMockProvider().(*mock.MockProvider)
		provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "400 MW.", nil
		}
		bot, err := New(provider, &searchStore{results: testResults()})
		require.NoError(t, err)

		in := strings.NewReader("How much power?\nexit\n")
		var out bytes.Buffer
		require.NoError(t, bot.Run(context.Background(), in, &out))

		output := out.String()
		assert.Contains(t, output, "400 MW.")
		assert.Contains(t, output, "Sources:")
		assert.Contains(t, output, "report.pdf")
		assert.Equal(t, 1, provider.GetMockGenerator().CallCount())
	})

	t.Run("skips blank lines and stops at EOF", func(t *testing.T) {
		provider := mock.NewMockProvider().(*mock.MockProvider)
		bot, err := New(provider, &searchStore{})
		require.NoError(t, err)

		in := strings.NewReader("\n\n")
		var out bytes.Buffer
		require.NoError(t, bot.Run(context.Background(), in, &out))
		assert.Zero(t, provider.GetMockGenerator().CallCount())
	})
}

func TestNew(t *testing.T) {
	t.Run("requires a provider", func(t *testing.T) {
		_, err := New(nil, &searchStore{})
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("requires a store", func(t *testing.T) {
		_, err := New(mock.NewMockProvider(), nil)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("rejects non-positive topK", func(t *testing.T) {
		_, err := New(mock.NewMockProvider(), &searchStore{}, WithTopK(0))
		assert.Error(t, err)
	})
}
