package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("same text embeds to the same vector", func(t *testing.T) {
		m := NewMockEmbedder()

		a, err := m.EmbedText(ctx, "The Alpha plant raised its output.")
		require.NoError(t, err)
		b, err := m.EmbedText(ctx, "The Alpha plant raised its output.")
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.Len(t, a, defaultDimension)
	})

	t.Run("distinct texts embed to distinct vectors", func(t *testing.T) {
		m := NewMockEmbedder()

		a, err := m.EmbedText(ctx, "grid demand")
		require.NoError(t, err)
		b, err := m.EmbedText(ctx, "turbine bearings")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("vectors are unit length", func(t *testing.T) {
		m := NewMockEmbedder()

		vectors, err := m.EmbedTexts(ctx, []string{"one", "two", "three"})
		require.NoError(t, err)
		require.Len(t, vectors, 3)

		for _, v := range vectors {
			var norm float64
			for _, c := range v {
				norm += float64(c) * float64(c)
			}
			assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-4)
		}
	})

	t.Run("dimension override", func(t *testing.T) {
		m := &MockEmbedder{Dimension: 8}

		v, err := m.EmbedText(ctx, "short vector")
		require.NoError(t, err)
		assert.Len(t, v, 8)
	})

	t.Run("call count and reset", func(t *testing.T) {
		m := NewMockEmbedder()

		_, err := m.EmbedText(ctx, "a")
		require.NoError(t, err)
		_, err = m.EmbedTexts(ctx, []string{"b", "c"})
		require.NoError(t, err)
		assert.Equal(t, 2, m.CallCount())

		m.Reset()
		assert.Zero(t, m.CallCount())
	})
}
