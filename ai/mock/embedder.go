package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// defaultDimension matches the width of common local embedding models so
// collection schemas created in tests look realistic.
const defaultDimension = 384

// MockEmbedder is a test double for ai.Embedder.
// Without injected behavior it derives a unit vector from each text, so the
// same chunk or question always embeds to the same vector and distinct texts
// almost never collide.
type MockEmbedder struct {
	// EmbedTextFunc overrides EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the width of generated vectors. Zero means 384.
	Dimension int

	callCount int
}

// NewMockEmbedder creates a mock embedder with deterministic defaults.
// Note: returns the concrete type so tests can inspect call counts.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText returns the deterministic vector for one text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return m.vectorFor(text), nil
}

// EmbedTexts returns deterministic vectors for a batch of texts, in input
// order.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vectorFor(text)
	}
	return vectors, nil
}

// CallCount returns how many times either embed method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// vectorFor expands an FNV-1a hash of the text into a unit vector using an
// xorshift sequence. Identical texts always map to identical vectors.
func (m *MockEmbedder) vectorFor(text string) []float32 {
	dim := m.Dimension
	if dim <= 0 {
		dim = defaultDimension
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64() | 1 // xorshift must not start at zero

	vector := make([]float32, dim)
	var sumSquares float64
	for i := range vector {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		// Spread components across [-1, 1)
		v := float32(state%2048)/1024.0 - 1.0
		vector[i] = v
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares > 0 {
		scale := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector
}
