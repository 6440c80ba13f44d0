package enrich

import "errors"

var (
	// ErrGeneratorRequired is returned when a generator is not provided.
	ErrGeneratorRequired = errors.New("generator required")

	// ErrNoChunks indicates that chunking produced no usable chunks.
	ErrNoChunks = errors.New("chunking produced no chunks")

	// ErrFabricatedChunk indicates a chunk that is not a span of the
	// source text. Fabricated content is never ingested.
	ErrFabricatedChunk = errors.New("chunk is not a span of the source text")
)
