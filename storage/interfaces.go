package storage

import (
	"context"

	"github.com/quellwerk/ragline/core"
)

// VectorStore persists enriched chunks and serves similarity search.
type VectorStore interface {
	// EnsureCollection creates the chunk collection and its index if they
	// do not exist yet. Safe to call on every startup.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes chunks keyed by their deterministic IDs.
	// Re-ingesting a document overwrites its chunks instead of duplicating
	// them.
	Upsert(ctx context.Context, chunks []*core.Chunk) error

	// Search returns the topK chunks most similar to the query vector,
	// ordered by relevance.
	Search(ctx context.Context, vector []float32, topK int) ([]*core.SearchResult, error)

	// Drop removes the entire collection.
	Drop(ctx context.Context) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int64, error)

	// Close releases the connection to the store.
	Close(ctx context.Context) error
}

// RunLogRepository persists ingestion run records.
type RunLogRepository interface {
	// Save writes a run record, overwriting any previous state of the
	// same run.
	Save(ctx context.Context, run *core.RunRecord) error

	// Get retrieves a run record by its ID.
	// Returns ErrNotFound if the run doesn't exist.
	Get(ctx context.Context, id string) (*core.RunRecord, error)

	// List retrieves up to limit run records, newest first.
	List(ctx context.Context, limit int) ([]*core.RunRecord, error)

	// Close releases repository resources.
	Close() error
}
