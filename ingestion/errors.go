package ingestion

import "errors"

var (
	// ErrStageClientRequired is returned when a stage client is not provided.
	ErrStageClientRequired = errors.New("stage client required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrRunLogRequired is returned when a run log repository is not provided.
	ErrRunLogRequired = errors.New("run log repository required")

	// ErrEmptyDocument indicates that structuring yielded no indexable text.
	ErrEmptyDocument = errors.New("document contains no indexable text")

	// ErrReconcileIncomplete indicates a chunk whose enrichment bundle is
	// missing parts. Incomplete chunks never reach the vector store.
	ErrReconcileIncomplete = errors.New("enrichment bundle incomplete")
)
