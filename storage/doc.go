// Package storage provides the storage abstraction layer for ragline.
//
// Two stores back the pipeline: the vector store (Milvus) holds enriched
// chunks for retrieval, and the run log (BadgerDB) holds the audit trail of
// every ingestion run. This package defines the interfaces that decouple
// both from business logic, plus the binary serialization helpers for run
// records.
//
// Public constructors in the backend packages return these interfaces, not
// concrete types, so consumers never couple to a specific engine and tests
// can substitute doubles without modification.
//
// All implementations must be thread-safe, and every method accepts a
// context.Context for cancellation and timeout support.
package storage
