// Package milvus implements the vector store on a Milvus collection.
//
// The collection schema carries the chunk vector plus the full enrichment
// payload as scalar fields, so retrieval needs no second store. The primary
// key is the chunk's deterministic content ID; Upsert deletes and reinserts
// by key, which makes re-ingestion idempotent.
//
// This package talks to a live Milvus server and is exercised by integration
// environments rather than unit tests.
package milvus
