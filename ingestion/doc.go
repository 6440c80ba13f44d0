// Package ingestion orchestrates the document pipeline: language detection,
// layout structuring, linguistic annotation, semantic chunking, concurrent
// enrichment, embedding and vector storage.
//
// Every run is persisted as an audit record. Failures before chunking
// terminate the run; after chunking they degrade to per-chunk partial
// failures so the rest of the document still lands in the store.
package ingestion
