// Package enrich runs the LLM enrichment calls of the ingestion pipeline.
//
// Each call binds a fixed prompt to a recovery schema: the prompt tells the
// model exactly what JSON to emit, and the schema is what the response is
// validated against after recovery. The Enricher performs four calls per
// document run: semantic chunking over the whole text, then summary+keywords,
// hypothetical questions, and key sentences+metadata per chunk.
//
// Malformed model output is retried a bounded number of times before the
// call fails; the chunk it belongs to is then reported as dropped by the
// pipeline, never silently discarded.
package enrich
