// Copyright 2025 Quellwerk
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/quellwerk/ragline/ai"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/enrich"
	"github.com/quellwerk/ragline/stage"
	"github.com/quellwerk/ragline/storage"
)

const (
	defaultDeadline    = 10 * time.Minute
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
)

// Pipeline drives a document from source file to stored chunks, recording
// every stage transition in a run record.
type Pipeline struct {
	stages    *stage.Client
	endpoints stage.Endpoints
	enricher  *enrich.Enricher
	embedder  ai.Embedder
	store     storage.VectorStore
	runs      storage.RunLogRepository
	pool      *ants.Pool

	deadline    time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithWorkers sets the number of concurrent enrichment workers.
// Default is half the number of CPUs, minimum 1.
func WithWorkers(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		p.pool.Release()
		p.pool = pool
		return nil
	}
}

// WithDeadline bounds the wall-clock time of a single document run.
// Chunks still unenriched when the deadline expires are recorded as
// partial failures. Default is 10 minutes.
func WithDeadline(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d > 0 {
			p.deadline = d
		}
		return nil
	}
}

// WithRetryPolicy sets the attempt budget and base backoff delay applied
// to model and store calls. Defaults are 3 attempts and 2 seconds.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			p.retryDelay = baseDelay
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(stages *stage.Client, endpoints stage.Endpoints, provider ai.Provider, store storage.VectorStore, runs storage.RunLogRepository, opts ...Option) (*Pipeline, error) {
	if stages == nil {
		return nil, ErrStageClientRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if runs == nil {
		return nil, ErrRunLogRequired
	}
	if err := endpoints.Validate(); err != nil {
		return nil, err
	}

	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		stages:      stages,
		endpoints:   endpoints,
		embedder:    provider.Embedder(),
		store:       store,
		runs:        runs,
		pool:        pool,
		deadline:    defaultDeadline,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      slog.Default().With("component", "ingestion"),
	}

	p.enricher, err = enrich.NewEnricher(provider.Generator())
	if err != nil {
		pool.Release()
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			pool.Release()
			return nil, err
		}
	}

	return p, nil
}

// Release shuts down the worker pool.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// withRetry runs op under the pipeline retry policy and reports how many
// attempts were made.
func (p *Pipeline) withRetry(ctx context.Context, op func() error) (int, error) {
	attempts := 0
	err := stage.RetryWithBackoff(ctx, func() error {
		attempts++
		return op()
	}, p.maxAttempts, p.retryDelay)
	if attempts < 1 {
		attempts = 1
	}
	return attempts, err
}

// IngestDocument runs the full pipeline for one source file.
//
// Failures before chunking are fatal and terminate the run. Once chunks
// exist, failures are confined to the affected chunk: the run still reaches
// the stored state and the dropped chunks are recorded as partial failures
// in the returned run record. The run record is persisted in every case.
func (p *Pipeline) IngestDocument(ctx context.Context, path string) (*core.RunRecord, error) {
	docID := filepath.Base(path)
	run := core.NewRunRecord(docID)
	log := p.logger.With("run", run.ID, "document", docID)

	data, err := os.ReadFile(path)
	if err != nil {
		return p.fail(ctx, run, core.StageIngested, 1, err)
	}
	log.Info("ingesting document", "bytes", len(data))

	// The deadline bounds the stage calls and enrichment. Chunks that finish
	// enrichment in time are still embedded and stored after it expires, so
	// the post-enrichment steps run on the caller's context instead.
	runCtx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	doc := &core.Document{ID: docID, Path: path}

	// Layout structuring runs first: language detection needs the extracted
	// text. The stage client retries transient failures internally, so one
	// pipeline-level attempt is recorded per stage call.
	doc.Blocks, err = p.stages.StructurePDF(runCtx, p.endpoints.Structure, docID, data)
	if err != nil {
		return p.fail(ctx, run, core.StageStructured, 1, err)
	}
	doc.Text = core.StructuredText(doc.Blocks)
	if doc.Text == "" {
		return p.fail(ctx, run, core.StageStructured, 1, ErrEmptyDocument)
	}

	doc.Language, err = p.stages.DetectLanguage(runCtx, p.endpoints.DetectLanguage, doc.Text)
	if err != nil {
		return p.fail(ctx, run, core.StageLanguageDetected, 1, err)
	}
	p.advance(run, core.StageLanguageDetected, 1)
	p.advance(run, core.StageStructured, 1)
	log.Info("document structured",
		"language", doc.Language,
		"blocks", len(doc.Blocks))

	// Linguistic annotation.
	doc.Annotation, err = p.stages.Annotate(runCtx, p.endpoints.Annotate, doc.Text, doc.Language)
	if err != nil {
		return p.fail(ctx, run, core.StageAnnotated, 1, err)
	}
	p.advance(run, core.StageAnnotated, 1)
	log.Info("document annotated",
		"entities", len(doc.Annotation.Entities),
		"lemmas", len(doc.Annotation.Lemmas))

	// Semantic chunking.
	var texts []string
	attempts, err := p.withRetry(runCtx, func() error {
		var splitErr error
		texts, splitErr = p.enricher.SplitChunks(runCtx, doc.Text, doc.Language)
		return splitErr
	})
	if err != nil {
		return p.fail(ctx, run, core.StageChunked, attempts, err)
	}
	p.advance(run, core.StageChunked, attempts)
	log.Info("document chunked", "chunks", len(texts))

	// Concurrent enrichment. Each worker reports exactly one result, so the
	// collection loop terminates even when the deadline cancels the workers
	// mid-flight.
	p.advance(run, core.StageEnriching, 1)
	results := p.enrichAll(runCtx, texts)

	var chunks []*core.Chunk
	for ordinal, text := range texts {
		res := results[ordinal]
		if res.err != nil {
			p.dropChunk(run, doc.ID, ordinal, text, res.err)
			continue
		}
		chunk, err := ReconcileChunk(doc, ordinal, text, res.parts)
		if err != nil {
			p.dropChunk(run, doc.ID, ordinal, text, err)
			continue
		}
		chunks = append(chunks, chunk)
	}
	chunks = CollapseDuplicates(chunks)

	// Embedding and storage run on the caller's context: chunks enriched in
	// time are persisted even after the run deadline has expired.
	chunks, attempts = p.embedChunks(ctx, run, chunks)
	p.advance(run, core.StageEmbedded, attempts)

	chunks, attempts = p.storeChunks(ctx, run, chunks)
	p.advance(run, core.StageStored, attempts)

	for _, chunk := range chunks {
		run.Chunks = append(run.Chunks, core.ChunkOutcome{
			ChunkID: chunk.ID,
			Ordinal: chunk.Ordinal,
			Status:  core.ChunkStored,
		})
	}

	run.Finish()
	p.saveRun(ctx, run)
	log.Info("document stored",
		"stored", len(chunks),
		"dropped", run.PartialFailures())
	return run, nil
}

type enrichResult struct {
	ordinal int
	parts   Parts
	err     error
}

// enrichAll fans chunk texts out to the worker pool and collects one result
// per chunk, keyed by ordinal.
func (p *Pipeline) enrichAll(ctx context.Context, texts []string) map[int]enrichResult {
	out := make(chan enrichResult, len(texts))
	for ordinal, text := range texts {
		ordinal, text := ordinal, text
		err := p.pool.Submit(func() {
			out <- p.enrichChunk(ctx, ordinal, text)
		})
		if err != nil {
			out <- enrichResult{ordinal: ordinal, err: err}
		}
	}

	results := make(map[int]enrichResult, len(texts))
	for range texts {
		res := <-out
		results[res.ordinal] = res
	}
	return results
}

// enrichChunk runs the three enrichment calls for one chunk. The first
// failed call aborts the chunk; its siblings are not attempted.
func (p *Pipeline) enrichChunk(ctx context.Context, ordinal int, text string) enrichResult {
	res := enrichResult{ordinal: ordinal}

	_, res.err = p.withRetry(ctx, func() error {
		var err error
		res.parts.Summary, err = p.enricher.SummaryKeywords(ctx, text)
		return err
	})
	if res.err != nil {
		return res
	}

	_, res.err = p.withRetry(ctx, func() error {
		var err error
		res.parts.Questions, err = p.enricher.Questions(ctx, text)
		return err
	})
	if res.err != nil {
		return res
	}

	_, res.err = p.withRetry(ctx, func() error {
		var err error
		res.parts.Sentences, err = p.enricher.SentencesMetadata(ctx, text)
		return err
	})
	return res
}

// embedChunks generates vectors for the surviving chunks. An embedding
// failure drops every pending chunk rather than the run.
func (p *Pipeline) embedChunks(ctx context.Context, run *core.RunRecord, chunks []*core.Chunk) ([]*core.Chunk, int) {
	if len(chunks) == 0 {
		return nil, 1
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	attempts, err := p.withRetry(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	})
	if err != nil {
		for _, chunk := range chunks {
			p.dropChunk(run, chunk.DocumentID, chunk.Ordinal, chunk.Text, err)
		}
		return nil, attempts
	}

	for i, chunk := range chunks {
		chunk.Vector = vectors[i]
	}
	return chunks, attempts
}

// storeChunks upserts the embedded chunks. A store failure drops every
// pending chunk rather than the run.
func (p *Pipeline) storeChunks(ctx context.Context, run *core.RunRecord, chunks []*core.Chunk) ([]*core.Chunk, int) {
	if len(chunks) == 0 {
		return nil, 1
	}

	attempts, err := p.withRetry(ctx, func() error {
		if err := p.store.EnsureCollection(ctx, len(chunks[0].Vector)); err != nil {
			return err
		}
		return p.store.Upsert(ctx, chunks)
	})
	if err != nil {
		for _, chunk := range chunks {
			p.dropChunk(run, chunk.DocumentID, chunk.Ordinal, chunk.Text, err)
		}
		return nil, attempts
	}
	return chunks, attempts
}

// advance records a stage transition. A rejected transition leaves the run
// record untouched and is logged; the pipeline itself keeps going.
func (p *Pipeline) advance(run *core.RunRecord, next core.Stage, attempts int) {
	if err := run.Advance(next, attempts); err != nil {
		p.logger.Error("run record transition rejected",
			"run", run.ID, "stage", next, "err", err)
	}
}

// dropChunk records a partial failure in the run record.
func (p *Pipeline) dropChunk(run *core.RunRecord, docID string, ordinal int, text string, err error) {
	p.logger.Warn("chunk dropped", "run", run.ID, "ordinal", ordinal, "err", err)
	run.Chunks = append(run.Chunks, core.ChunkOutcome{
		ChunkID: core.ChunkIDFor(docID, ordinal, text),
		Ordinal: ordinal,
		Status:  core.ChunkPartialFailed,
		Reason:  err.Error(),
	})
}

// fail terminates the run, persists it and returns it with the cause.
func (p *Pipeline) fail(ctx context.Context, run *core.RunRecord, s core.Stage, attempts int, err error) (*core.RunRecord, error) {
	p.logger.Error("ingestion failed", "run", run.ID, "stage", s, "err", err)
	run.Fail(s, attempts, err)
	p.saveRun(ctx, run)
	return run, err
}

// saveRun persists the run record. Persistence errors are logged, not
// propagated: the run outcome itself must not depend on the audit log.
func (p *Pipeline) saveRun(ctx context.Context, run *core.RunRecord) {
	// The run context may already be expired; the audit write gets its own.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := p.runs.Save(saveCtx, run); err != nil {
		p.logger.Error("failed to save run record", "run", run.ID, "err", err)
	}
}
