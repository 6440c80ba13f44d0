package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Hex returns the ID as a 16-character lowercase hex string.
func (id ID) Hex() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ChunkIDFor generates the deterministic ID of a chunk.
// Identical (document, ordinal, normalized text) triples always yield the
// same ID, so re-ingesting a document overwrites rather than duplicates.
func ChunkIDFor(documentID string, ordinal int, text string) ID {
	return IDFromContent(documentID + "#" + strconv.Itoa(ordinal) + "#" + NormalizeChunkText(text))
}

// NormalizeChunkText canonicalizes chunk text for identity and deduplication:
// lowercased, with all whitespace runs collapsed to single spaces.
func NormalizeChunkText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Layout block types produced by document structuring.
// Only these carry prose worth indexing; page furniture is skipped.
const (
	BlockNarrativeText     = "NarrativeText"
	BlockUncategorizedText = "UncategorizedText"
	BlockListItem          = "ListItem"
	BlockTitle             = "Title"
)

// LayoutBlock is a single element of a structured document layout.
type LayoutBlock struct {
	Type string
	Text string
}

// StructuredText assembles the indexable text of a document from its layout
// blocks, keeping only prose-bearing block types in document order.
func StructuredText(blocks []LayoutBlock) string {
	var parts []string
	for _, block := range blocks {
		switch block.Type {
		case BlockNarrativeText, BlockUncategorizedText, BlockListItem, BlockTitle:
			if text := strings.TrimSpace(block.Text); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// AnnotatedEntity is a named entity found by linguistic annotation.
type AnnotatedEntity struct {
	Text  string
	Label string
}

// Lemma maps a token to its dictionary form.
type Lemma struct {
	Text  string
	Lemma string
}

// Annotation holds document-level linguistic annotations.
type Annotation struct {
	Entities []AnnotatedEntity
	Lemmas   []Lemma
}

// Document represents a source document moving through the pipeline.
type Document struct {
	ID         string // base name of the source file
	Path       string
	Language   string // ISO 639-1 code
	Text       string // structured text assembled from Blocks
	Blocks     []LayoutBlock
	Annotation Annotation
}

// Entity is a named entity attributed to a chunk by enrichment.
type Entity struct {
	Name string
	Type string
}

// ChunkMetadata holds per-chunk classification produced by enrichment.
type ChunkMetadata struct {
	Topic     string
	Sentiment string // "positive", "neutral" or "negative"
	Entities  []Entity
}

// EnrichmentBundle aggregates every enrichment output for a single chunk.
// A chunk only advances to embedding once its bundle is complete.
type EnrichmentBundle struct {
	Summary      string   // at most 3 sentences
	Keywords     []string // 3-5 items
	Questions    []string // 2-3 items
	KeySentences []string // 1-3 items, verbatim from the chunk
	Metadata     ChunkMetadata
}

// Chunk is a contiguous span of document text with its enrichment and vector.
// Annotation is document-level and is copied onto every chunk so the stored
// payload is self-contained.
type Chunk struct {
	ID         ID
	DocumentID string
	Ordinal    int
	Text       string
	Language   string
	Bundle     EnrichmentBundle
	Annotation Annotation
	Vector     []float32
}

// SearchResult is a vector store hit with its relevance score.
type SearchResult struct {
	ChunkID    ID
	DocumentID string
	Content    string
	Summary    string
	Score      float32
}

// Stage identifies a step of the ingestion pipeline.
type Stage int

const (
	// StageIngested means the source file was read.
	StageIngested Stage = iota + 1
	// StageLanguageDetected means the document language is known.
	StageLanguageDetected
	// StageStructured means layout blocks were extracted.
	StageStructured
	// StageAnnotated means linguistic annotation completed.
	StageAnnotated
	// StageChunked means the text was split into chunks.
	StageChunked
	// StageEnriching means per-chunk enrichment is in progress.
	StageEnriching
	// StageEmbedded means chunk vectors were generated.
	StageEmbedded
	// StageStored means chunks were written to the vector store. Terminal.
	StageStored
	// StageFailed is the terminal failure state.
	StageFailed
)

var stageNames = map[Stage]string{
	StageIngested:         "ingested",
	StageLanguageDetected: "language-detected",
	StageStructured:       "structured",
	StageAnnotated:        "annotated",
	StageChunked:          "chunked",
	StageEnriching:        "enriching",
	StageEmbedded:         "embedded",
	StageStored:           "stored",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// ChunkStatus is the final disposition of a chunk within a run.
type ChunkStatus int

const (
	// ChunkStored means the chunk completed enrichment and was stored.
	ChunkStored ChunkStatus = iota + 1
	// ChunkPartialFailed means the chunk was dropped after chunking.
	ChunkPartialFailed
)

func (s ChunkStatus) String() string {
	switch s {
	case ChunkStored:
		return "stored"
	case ChunkPartialFailed:
		return "partial-failed"
	}
	return "unknown"
}

// StageStatus records the completion of one pipeline stage.
type StageStatus struct {
	Stage    Stage
	Attempts int
	Error    string // non-empty only for the failing stage
}

// ChunkOutcome records the disposition of one chunk, including the reason
// when it was dropped. Dropped chunks are never silently discarded.
type ChunkOutcome struct {
	ChunkID ID
	Ordinal int
	Status  ChunkStatus
	Reason  string
}

// RunRecord is the persisted audit trail of a single document ingestion.
type RunRecord struct {
	ID          string // UUID
	DocumentID  string
	State       Stage
	FailedStage Stage // set only when State is StageFailed
	Error       string
	Stages      []StageStatus
	Chunks      []ChunkOutcome
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewRunRecord starts a run for the given document in the ingested state.
func NewRunRecord(documentID string) *RunRecord {
	return &RunRecord{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		State:      StageIngested,
		Stages:     []StageStatus{{Stage: StageIngested, Attempts: 1}},
		StartedAt:  time.Now().UTC(),
	}
}

/// Advance moves the run to the next stage. Transitions are forward-only:
// only the immediate successor of the current stage is accepted, and a
// failed run never advances.
func (r *RunRecord) Advance(next Stage, attempts int) error {
	if r.State == StageFailed {
		return fmt.Errorf("%w: run %s", ErrRunFailed, r.ID)
	}
	if next != r.State+1 || next >= StageFailed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, next)
	}
	if attempts < 1 {
		attempts = 1
	}
	r.State = next
	r.Stages = append(r.Stages, StageStatus{Stage: next, Attempts: attempts})
	return nil
}

// Fail marks the run as terminally failed at the given stage.
func (r *RunRecord) Fail(stage Stage, attempts int, err error) {
	if attempts < 1 {
		attempts = 1
	}
	r.State = StageFailed
	r.FailedStage = stage
	if err != nil {
		r.Error = err.Error()
	}
	r.Stages = append(r.Stages, StageStatus{Stage: stage, Attempts: attempts, Error: r.Error})
	r.FinishedAt = time.Now().UTC()
}

// Finish stamps the completion time of a successful run.
func (r *RunRecord) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// PartialFailures counts the chunks dropped during this run.
func (r *RunRecord) PartialFailures() int {
	n := 0
	for _, outcome := range r.Chunks {
		if outcome.Status == ChunkPartialFailed {
			n++
		}
	}
	return n
}
