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


package milvus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/storage"
)

// Field names of the chunk collection.
const (
	fieldChunkID      = "chunk_id"
	fieldEmbedding    = "embedding"
	fieldDocumentID   = "document_id"
	fieldOrdinal      = "ordinal"
	fieldLanguage     = "language"
	fieldContent      = "content"
	fieldSummary      = "summary"
	fieldKeywords     = "keywords"
	fieldQuestions    = "questions"
	fieldKeySentences = "key_sentences"
	fieldTopic        = "topic"
	fieldSentiment    = "sentiment"
	fieldEntities     = "entities"
	fieldNLPEntities  = "nlp_entities"
	fieldNLPLemmas    = "nlp_lemmas"
)

// Config holds connection settings for the Milvus vector store.
type Config struct {
	Address    string // host:port of the Milvus proxy
	Username   string
	Password   string
	Database   string
	Collection string
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("milvus config: Address is required")
	}
	if c.Collection == "" {
		return errors.New("milvus config: Collection is required")
	}
	return nil
}

// Store implements storage.VectorStore on a Milvus collection.
// Chunks are keyed by their deterministic content IDs, so writes are
// idempotent across re-ingestions of the same document.
type Store struct {
	client     *milvusclient.Client
	collection string
	logger     *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore connects to Milvus and returns a vector store on the configured
// collection.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewStore(ctx context.Context, config *Config) (storage.VectorStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  config.Address,
		Username: config.Username,
		Password: config.Password,
		DBName:   config.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	return &Store{
		client:     client,
		collection: config.Collection,
		logger:     slog.Default().With("component", "milvus-store"),
	}, nil
}

// EnsureCollection creates the chunk collection, its vector index and loads
// it into memory. Calling it on an existing collection is a no-op.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	schema := entity.NewSchema().
		WithName(s.collection).
		WithDescription("enriched document chunks").
		WithAutoID(false)

	// Deterministic chunk IDs serve as the primary key; AutoID would break
	// upsert-by-identity.
	schema.WithField(
		entity.NewField().
			WithName(fieldChunkID).
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true),
	)
	schema.WithField(
		entity.NewField().
			WithName(fieldEmbedding).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dimension)),
	)
	schema.WithField(
		entity.NewField().
			WithName(fieldOrdinal).
			WithDataType(entity.FieldTypeInt64),
	)

	varcharFields := []struct {
		name   string
		maxLen int
	}{
		{fieldDocumentID, 512},
		{fieldLanguage, 16},
		{fieldContent, 65535},
		{fieldSummary, 65535},
		{fieldKeywords, 4096},
		{fieldQuestions, 8192},
		{fieldKeySentences, 16384},
		{fieldTopic, 512},
		{fieldSentiment, 16},
		{fieldEntities, 8192},
		{fieldNLPEntities, 65535},
		{fieldNLPLemmas, 65535},
	}
	for _, f := range varcharFields {
		schema.WithField(
			entity.NewField().
				WithName(f.name).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(int64(f.maxLen)),
		)
	}

	if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(s.collection, schema)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx := index.NewIvfFlatIndex(entity.L2, 128)
	createIdxTask, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(s.collection, fieldEmbedding, idx))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := createIdxTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for index creation: %w", err)
	}

	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	s.logger.Info("created chunk collection", "collection", s.collection, "dimension", dimension)
	return nil
}

// Upsert writes chunks keyed by their deterministic IDs. Existing rows with
// the same IDs are replaced.
func (s *Store) Upsert(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	dimension := len(chunks[0].Vector)
	ids := make([]int64, len(chunks))
	vectors := make([][]float32, len(chunks))
	ordinals := make([]int64, len(chunks))
	strColumns := map[string][]string{
		fieldDocumentID:   make([]string, len(chunks)),
		fieldLanguage:     make([]string, len(chunks)),
		fieldContent:      make([]string, len(chunks)),
		fieldSummary:      make([]string, len(chunks)),
		fieldKeywords:     make([]string, len(chunks)),
		fieldQuestions:    make([]string, len(chunks)),
		fieldKeySentences: make([]string, len(chunks)),
		fieldTopic:        make([]string, len(chunks)),
		fieldSentiment:    make([]string, len(chunks)),
		fieldEntities:     make([]string, len(chunks)),
		fieldNLPEntities:  make([]string, len(chunks)),
		fieldNLPLemmas:    make([]string, len(chunks)),
	}

	for i, chunk := range chunks {
		if len(chunk.Vector) != dimension {
			return fmt.Errorf("%w: chunk %s has dimension %d, want %d",
				storage.ErrDimensionMismatch, chunk.ID.Hex(), len(chunk.Vector), dimension)
		}

		ids[i] = int64(chunk.ID)
		vectors[i] = chunk.Vector
		ordinals[i] = int64(chunk.Ordinal)
		strColumns[fieldDocumentID][i] = chunk.DocumentID
		strColumns[fieldLanguage][i] = chunk.Language
		strColumns[fieldContent][i] = chunk.Text
		strColumns[fieldSummary][i] = chunk.Bundle.Summary
		strColumns[fieldKeywords][i] = mustJSON(chunk.Bundle.Keywords)
		strColumns[fieldQuestions][i] = mustJSON(chunk.Bundle.Questions)
		strColumns[fieldKeySentences][i] = mustJSON(chunk.Bundle.KeySentences)
		strColumns[fieldTopic][i] = chunk.Bundle.Metadata.Topic
		strColumns[fieldSentiment][i] = chunk.Bundle.Metadata.Sentiment
		strColumns[fieldEntities][i] = mustJSON(chunk.Bundle.Metadata.Entities)
		strColumns[fieldNLPEntities][i] = mustJSON(chunk.Annotation.Entities)
		strColumns[fieldNLPLemmas][i] = mustJSON(chunk.Annotation.Lemmas)
	}

	// Replace-by-key: delete any previous rows for these IDs, then insert.
	if _, err := s.client.Delete(ctx, milvusclient.NewDeleteOption(s.collection).WithInt64IDs(fieldChunkID, ids)); err != nil {
		return fmt.Errorf("failed to delete existing chunks: %w", err)
	}

	columns := []column.Column{
		column.NewColumnInt64(fieldChunkID, ids),
		column.NewColumnFloatVector(fieldEmbedding, dimension, vectors),
		column.NewColumnInt64(fieldOrdinal, ordinals),
	}
	for name, values := range strColumns {
		columns = append(columns, column.NewColumnVarChar(name, values))
	}

	if _, err := s.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(s.collection, columns...)); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	// Flush so the chunks are searchable immediately after ingestion
	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for flush: %w", err)
	}

	s.logger.Debug("upserted chunks", "count", len(chunks))
	return nil
}

// Search returns the topK chunks most similar to the query vector.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]*core.SearchResult, error) {
	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	results, err := s.client.Search(ctx, milvusclient.NewSearchOption(
		s.collection,
		topK,
		[]entity.Vector{entity.FloatVector(vector)},
	).WithANNSField(fieldEmbedding).
		WithSearchParam("nprobe", "16").
		WithOutputFields(fieldDocumentID, fieldContent, fieldSummary))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return []*core.SearchResult{}, nil
	}

	hits := make([]*core.SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		hit := &core.SearchResult{Score: results[0].Scores[i]}

		if idCol, ok := results[0].IDs.(*column.ColumnInt64); ok {
			hit.ChunkID = core.ID(idCol.Data()[i])
		}

		for _, field := range results[0].Fields {
			col, ok := field.(*column.ColumnVarChar)
			if !ok {
				continue
			}
			switch col.Name() {
			case fieldDocumentID:
				hit.DocumentID = col.Data()[i]
			case fieldContent:
				hit.Content = col.Data()[i]
			case fieldSummary:
				hit.Summary = col.Data()[i]
			}
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

// Drop removes the entire collection.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(s.collection)); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	s.logger.Info("dropped chunk collection", "collection", s.collection)
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	stats, err := s.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(s.collection))
	if err != nil {
		return 0, fmt.Errorf("failed to get collection stats: %w", err)
	}

	if val, ok := stats["row_count"]; ok {
		return strconv.ParseInt(val, 10, 64)
	}
	return 0, nil
}

// Close closes the Milvus client connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// mustJSON serializes payload values that cannot fail: slices of strings and
// plain structs.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}
