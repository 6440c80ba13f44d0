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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidBundle indicates an EnrichmentBundle failed validation.
	ErrInvalidBundle = errors.New("invalid enrichment bundle")

	// ErrEmptyText indicates the chunk text is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptySummary indicates the bundle summary is empty.
	ErrEmptySummary = errors.New("summary cannot be empty")

	// ErrSummaryTooLong indicates the summary exceeds three sentences.
	ErrSummaryTooLong = errors.New("summary exceeds three sentences")

	// ErrKeywordCount indicates the keyword count is outside 3-5.
	ErrKeywordCount = errors.New("keywords must number between 3 and 5")

	// ErrQuestionCount indicates the question count is outside 2-3.
	ErrQuestionCount = errors.New("questions must number between 2 and 3")

	// ErrKeySentenceCount indicates the key sentence count is outside 1-3.
	ErrKeySentenceCount = errors.New("key sentences must number between 1 and 3")

	// ErrInvalidSentiment indicates an unrecognized sentiment value.
	ErrInvalidSentiment = errors.New("sentiment must be positive, neutral or negative")

	// ErrInvalidEntity indicates an entity with an empty name or type.
	ErrInvalidEntity = errors.New("entity name and type cannot be empty")

	// ErrInvalidTransition indicates a run state transition that is not the
	// immediate successor of the current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrRunFailed indicates an operation on a terminally failed run.
	ErrRunFailed = errors.New("run has failed")
)
