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
	"fmt"
	"sort"

	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/enrich"
)

// Parts collects the enrichment outputs of a single chunk as they arrive
// from concurrent workers.
type Parts struct {
	Summary   *enrich.SummaryKeywords
	Questions []string
	Sentences *enrich.SentencesMetadata
}

// Complete reports whether every enrichment output is present.
func (p *Parts) Complete() bool {
	return p.Summary != nil && len(p.Questions) > 0 && p.Sentences != nil
}

// ReconcileChunk assembles a chunk from its enrichment parts and validates
// the result. A chunk with missing parts or an invalid bundle is rejected
// and must be recorded as a partial failure by the caller.
func ReconcileChunk(doc *core.Document, ordinal int, text string, parts Parts) (*core.Chunk, error) {
	if !parts.Complete() {
		return nil, fmt.Errorf("%w: chunk %d of %s", ErrReconcileIncomplete, ordinal, doc.ID)
	}

	chunk := &core.Chunk{
		ID:         core.ChunkIDFor(doc.ID, ordinal, text),
		DocumentID: doc.ID,
		Ordinal:    ordinal,
		Text:       text,
		Language:   doc.Language,
		Bundle: core.EnrichmentBundle{
			Summary:      parts.Summary.Summary,
			Keywords:     parts.Summary.Keywords,
			Questions:    parts.Questions,
			KeySentences: parts.Sentences.KeySentences,
			Metadata: core.ChunkMetadata{
				Topic:     parts.Sentences.Topic,
				Sentiment: parts.Sentences.Sentiment,
				Entities:  parts.Sentences.Entities,
			},
		},
		Annotation: doc.Annotation,
	}

	if err := core.ValidateChunk(chunk); err != nil {
		return nil, err
	}
	return chunk, nil
}

// CollapseDuplicates merges chunks whose normalized text is identical.
// The chunk with the lowest ordinal survives; keywords are unioned and
// questions concatenated without duplicates. The result is ordered by
// ordinal.
func CollapseDuplicates(chunks []*core.Chunk) []*core.Chunk {
	byText := make(map[string]*core.Chunk, len(chunks))
	var out []*core.Chunk

	for _, chunk := range chunks {
		key := core.NormalizeChunkText(chunk.Text)
		survivor, ok := byText[key]
		if !ok {
			byText[key] = chunk
			out = append(out, chunk)
			continue
		}
		if chunk.Ordinal < survivor.Ordinal {
			mergeBundle(chunk, survivor)
			byText[key] = chunk
			for i, c := range out {
				if c == survivor {
					out[i] = chunk
					break
				}
			}
		} else {
			mergeBundle(survivor, chunk)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

// mergeBundle folds the keywords and questions of other into dst, skipping
// values dst already carries.
func mergeBundle(dst, other *core.Chunk) {
	dst.Bundle.Keywords = appendMissing(dst.Bundle.Keywords, other.Bundle.Keywords)
	dst.Bundle.Questions = appendMissing(dst.Bundle.Questions, other.Bundle.Questions)
}

func appendMissing(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[core.NormalizeChunkText(v)] = true
	}
	for _, v := range src {
		key := core.NormalizeChunkText(v)
		if !seen[key] {
			seen[key] = true
			dst = append(dst, v)
		}
	}
	return dst
}
