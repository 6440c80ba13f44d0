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


package enrich

import (
	"fmt"

	"github.com/quellwerk/ragline/recovery"
)

// Prompt pairs a fixed template with the schema its response must satisfy.
type Prompt struct {
	ID       string
	Template string
	Schema   *recovery.Schema
}

// Render substitutes the arguments into the prompt template.
func (p Prompt) Render(args ...any) string {
	return fmt.Sprintf(p.Template, args...)
}

const chunkingTemplate = `Split the document below into coherent semantic chunks of roughly 300-500 words each.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or
acknowledgment. Start your response directly with the opening brace { and end
with the closing brace }. Your output must exactly follow this schema:

{
  "type": "object",
  "properties": {
    "chunks": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["chunks"],
  "additionalProperties": false
}

Rules:
- Each chunk must be a verbatim, contiguous span of the document. Never paraphrase, summarize, or invent text.
- Split at topic boundaries, never mid-sentence.
- Keep the chunks in document order and cover the whole document.
- The document language is %s; do not translate.

Document:
%s`

const summaryKeywordsTemplate = `Summarize the text below and extract its keywords.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or
acknowledgment. Start your response directly with the opening brace { and end
with the closing brace }. Your output must exactly follow this schema:

{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "keywords": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 3,
      "maxItems": 5
    }
  },
  "required": ["summary", "keywords"],
  "additionalProperties": false
}

Rules:
- The summary must be at most 3 sentences, in the language of the text.
- Provide between 3 and 5 keywords, lowercase, each 1-3 words.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Text:
%s`

const questionsTemplate = `Write the questions a reader could answer using only the text below.

Output ONLY a valid JSON array of strings. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with
the opening bracket [ and end with the closing bracket ].

Rules:
- Provide between 2 and 3 questions.
- Each question must be answerable from the text alone. Do not ask about anything the text does not state.
- Use the language of the text.

Example output:
["What year was the plant commissioned?", "Which regions does the grid cover?"]

Text:
%s`

const sentencesMetadataTemplate = `Identify the most important sentences of the text below and classify it.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or
acknowledgment. Start your response directly with the opening brace { and end
with the closing brace }. Your output must exactly follow this schema:

{
  "type": "object",
  "properties": {
    "key_sentences": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 1,
      "maxItems": 3
    },
    "topic": {"type": "string"},
    "sentiment": {"type": "string", "enum": ["positive", "neutral", "negative"]},
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"}
        },
        "required": ["name", "type"],
        "additionalProperties": false
      }
    }
  },
  "required": ["key_sentences", "topic", "sentiment", "entities"],
  "additionalProperties": false
}

Rules:
- Key sentences must be copied verbatim from the text, between 1 and 3 of them.
- The topic is a short noun phrase, lowercase.
- Sentiment must be exactly one of: positive, neutral, negative.
- Entities are named entities mentioned in the text; use lowercase types such as person, place, organization. Return [] when there are none.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Text:
%s`

// The four enrichment prompts. Their IDs are stable and appear in logs.
var (
	PromptChunking = Prompt{
		ID:       "chunking",
		Template: chunkingTemplate,
		Schema: &recovery.Schema{Fields: []recovery.Field{
			{Name: "chunks", Kind: recovery.KindStringList},
		}},
	}

	PromptSummaryKeywords = Prompt{
		ID:       "summary_keywords",
		Template: summaryKeywordsTemplate,
		Schema: &recovery.Schema{Fields: []recovery.Field{
			{Name: "summary", Kind: recovery.KindString},
			{Name: "keywords", Kind: recovery.KindStringList},
		}},
	}

	PromptQuestions = Prompt{
		ID:       "questions",
		Template: questionsTemplate,
		Schema: &recovery.Schema{Fields: []recovery.Field{
			{Name: "questions", Kind: recovery.KindStringList},
		}},
	}

	PromptSentencesMetadata = Prompt{
		ID:       "sentences_metadata",
		Template: sentencesMetadataTemplate,
		Schema: &recovery.Schema{Fields: []recovery.Field{
			{Name: "key_sentences", Kind: recovery.KindStringList},
			{Name: "topic", Kind: recovery.KindString},
			{Name: "sentiment", Kind: recovery.KindString},
			{Name: "entities", Kind: recovery.KindObjectList, Keys: []string{"name", "type"}},
		}},
	}
)
