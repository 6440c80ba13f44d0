package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var summarySchema = &Schema{Fields: []Field{
	{Name: "summary", Kind: KindString},
	{Name: "keywords", Kind: KindStringList},
}}

var questionsSchema = &Schema{Fields: []Field{
	{Name: "questions", Kind: KindStringList},
}}

func TestRecover(t *testing.T) {
	t.Run("clean JSON", func(t *testing.T) {
		result, err := Recover(`{"summary": "All good.", "keywords": ["a", "b", "c"]}`, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, "All good.", result["summary"])
		assert.Equal(t, []string{"a", "b", "c"}, result["keywords"])
	})

	t.Run("markdown fences stripped", func(t *testing.T) {
		raw := "```json\n{\"summary\": \"Fenced.\", \"keywords\": [\"a\"]}\n```"
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, "Fenced.", result["summary"])
	})

	t.Run("JSON wrapped in prose", func(t *testing.T) {
		raw := `Sure! Here is the JSON you asked for:
{"summary": "Wrapped.", "keywords": ["x", "y"]}
Let me know if you need anything else.`
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, "Wrapped.", result["summary"])
		assert.Equal(t, []string{"x", "y"}, result["keywords"])
	})

	t.Run("brackets in string values do not confuse extraction", func(t *testing.T) {
		raw := `{"summary": "Uses } and ] inside.", "keywords": ["k"]} trailing prose`
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, "Uses } and ] inside.", result["summary"])
	})

	t.Run("bare array binds to a sole list field", func(t *testing.T) {
		result, err := Recover(`["What is X?", "Why Y?"]`, questionsSchema)
		require.NoError(t, err)
		assert.Equal(t, []string{"What is X?", "Why Y?"}, result["questions"])
	})

	t.Run("single string coerced to one-element list", func(t *testing.T) {
		result, err := Recover(`{"questions": "What is X?"}`, questionsSchema)
		require.NoError(t, err)
		assert.Equal(t, []string{"What is X?"}, result["questions"])
	})

	t.Run("unquoted key repaired", func(t *testing.T) {
		raw := `{"summary": "Fixed.", keywords": ["a", "b"]}`
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, result["keywords"])
	})

	t.Run("trailing comma removed", func(t *testing.T) {
		raw := `{"summary": "Comma.", "keywords": ["a", "b",]}`
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, result["keywords"])
	})

	t.Run("truncated document balanced", func(t *testing.T) {
		raw := `{"summary": "Cut off.", "keywords": ["a", "b"]`
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.Equal(t, "Cut off.", result["summary"])
	})

	t.Run("truncated with dangling comma balanced", func(t *testing.T) {
		raw := `{"questions": ["What is X?", "Why Y?",`
		result, err := Recover(raw, questionsSchema)
		require.NoError(t, err)
		assert.Equal(t, []string{"What is X?", "Why Y?"}, result["questions"])
	})

	t.Run("truncated inside a string is unparseable", func(t *testing.T) {
		_, err := Recover(`{"summary": "never ends`, summarySchema)
		require.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("no JSON at all is unparseable", func(t *testing.T) {
		_, err := Recover("I could not produce any output, sorry.", summarySchema)
		require.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("missing key is a schema mismatch", func(t *testing.T) {
		_, err := Recover(`{"summary": "No keywords."}`, summarySchema)
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("number where string expected is a schema mismatch", func(t *testing.T) {
		_, err := Recover(`{"summary": 42, "keywords": ["a"]}`, summarySchema)
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("numbers in a string list are a schema mismatch", func(t *testing.T) {
		_, err := Recover(`{"questions": ["ok", 7]}`, questionsSchema)
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("undeclared keys are ignored", func(t *testing.T) {
		raw := `{"summary": "Extra.", "keywords": ["a"], "confidence": 0.9}`
		result, err := Recover(raw, summarySchema)
		require.NoError(t, err)
		assert.NotContains(t, result, "confidence")
	})
}

func TestRecoverObjectList(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "entities", Kind: KindObjectList, Keys: []string{"name", "type"}},
	}}

	t.Run("list of objects", func(t *testing.T) {
		raw := `{"entities": [{"name": "Berlin", "type": "place"}, {"name": "ACME", "type": "organization"}]}`
		result, err := Recover(raw, schema)
		require.NoError(t, err)
		entities := result["entities"].([]map[string]string)
		require.Len(t, entities, 2)
		assert.Equal(t, "Berlin", entities[0]["name"])
		assert.Equal(t, "organization", entities[1]["type"])
	})

	t.Run("single object wrapped", func(t *testing.T) {
		raw := `{"entities": {"name": "Berlin", "type": "place"}}`
		result, err := Recover(raw, schema)
		require.NoError(t, err)
		entities := result["entities"].([]map[string]string)
		require.Len(t, entities, 1)
	})

	t.Run("empty list allowed", func(t *testing.T) {
		result, err := Recover(`{"entities": []}`, schema)
		require.NoError(t, err)
		assert.Empty(t, result["entities"])
	})

	t.Run("item missing a key is a schema mismatch", func(t *testing.T) {
		_, err := Recover(`{"entities": [{"name": "Berlin"}]}`, schema)
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})
}
