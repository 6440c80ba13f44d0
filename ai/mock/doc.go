// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Generator, ai.Embedder,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	generator := mock.NewMockGenerator()
//	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return `{"summary": "stub"}`, nil
//	}
//
//	// Check call counts
//	count := generator.CallCount()
//
// # Default Behavior
//
//   - MockGenerator: Returns an empty JSON object
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProvider: Aggregates mock generator and embedder
package mock
