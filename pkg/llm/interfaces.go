// Package llm provides language model clients behind one interface.
// The provider (OpenAI-compatible or Anthropic) is selected once at
// configuration time, never per request.
package llm

import "context"

// LanguageModel is the single abstraction used for intent routing, SQL
// generation, and answer synthesis. Same interface, different prompts.
// Use it for dependency injection to enable mocking in tests.
type LanguageModel interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// CreateEmbedding generates an embedding vector for the input text.
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure implementations satisfy LanguageModel at compile time.
var (
	_ LanguageModel = (*OpenAIClient)(nil)
	_ LanguageModel = (*AnthropicClient)(nil)
	_ LanguageModel = (*MockLanguageModel)(nil)
)
