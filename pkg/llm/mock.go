package llm

import "context"

// MockLanguageModel is a configurable mock for testing LLM-dependent code.
// Set the function fields to control behavior in tests.
type MockLanguageModel struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty string and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// CreateEmbeddingFunc is called when CreateEmbedding is invoked.
	// If nil, returns nil slice and nil error.
	CreateEmbeddingFunc func(ctx context.Context, input string) ([]float32, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification
	GenerateResponseCalls int
	CreateEmbeddingCalls  int

	// Prompts records every prompt passed via GenerateResponse.
	Prompts []string
}

// NewMockLanguageModel creates a new mock with sensible defaults.
func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{Model: "mock-model"}
}

// GenerateResponse implements LanguageModel.
func (m *MockLanguageModel) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	m.GenerateResponseCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// CreateEmbedding implements LanguageModel.
func (m *MockLanguageModel) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	m.CreateEmbeddingCalls++
	if m.CreateEmbeddingFunc != nil {
		return m.CreateEmbeddingFunc(ctx, input)
	}
	return nil, nil
}

// GetModel implements LanguageModel.
func (m *MockLanguageModel) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// Reset clears call tracking counters.
func (m *MockLanguageModel) Reset() {
	m.GenerateResponseCalls = 0
	m.CreateEmbeddingCalls = 0
	m.Prompts = nil
}
