package llm

import (
	"context"
	"time"
)

// timeoutModel bounds every call on the wrapped model with a deadline so a
// hung upstream can never stall a request indefinitely.
type timeoutModel struct {
	inner   LanguageModel
	timeout time.Duration
}

// WithCallTimeout wraps model so GenerateResponse and CreateEmbedding each
// run under a deadline derived from the caller's context. A non-positive
// timeout returns model unchanged.
func WithCallTimeout(model LanguageModel, timeout time.Duration) LanguageModel {
	if timeout <= 0 {
		return model
	}
	return &timeoutModel{inner: model, timeout: timeout}
}

// GenerateResponse implements LanguageModel.
func (m *timeoutModel) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.inner.GenerateResponse(ctx, prompt, systemMessage, temperature)
}

// CreateEmbedding implements LanguageModel.
func (m *timeoutModel) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.inner.CreateEmbedding(ctx, input)
}

// GetModel implements LanguageModel.
func (m *timeoutModel) GetModel() string {
	return m.inner.GetModel()
}
