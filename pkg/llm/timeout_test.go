package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCallTimeout_BoundsGenerateResponse(t *testing.T) {
	var deadline time.Time
	var hadDeadline bool

	mock := NewMockLanguageModel()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		deadline, hadDeadline = ctx.Deadline()
		return "ok", nil
	}

	model := WithCallTimeout(mock, 5*time.Second)

	_, err := model.GenerateResponse(context.Background(), "¿Cuál es mi saldo?", "sys", 0)
	require.NoError(t, err)
	require.True(t, hadDeadline, "model call must carry a deadline")
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestWithCallTimeout_BoundsCreateEmbedding(t *testing.T) {
	var hadDeadline bool

	mock := NewMockLanguageModel()
	mock.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
		_, hadDeadline = ctx.Deadline()
		return []float32{0.1}, nil
	}

	model := WithCallTimeout(mock, 5*time.Second)

	_, err := model.CreateEmbedding(context.Background(), "saldo")
	require.NoError(t, err)
	assert.True(t, hadDeadline, "embedding call must carry a deadline")
}

func TestWithCallTimeout_KeepsTighterCallerDeadline(t *testing.T) {
	var deadline time.Time

	mock := NewMockLanguageModel()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		deadline, _ = ctx.Deadline()
		return "ok", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	model := WithCallTimeout(mock, time.Hour)
	_, err := model.GenerateResponse(ctx, "q", "sys", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestWithCallTimeout_ZeroReturnsModelUnchanged(t *testing.T) {
	mock := NewMockLanguageModel()
	assert.Same(t, LanguageModel(mock), WithCallTimeout(mock, 0))
}
