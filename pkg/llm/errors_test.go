package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"unauthorized", errors.New("401 Unauthorized"), ErrorTypeAuth, false},
		{"invalid key", errors.New("invalid api key provided"), ErrorTypeAuth, false},
		{"model missing", errors.New("model gpt-9 does not exist"), ErrorTypeModel, false},
		{"endpoint 404", errors.New("404 page not found"), ErrorTypeEndpoint, false},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeEndpoint, true},
		{"timeout", errors.New("context deadline exceeded"), ErrorTypeEndpoint, true},
		{"rate limit", errors.New("429 Too Many Requests"), ErrorTypeEndpoint, true},
		{"server error", errors.New("502 Bad Gateway"), ErrorTypeEndpoint, true},
		{"unknown", errors.New("something odd"), ErrorTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}
}

func TestClassifyError_PreservesStructuredError(t *testing.T) {
	original := NewError(ErrorTypeOutput, "unusable response", false, nil)
	got := ClassifyError(fmt.Errorf("wrapped: %w", original))
	assert.Same(t, original, got)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewError(ErrorTypeEndpoint, "server error", true, cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrorTypeEndpoint, "x", true, nil)))
	assert.False(t, IsRetryable(NewError(ErrorTypeOutput, "x", false, nil)))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestGetErrorType(t *testing.T) {
	wrapped := fmt.Errorf("summarize: %w", NewError(ErrorTypeEndpoint, "503", true, nil))
	assert.Equal(t, ErrorTypeEndpoint, GetErrorType(wrapped))
	assert.Equal(t, ErrorTypeOutput, GetErrorType(NewError(ErrorTypeOutput, "x", false, nil)))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain error")))
}
