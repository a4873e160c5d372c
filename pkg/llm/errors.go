package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies language model failures.
type ErrorType string

const (
	// ErrorTypeAuth covers invalid or missing API keys.
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeEndpoint covers unreachable endpoints, timeouts, 5xx.
	ErrorTypeEndpoint ErrorType = "endpoint"
	// ErrorTypeModel covers unknown or unavailable model names.
	ErrorTypeModel ErrorType = "model"
	// ErrorTypeOutput covers well-delivered but unusable responses.
	// Never retryable: re-asking the same question just burns tokens.
	ErrorTypeOutput ErrorType = "output"
	// ErrorTypeUnknown covers everything else.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a structured language model error with classification.
type Error struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	Cause      error
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface.
// This allows the retry package to check retryability without importing llm.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured language model error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error and returns a structured Error.
// This consolidates error classification for consistent retry handling.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	classified := func(errType ErrorType, message string, retryable bool) *Error {
		e := NewError(errType, message, retryable, err)
		e.StatusCode = statusCode
		return e
	}

	switch {
	// Authentication errors (not retryable)
	case strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key"):
		return classified(ErrorTypeAuth, "authentication failed", false)

	// Model not found (not retryable without config change)
	case strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")):
		return classified(ErrorTypeModel, "model not found", false)

	// Endpoint not found (not retryable without config change)
	case strings.Contains(errStr, "404"):
		return classified(ErrorTypeEndpoint, "endpoint not found", false)

	// Connection errors (retryable)
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return classified(ErrorTypeEndpoint, "connection failed", true)

	// Timeout and deadline exceeded (retryable)
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return classified(ErrorTypeEndpoint, "request timeout", true)

	// Rate limiting (retryable after backoff)
	case strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit"):
		return classified(ErrorTypeEndpoint, "rate limited", true)

	// 5xx server errors (retryable)
	case strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504"):
		return classified(ErrorTypeEndpoint, "server error", true)
	}

	return classified(ErrorTypeUnknown, "llm error", false)
}

// IsRetryable returns true if the error is classified retryable.
func IsRetryable(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}
