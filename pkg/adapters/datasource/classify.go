package datasource

import (
	"context"
	"errors"
	"strings"
)

// ExecErrorKind classifies target-database failures so pipelines can choose
// a user-facing message without ever exposing the raw engine error.
type ExecErrorKind string

const (
	ExecErrorSyntax      ExecErrorKind = "syntax"
	ExecErrorPermission  ExecErrorKind = "permission"
	ExecErrorTimeout     ExecErrorKind = "timeout"
	ExecErrorUnavailable ExecErrorKind = "unavailable"
	ExecErrorOther       ExecErrorKind = "other"
)

// ClassifyExecError maps an executor error to its kind. Dialect-specific
// SQLSTATE prefixes from both supported engines are matched by message
// because the adapters wrap driver errors.
func ClassifyExecError(err error) ExecErrorKind {
	if err == nil {
		return ExecErrorOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExecErrorTimeout
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "syntax error") ||
		strings.Contains(lower, "sqlstate 42601") ||
		strings.Contains(lower, "incorrect syntax"):
		return ExecErrorSyntax
	case strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "sqlstate 42501") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "the select permission was denied"):
		return ExecErrorPermission
	case strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "canceling statement due to statement timeout"):
		return ExecErrorTimeout
	case strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "failed to connect"):
		return ExecErrorUnavailable
	}
	return ExecErrorOther
}
