// Package apperrors defines the error taxonomy shared across the engine.
package apperrors

import "errors"

var (
	// ErrNoAuthorizedContexts is returned when a caller has no knowledge
	// contexts at all; the request must fail rather than answer from no data.
	ErrNoAuthorizedContexts = errors.New("caller has no authorized knowledge contexts")

	// ErrContextAccessDenied is returned when a request references a context
	// outside the caller's authorized set.
	ErrContextAccessDenied = errors.New("context access denied")

	// ErrUpstreamUnavailable is returned when the language model, vector
	// index, or target database is unreachable or timed out.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrMalformedModelOutput is returned when a model response cannot be
	// parsed as the expected structure. Callers route to the next fallback
	// path instead of surfacing this to the user.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrUnsafeSQL is returned by the validation gate for statements that
	// must never reach a target database.
	ErrUnsafeSQL = errors.New("unsafe SQL statement rejected")

	// ErrUnknownTransform is returned when a tool parameter declares a
	// transform kind the engine does not implement. This is a configuration
	// error, never silently ignored.
	ErrUnknownTransform = errors.New("unknown parameter transform")

	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCredentialsKeyMismatch indicates stored connection credentials were
	// encrypted with a different key.
	ErrCredentialsKeyMismatch = errors.New("connection credentials were encrypted with a different key")
)
