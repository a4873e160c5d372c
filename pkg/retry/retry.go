// Package retry implements bounded exponential backoff for calls to
// upstream services (language models, target databases, the cache store).
package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0.0-1.0, default 0.1 for +/-10% jitter to prevent thundering herd
}

// DefaultConfig returns sensible defaults for upstream calls:
// 2 retries with 200ms initial delay, capped at 3s, doubling each time.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   2,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     3 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// applyJitter adds random jitter to a delay to prevent thundering herd.
func applyJitter(delay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return delay
	}
	jitter := float64(delay) * jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(float64(delay) + jitter)
}

// RetryableError is implemented by errors that explicitly declare their
// retryability. LLM errors implement this so that a semantically rejected
// model output is never retried while a network failure is.
type RetryableError interface {
	error
	IsRetryable() bool
}

// IsRetryable determines if an error is transient and worth retrying.
//
// The check order:
//  1. If the error implements RetryableError, use its IsRetryable() method.
//  2. Otherwise, pattern-match against known transient error strings.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if r, ok := err.(RetryableError); ok {
		return r.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"timeout",
		"timed out",
		"temporary failure",
		"i/o timeout",
		"network is unreachable",
		"429",
		"500",
		"502",
		"503",
		"504",
		"rate limit",
		"service unavailable",
		"too many requests",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// Do executes fn with exponential backoff, retrying only transient errors.
// Permanent failures (malformed output, rejected SQL, auth) return
// immediately. Respects context cancellation during wait periods.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}

		if attempt < cfg.MaxRetries {
			select {
			case <-time.After(applyJitter(delay, cfg.JitterFactor)):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

// DoWithResult executes fn and returns both result and error.
// Same retry semantics as Do.
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		r, err := fn()
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}
