// Package logging provides log construction and sanitization helpers.
// Connection strings, credentials, and raw SQL must pass through the
// sanitizers before reaching any log line or user-facing message.
package logging

import (
	"regexp"

	"go.uber.org/zap"
)

const (
	// MaxQueryLogLength is the maximum length of a SQL statement to log.
	MaxQueryLogLength = 120
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Matches password=xxx, pwd=xxx, pass=xxx (until next delimiter).
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches api_key=xxx style values.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Matches user:pass@host credentials embedded in URLs.
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// NewLogger builds the process logger. Local environments get the console
// development encoder; everything else gets production JSON.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// SanitizeConnectionString removes credentials from a connection string
// before it can be logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeError scrubs an error message that might contain connection
// details. Use this before logging any error from a target database.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeQuery truncates and scrubs a SQL statement for logging.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	sanitized := query
	if len(sanitized) > MaxQueryLogLength {
		sanitized = sanitized[:MaxQueryLogLength] + "..."
	}
	return passwordPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
}

// TruncateString truncates s to maxLen and adds ellipsis if needed.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
