package models

import (
	"time"

	"github.com/google/uuid"
)

// TransformKind names a deterministic conversion applied to a tool parameter
// value before invoking the underlying database routine.
type TransformKind string

const (
	// TransformNone passes the extracted value through unchanged.
	TransformNone TransformKind = "none"
	// TransformDate normalizes assorted date spellings to ISO 8601 (YYYY-MM-DD).
	TransformDate TransformKind = "date"
	// TransformIdentityDocument strips separators and whitespace from
	// national identity document numbers.
	TransformIdentityDocument TransformKind = "identity_document"
	// TransformUpper upper-cases the value (for code-style columns).
	TransformUpper TransformKind = "upper"
)

// ToolParameter declares one required parameter of a registered tool.
type ToolParameter struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"` // text, integer, numeric, date
	Transform TransformKind `json:"transform"`
}

// ToolDefinition maps a natural-language intent to a parameterized database
// routine (stored procedure or function). Static per knowledge context.
type ToolDefinition struct {
	ID          uuid.UUID       `json:"id"`
	ContextID   int64           `json:"context_id"`
	Name        string          `json:"name"` // routine name, e.g. fn_get_balance
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToolMatch is the router's structured tool-selection output: a tool name
// plus extracted parameter values keyed by parameter name.
type ToolMatch struct {
	ToolName   string            `json:"tool"`
	Parameters map[string]string `json:"parameters"`
}
