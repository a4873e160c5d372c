package models

import "time"

// RoutePath is the pipeline the router selected for a question.
type RoutePath string

const (
	PathDocumentQA RoutePath = "DOCUMENT_QA"
	PathDataQuery  RoutePath = "DATA_QUERY"
	PathNoTool     RoutePath = "NO_TOOL"
	PathHandoff    RoutePath = "HANDOFF"
)

// RouteDecision is the router's output: exactly one path, with the matched
// tool (if any) and the database context chosen for free-form SQL.
type RouteDecision struct {
	Path RoutePath `json:"path"`

	// Tool is set when Path is DATA_QUERY and a registered tool matched.
	Tool *ToolMatch `json:"tool,omitempty"`

	// ContextID is the knowledge context the data-query path will use.
	ContextID int64 `json:"context_id,omitempty"`
}

// ChatMessage is one turn of conversation history passed to the pipelines.
type ChatMessage struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// ConversationState carries the signals the handoff trigger evaluates.
type ConversationState struct {
	History []ChatMessage `json:"history"`

	// ConsecutiveFailures counts answers in a row that came back empty or
	// degraded.
	ConsecutiveFailures int `json:"consecutive_failures"`

	// HumanRequested is set when the caller explicitly asked for a person.
	HumanRequested bool `json:"human_requested"`
}

// PipelineResult is what either pipeline hands to the assembler.
type PipelineResult struct {
	AnswerText string           `json:"answer_text"`
	Sources    []string         `json:"sources,omitempty"`
	Rows       []map[string]any `json:"rows,omitempty"`

	// Degraded marks a technical-problem answer that must not be cached.
	Degraded bool `json:"degraded,omitempty"`
}

// FinalResponse is the engine's answer to one question.
type FinalResponse struct {
	Answer  string    `json:"answer"`
	Sources []string  `json:"sources,omitempty"`
	Path    RoutePath `json:"path"`
	Cached  bool      `json:"cached"`
	Handoff bool      `json:"handoff"`
}

// ChatTurn is the log record emitted after every answered question.
// Storage is owned by the logging collaborator; the engine only emits.
type ChatTurn struct {
	TenantID   int64     `json:"tenant_id"`
	ContextIDs []int64   `json:"context_ids"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	PathTaken  RoutePath `json:"path_taken"`
	CreatedAt  time.Time `json:"created_at"`
}
