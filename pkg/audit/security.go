// Package audit provides security audit logging for SIEM consumption.
// Security-relevant events are logged as structured JSON under a dedicated
// logger namespace for easy filtering and alerting.
package audit

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events.
type SecurityEventType string

const (
	// EventUnsafeSQLRejected is logged when the validation gate blocks a
	// model-generated statement before execution.
	EventUnsafeSQLRejected SecurityEventType = "unsafe_sql_rejected"
	// EventSQLInjectionAttempt is logged when libinjection flags a tool
	// parameter value.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventContextAccessViolation is logged when a request references a
	// knowledge context outside its tenant scope.
	EventContextAccessViolation SecurityEventType = "context_access_violation"
)

// SecurityEvent is one auditable event with the context a SIEM needs.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	TenantID  int64             `json:"tenant_id"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// UnsafeSQLDetails records why a generated statement was rejected.
type UnsafeSQLDetails struct {
	Reason    string `json:"reason"`
	Statement string `json:"statement"` // pre-sanitized and truncated by the caller
}

// InjectionDetails records a flagged tool parameter.
type InjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"`
	ToolName    string `json:"tool_name"`
}

// ContextViolationDetails records an out-of-scope context reference.
type ContextViolationDetails struct {
	RequestedContextID int64   `json:"requested_context_id"`
	AuthorizedContexts []int64 `json:"authorized_contexts"`
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates an auditor with a dedicated logger namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogUnsafeSQL records a blocked statement at WARN with "critical" severity.
func (a *SecurityAuditor) LogUnsafeSQL(tenantID int64, details UnsafeSQLDetails) {
	a.log(SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventUnsafeSQLRejected,
		TenantID:  tenantID,
		Details:   details,
		Severity:  "critical",
	})
}

// LogInjectionAttempt records a flagged tool parameter at WARN with
// "critical" severity.
func (a *SecurityAuditor) LogInjectionAttempt(tenantID int64, details InjectionDetails) {
	a.log(SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		TenantID:  tenantID,
		Details:   details,
		Severity:  "critical",
	})
}

// LogContextViolation records an out-of-scope context reference.
func (a *SecurityAuditor) LogContextViolation(tenantID int64, details ContextViolationDetails) {
	a.log(SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventContextAccessViolation,
		TenantID:  tenantID,
		Details:   details,
		Severity:  "warning",
	})
}

func (a *SecurityAuditor) log(event SecurityEvent) {
	payload, err := json.Marshal(event.Details)
	if err != nil {
		payload = []byte(`{"marshal_error":true}`)
	}

	a.logger.Warn("security event",
		zap.String("event_type", string(event.EventType)),
		zap.Int64("tenant_id", event.TenantID),
		zap.String("severity", event.Severity),
		zap.Time("event_time", event.Timestamp),
		zap.ByteString("details", payload),
	)
}
