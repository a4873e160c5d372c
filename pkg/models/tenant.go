package models

// TenantScope identifies which knowledge contexts a caller may access.
// It is constructed per request from the caller's credentials and is
// immutable for the request's lifetime.
type TenantScope struct {
	TenantID   int64   `json:"tenant_id"`
	ContextIDs []int64 `json:"context_ids"`

	// CallerIdentityDocument is an optional identity attribute supplied by
	// the authentication layer. Tools may use it as a default parameter
	// value for "who am I" style lookups.
	CallerIdentityDocument string `json:"caller_identity_document,omitempty"`
}

// Authorizes reports whether the scope grants access to the given context.
func (s TenantScope) Authorizes(contextID int64) bool {
	for _, id := range s.ContextIDs {
		if id == contextID {
			return true
		}
	}
	return false
}

// Empty reports whether the scope grants access to no contexts at all.
func (s TenantScope) Empty() bool {
	return len(s.ContextIDs) == 0
}
