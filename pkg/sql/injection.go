package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a SQL injection pattern detected in a tool
// parameter value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if a SQL injection pattern was detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // Name of the parameter that failed the check
	ParamValue  any    // The value that was checked
}

// CheckParameterForInjection uses libinjection to detect SQL injection
// patterns in a tool parameter value before it is bound to a routine call.
//
// Only string values are checked; numbers and booleans cannot carry
// injection payloads. Returns nil when no injection is detected.
func CheckParameterForInjection(paramName string, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			ParamName:   paramName,
			ParamValue:  value,
		}
	}

	return nil
}

// CheckAllParameters validates every tool parameter value. Returns one
// result per failing parameter; empty when all values are clean.
func CheckAllParameters(params map[string]any) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range params {
		if result := CheckParameterForInjection(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
