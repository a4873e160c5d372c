package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckParameterForInjection_CleanValues(t *testing.T) {
	for _, value := range []string{
		"71455461",
		"Maria Perez",
		"2024-01-31",
	} {
		assert.Nil(t, CheckParameterForInjection("param", value), "value %q must pass", value)
	}
}

func TestCheckParameterForInjection_ClassicPayloads(t *testing.T) {
	for _, value := range []string{
		"' OR '1'='1",
		"1; DROP TABLE users--",
		"' UNION SELECT password FROM users--",
	} {
		result := CheckParameterForInjection("dni", value)
		require.NotNil(t, result, "payload %q must be flagged", value)
		assert.True(t, result.IsSQLi)
		assert.Equal(t, "dni", result.ParamName)
		assert.NotEmpty(t, result.Fingerprint)
	}
}

func TestCheckParameterForInjection_NonStringsSkipped(t *testing.T) {
	assert.Nil(t, CheckParameterForInjection("count", 42))
	assert.Nil(t, CheckParameterForInjection("flag", true))
	assert.Nil(t, CheckParameterForInjection("none", nil))
}

func TestCheckAllParameters(t *testing.T) {
	results := CheckAllParameters(map[string]any{
		"clean":   "71455461",
		"payload": "' OR '1'='1",
	})
	require.Len(t, results, 1)
	assert.Equal(t, "payload", results[0].ParamName)
}
