package datasource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExecError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExecErrorKind
	}{
		{"nil", nil, ExecErrorOther},
		{"deadline", context.DeadlineExceeded, ExecErrorTimeout},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ExecErrorTimeout},
		{"pg syntax", errors.New("ERROR: syntax error at or near \"FROM\" (SQLSTATE 42601)"), ExecErrorSyntax},
		{"mssql syntax", errors.New("mssql: Incorrect syntax near 'FORM'"), ExecErrorSyntax},
		{"pg permission", errors.New("ERROR: permission denied for table ventas (SQLSTATE 42501)"), ExecErrorPermission},
		{"mssql permission", errors.New("mssql: The SELECT permission was denied on the object 'ventas'"), ExecErrorPermission},
		{"statement timeout", errors.New("ERROR: canceling statement due to statement timeout"), ExecErrorTimeout},
		{"refused", errors.New("dial tcp 10.0.0.5:5432: connection refused"), ExecErrorUnavailable},
		{"other", errors.New("division by zero"), ExecErrorOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExecError(tt.err))
		})
	}
}
