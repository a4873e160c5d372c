// Package datasource defines the adapter abstraction for target databases.
// One adapter per dialect, selected once at configuration time through the
// registry; the pipelines never branch on dialect strings themselves.
package datasource

import "context"

// QueryExecutor executes read-only SQL against a target database.
// Each implementation owns its connection and must be closed when done.
type QueryExecutor interface {
	// Query runs a validated SELECT and returns bounded results. The limit
	// is the bound the validation gate already enforced; implementations
	// additionally wrap the statement so results can never exceed it.
	Query(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error)

	// CallRoutine invokes a registered stored routine with positional
	// arguments bound as parameters, never interpolated into SQL text.
	CallRoutine(ctx context.Context, routine string, args []any) (*QueryResult, error)

	// Close releases the connection.
	Close() error
}

// SchemaExtractor produces DDL-like table descriptions for prompt building.
type SchemaExtractor interface {
	// DescribeTables returns CREATE TABLE style text for exactly the named
	// tables. Callers pass only the tables the active context exposes so
	// unrelated schema never reaches a prompt.
	DescribeTables(ctx context.Context, tables []string) (string, error)

	// Close releases the connection.
	Close() error
}

// QueryResult holds rows returned by a target database.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}
