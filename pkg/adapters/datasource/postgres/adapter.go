// Package postgres implements the datasource adapter for PostgreSQL targets.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
)

// QueryExecutor provides PostgreSQL query execution over a pgx pool.
type QueryExecutor struct {
	pool *pgxpool.Pool
}

// NewQueryExecutor connects to the target and returns an executor.
func NewQueryExecutor(ctx context.Context, dsn string) (*QueryExecutor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &QueryExecutor{pool: pool}, nil
}

// Query runs a validated SELECT with the result set wrapped so it can never
// exceed the limit the validation gate established.
func (e *QueryExecutor) Query(ctx context.Context, sqlQuery string, limit int) (*datasource.QueryResult, error) {
	queryToRun := sqlQuery
	if limit > 0 {
		queryToRun = fmt.Sprintf("SELECT * FROM (%s) AS _limited LIMIT %d", sqlQuery, limit)
	}

	rows, err := e.pool.Query(ctx, queryToRun)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// CallRoutine invokes a stored function with positional bound parameters:
// SELECT * FROM routine($1, $2, ...).
func (e *QueryExecutor) CallRoutine(ctx context.Context, routine string, args []any) (*datasource.QueryResult, error) {
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	quoted := pgx.Identifier{routine}.Sanitize()
	call := fmt.Sprintf("SELECT * FROM %s(%s)", quoted, strings.Join(placeholders, ", "))

	rows, err := e.pool.Query(ctx, call, args...)
	if err != nil {
		return nil, fmt.Errorf("call routine: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// Close releases the pool.
func (e *QueryExecutor) Close() error {
	e.pool.Close()
	return nil
}

func collectRows(rows pgx.Rows) (*datasource.QueryResult, error) {
	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &datasource.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

var _ datasource.QueryExecutor = (*QueryExecutor)(nil)
