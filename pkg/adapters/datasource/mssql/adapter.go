// Package mssql implements the datasource adapter for SQL Server targets.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
)

// QueryExecutor provides SQL Server query execution.
type QueryExecutor struct {
	db *sql.DB
}

// NewQueryExecutor connects to the target and returns an executor.
func NewQueryExecutor(ctx context.Context, dsn string) (*QueryExecutor, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to sqlserver: %w", err)
	}
	return &QueryExecutor{db: db}, nil
}

// Query runs a validated SELECT with the row bound rewritten into SQL
// Server's OFFSET/FETCH form, so the result set can never exceed the limit.
func (e *QueryExecutor) Query(ctx context.Context, sqlQuery string, limit int) (*datasource.QueryResult, error) {
	queryToRun := sqlQuery
	if limit > 0 {
		queryToRun = rewriteLimit(sqlQuery, limit)
	}

	rows, err := e.db.QueryContext(ctx, queryToRun)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// CallRoutine invokes a stored procedure with positional bound parameters.
func (e *QueryExecutor) CallRoutine(ctx context.Context, routine string, args []any) (*datasource.QueryResult, error) {
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
	}

	call := fmt.Sprintf("EXEC %s %s", quoteIdentifier(routine), strings.Join(placeholders, ", "))

	rows, err := e.db.QueryContext(ctx, call, args...)
	if err != nil {
		return nil, fmt.Errorf("call routine: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// Close releases the connection.
func (e *QueryExecutor) Close() error {
	return e.db.Close()
}

// rewriteLimit converts the portable LIMIT bound into OFFSET/FETCH, which
// SQL Server accepts both with and without an existing top-level ORDER BY.
// Wrapping in a derived table is not an option: SQL Server rejects ORDER BY
// inside a derived table without TOP or OFFSET.
func rewriteLimit(sqlQuery string, limit int) string {
	stripped := stripLimitClause(sqlQuery)
	if !hasTopLevelOrderBy(stripped) {
		// OFFSET/FETCH requires an ORDER BY clause.
		stripped += " ORDER BY (SELECT NULL)"
	}
	return fmt.Sprintf("%s OFFSET 0 ROWS FETCH NEXT %d ROWS ONLY", stripped, limit)
}

// hasTopLevelOrderBy reports whether the statement carries an ORDER BY
// outside of parentheses and string literals. ORDER BY inside subqueries or
// OVER() windows does not count.
func hasTopLevelOrderBy(sqlQuery string) bool {
	upper := strings.ToUpper(sqlQuery)
	depth := 0
	inString := false
	for i := 0; i < len(upper); i++ {
		c := upper[i]
		if inString {
			if c == '\'' {
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		case 'O':
			if depth != 0 {
				continue
			}
			if i > 0 && isWordByte(upper[i-1]) {
				continue
			}
			if !strings.HasPrefix(upper[i:], "ORDER") {
				continue
			}
			rest := strings.TrimLeft(upper[i+len("ORDER"):], " \t\r\n")
			if strings.HasPrefix(rest, "BY") && (len(rest) == 2 || !isWordByte(rest[2])) {
				return true
			}
		}
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// stripLimitClause removes a trailing LIMIT n [OFFSET m] clause.
func stripLimitClause(sqlQuery string) string {
	upper := strings.ToUpper(sqlQuery)
	idx := strings.LastIndex(upper, "LIMIT")
	if idx < 0 {
		return sqlQuery
	}
	// Only strip when everything after LIMIT is digits/whitespace/OFFSET.
	tail := strings.TrimSpace(upper[idx+len("LIMIT"):])
	for _, r := range tail {
		if (r < '0' || r > '9') && r != ' ' && r != '\t' && r != '\n' &&
			!strings.ContainsRune("OFFSET", r) {
			return sqlQuery
		}
	}
	return strings.TrimSpace(sqlQuery[:idx])
}

// quoteIdentifier wraps an identifier in brackets, escaping closing brackets.
func quoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func collectRows(rows *sql.Rows) (*datasource.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rowMap[col] = string(b)
			} else {
				rowMap[col] = values[i]
			}
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
