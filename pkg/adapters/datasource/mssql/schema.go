package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
)

// SchemaExtractor produces DDL-like descriptions of SQL Server tables.
type SchemaExtractor struct {
	db *sql.DB
}

// NewSchemaExtractor connects to the target and returns an extractor.
func NewSchemaExtractor(ctx context.Context, dsn string) (*SchemaExtractor, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to sqlserver: %w", err)
	}
	return &SchemaExtractor{db: db}, nil
}

// DescribeTables returns CREATE TABLE style text for exactly the named tables.
func (s *SchemaExtractor) DescribeTables(ctx context.Context, tables []string) (string, error) {
	const columnQuery = `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @p1
		ORDER BY ORDINAL_POSITION
	`

	var ddl strings.Builder
	for _, table := range tables {
		rows, err := s.db.QueryContext(ctx, columnQuery, table)
		if err != nil {
			return "", fmt.Errorf("describe table %s: %w", table, err)
		}

		var cols []string
		for rows.Next() {
			var name, dataType, nullable string
			if err := rows.Scan(&name, &dataType, &nullable); err != nil {
				rows.Close()
				return "", fmt.Errorf("scan column for %s: %w", table, err)
			}
			col := fmt.Sprintf("  %s %s", name, dataType)
			if nullable == "NO" {
				col += " NOT NULL"
			}
			cols = append(cols, col)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("iterate columns for %s: %w", table, err)
		}

		if len(cols) == 0 {
			continue
		}

		ddl.WriteString(fmt.Sprintf("CREATE TABLE %s (\n%s\n);\n\n", table, strings.Join(cols, ",\n")))
	}

	return strings.TrimSpace(ddl.String()), nil
}

// Close releases the connection.
func (s *SchemaExtractor) Close() error {
	return s.db.Close()
}

var _ datasource.SchemaExtractor = (*SchemaExtractor)(nil)
