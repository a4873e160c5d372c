package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
)

// SchemaExtractor produces DDL-like descriptions of PostgreSQL tables.
type SchemaExtractor struct {
	pool *pgxpool.Pool
}

// NewSchemaExtractor connects to the target and returns an extractor.
func NewSchemaExtractor(ctx context.Context, dsn string) (*SchemaExtractor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &SchemaExtractor{pool: pool}, nil
}

// DescribeTables returns CREATE TABLE style text for exactly the named
// tables. Tables outside the list are never described.
func (s *SchemaExtractor) DescribeTables(ctx context.Context, tables []string) (string, error) {
	const columnQuery = `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	var ddl strings.Builder
	for _, table := range tables {
		rows, err := s.pool.Query(ctx, columnQuery, table)
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

// Close releases the pool.
func (s *SchemaExtractor) Close() error {
	s.pool.Close()
	return nil
}

var _ datasource.SchemaExtractor = (*SchemaExtractor)(nil)
