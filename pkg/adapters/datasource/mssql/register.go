package mssql

import (
	"context"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Dialect:     models.DialectMSSQL,
		DisplayName: "Microsoft SQL Server",
		QueryExecutorFactory: func(ctx context.Context, dsn string) (datasource.QueryExecutor, error) {
			return NewQueryExecutor(ctx, dsn)
		},
		SchemaExtractorFactory: func(ctx context.Context, dsn string) (datasource.SchemaExtractor, error) {
			return NewSchemaExtractor(ctx, dsn)
		},
	})
}
