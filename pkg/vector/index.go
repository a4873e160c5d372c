// Package vector provides tenant-filtered similarity search over the
// pgvector-backed chunk store.
package vector

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

// Index is the similarity search abstraction the document pipeline consumes.
// Implementations MUST apply the context-id filter inside the search itself;
// filtering after retrieval is a security defect.
type Index interface {
	SimilaritySearch(ctx context.Context, query string, contextIDs []int64, k int) ([]models.DocumentChunk, error)
}

// tableNamePattern restricts configured table names to plain identifiers.
var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// searchTimeout bounds the similarity search query against the chunk store.
const searchTimeout = 15 * time.Second

// PgVectorIndex implements Index over a pgvector column in the engine store.
type PgVectorIndex struct {
	pool     *pgxpool.Pool
	embedder llm.LanguageModel
	table    string
	logger   *zap.Logger
}

// NewPgVectorIndex creates an index over the configured chunk table.
// The table name comes from configuration, never derived from data.
func NewPgVectorIndex(pool *pgxpool.Pool, embedder llm.LanguageModel, table string, logger *zap.Logger) (*PgVectorIndex, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid chunk table name %q", table)
	}
	return &PgVectorIndex{
		pool:     pool,
		embedder: embedder,
		table:    table,
		logger:   logger.Named("vector"),
	}, nil
}

// SimilaritySearch embeds the query and returns the k nearest chunks whose
// context id is in the authorized set. The filter is part of the SQL, so an
// empty set returns nothing.
func (idx *PgVectorIndex) SimilaritySearch(ctx context.Context, query string, contextIDs []int64, k int) ([]models.DocumentChunk, error) {
	if len(contextIDs) == 0 {
		return nil, nil
	}

	embedding, err := idx.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Cosine distance ordering; the context filter is mandatory.
	searchSQL := fmt.Sprintf(`
		SELECT content, context_id, source_filename, source_type,
		       embedding <=> $1 AS distance
		FROM %s
		WHERE context_id = ANY($2)
		ORDER BY embedding <=> $1
		LIMIT $3`, idx.table)

	qctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	rows, err := idx.pool.Query(qctx, searchSQL, pgvector.NewVector(embedding), contextIDs, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		var distance float64
		if err := rows.Scan(&chunk.Content, &chunk.Metadata.ContextID,
			&chunk.Metadata.SourceFilename, &chunk.Metadata.SourceType, &distance); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunk.Score = 1 - distance
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	idx.logger.Debug("similarity search completed",
		zap.Int("chunks", len(chunks)),
		zap.Int("k", k),
		zap.Int64s("context_ids", contextIDs))

	return chunks, nil
}

var _ Index = (*PgVectorIndex)(nil)
