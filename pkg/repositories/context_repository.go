package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// ContextRepository loads the routing catalog: knowledge contexts and the
// tools registered on them.
type ContextRepository interface {
	ListContexts(ctx context.Context, tenantID int64) ([]models.KnowledgeContext, error)
	ListTools(ctx context.Context, contextIDs []int64) ([]models.ToolDefinition, error)
}

type contextRepository struct {
	pool *pgxpool.Pool
}

// NewContextRepository creates a ContextRepository backed by PostgreSQL.
func NewContextRepository(pool *pgxpool.Pool) ContextRepository {
	return &contextRepository{pool: pool}
}

func (r *contextRepository) ListContexts(ctx context.Context, tenantID int64) ([]models.KnowledgeContext, error) {
	query := `
		SELECT id, tenant_id, name, type, chunk_size, chunk_overlap,
		       connection_id, tables, created_at, updated_at
		FROM engine_contexts
		WHERE tenant_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contexts: %w", err)
	}
	defer rows.Close()

	var contexts []models.KnowledgeContext
	for rows.Next() {
		var c models.KnowledgeContext
		err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Type, &c.ChunkSize,
			&c.ChunkOverlap, &c.ConnectionID, &c.Tables, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan context: %w", err)
		}
		contexts = append(contexts, c)
	}
	return contexts, rows.Err()
}

func (r *contextRepository) ListTools(ctx context.Context, contextIDs []int64) ([]models.ToolDefinition, error) {
	if len(contextIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, context_id, name, description, parameters, created_at
		FROM engine_tools
		WHERE context_id = ANY($1)
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, contextIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	var tools []models.ToolDefinition
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *tool)
	}
	return tools, rows.Err()
}

func scanTool(row pgx.Row) (*models.ToolDefinition, error) {
	var t models.ToolDefinition
	var params []byte
	err := row.Scan(&t.ID, &t.ContextID, &t.Name, &t.Description, &params, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tool: %w", err)
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &t.Parameters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tool parameters: %w", err)
		}
	}
	return &t, nil
}
