package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// ChatTurnRepository persists answered questions for later analysis.
type ChatTurnRepository interface {
	Emit(ctx context.Context, turn models.ChatTurn) error
	ListRecent(ctx context.Context, tenantID int64, limit int) ([]models.ChatTurn, error)
}

type chatTurnRepository struct {
	pool *pgxpool.Pool
}

// NewChatTurnRepository creates a ChatTurnRepository backed by PostgreSQL.
func NewChatTurnRepository(pool *pgxpool.Pool) ChatTurnRepository {
	return &chatTurnRepository{pool: pool}
}

func (r *chatTurnRepository) Emit(ctx context.Context, turn models.ChatTurn) error {
	query := `
		INSERT INTO engine_chat_turns (tenant_id, context_ids, question, answer, path_taken, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		turn.TenantID, turn.ContextIDs, turn.Question, turn.Answer, turn.PathTaken, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record chat turn: %w", err)
	}
	return nil
}

func (r *chatTurnRepository) ListRecent(ctx context.Context, tenantID int64, limit int) ([]models.ChatTurn, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT tenant_id, context_ids, question, answer, path_taken, created_at
		FROM engine_chat_turns
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ChatTurn
	for rows.Next() {
		var t models.ChatTurn
		err := rows.Scan(&t.TenantID, &t.ContextIDs, &t.Question, &t.Answer, &t.PathTaken, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
