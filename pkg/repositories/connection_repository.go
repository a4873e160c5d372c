package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

// ConnectionRepository stores connection targets. DSNs are encrypted
// before they reach this layer and stay opaque here.
type ConnectionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ConnectionTarget, error)
	Create(ctx context.Context, conn *models.ConnectionTarget) error
	ListByTenant(ctx context.Context, tenantID int64) ([]models.ConnectionTarget, error)
}

type connectionRepository struct {
	pool *pgxpool.Pool
}

// NewConnectionRepository creates a ConnectionRepository backed by PostgreSQL.
func NewConnectionRepository(pool *pgxpool.Pool) ConnectionRepository {
	return &connectionRepository{pool: pool}
}

func (r *connectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ConnectionTarget, error) {
	query := `
		SELECT id, tenant_id, name, dialect, encrypted_dsn, created_at, updated_at
		FROM engine_connections
		WHERE id = $1`

	var c models.ConnectionTarget
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Dialect, &c.EncryptedDSN, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("connection %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &c, nil
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.ConnectionTarget) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}

	query := `
		INSERT INTO engine_connections (id, tenant_id, name, dialect, encrypted_dsn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`

	_, err := r.pool.Exec(ctx, query, conn.ID, conn.TenantID, conn.Name, conn.Dialect, conn.EncryptedDSN)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *connectionRepository) ListByTenant(ctx context.Context, tenantID int64) ([]models.ConnectionTarget, error) {
	query := `
		SELECT id, tenant_id, name, dialect, encrypted_dsn, created_at, updated_at
		FROM engine_connections
		WHERE tenant_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []models.ConnectionTarget
	for rows.Next() {
		var c models.ConnectionTarget
		err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Dialect, &c.EncryptedDSN, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}
