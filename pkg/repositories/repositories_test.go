package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/models"
	"github.com/conversia-ai/answer-engine/pkg/testhelpers"
)

func TestContextRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	const tenantID = int64(7001)

	connRepo := NewConnectionRepository(db.Pool)
	conn := &models.ConnectionTarget{
		TenantID:     tenantID,
		Name:         "ventas-db",
		Dialect:      models.DialectPostgres,
		EncryptedDSN: "opaque-ciphertext",
	}
	require.NoError(t, connRepo.Create(ctx, conn))

	var docCtxID, dbCtxID int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO engine_contexts (tenant_id, name, type)
		VALUES ($1, 'manuales', 'DOCUMENTAL') RETURNING id`, tenantID).Scan(&docCtxID)
	require.NoError(t, err)
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO engine_contexts (tenant_id, name, type, connection_id, tables)
		VALUES ($1, 'ventas', 'DATABASE_QUERY', $2, $3) RETURNING id`,
		tenantID, conn.ID, []string{"ventas", "clientes"}).Scan(&dbCtxID)
	require.NoError(t, err)

	repo := NewContextRepository(db.Pool)

	contexts, err := repo.ListContexts(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, contexts, 2)
	assert.Equal(t, models.ContextTypeDocumental, contexts[0].Type)
	assert.Equal(t, models.ContextTypeDatabaseQuery, contexts[1].Type)
	require.NotNil(t, contexts[1].ConnectionID)
	assert.Equal(t, conn.ID, *contexts[1].ConnectionID)
	assert.Equal(t, []string{"ventas", "clientes"}, contexts[1].Tables)

	other, err := repo.ListContexts(ctx, tenantID+1)
	require.NoError(t, err)
	assert.Empty(t, other, "contexts must be tenant-scoped")

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO engine_tools (id, context_id, name, description, parameters)
		VALUES ($1, $2, 'fn_get_balance', 'saldo del cliente',
		        '[{"name":"dni","type":"text","transform":"identity_document"}]')`,
		uuid.New(), dbCtxID)
	require.NoError(t, err)

	tools, err := repo.ListTools(ctx, []int64{docCtxID, dbCtxID})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "fn_get_balance", tools[0].Name)
	require.Len(t, tools[0].Parameters, 1)
	assert.Equal(t, models.TransformIdentityDocument, tools[0].Parameters[0].Transform)

	tools, err = repo.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestConnectionRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	repo := NewConnectionRepository(db.Pool)
	conn := &models.ConnectionTarget{
		TenantID:     7002,
		Name:         "informes",
		Dialect:      models.DialectMSSQL,
		EncryptedDSN: "ciphertext",
	}
	require.NoError(t, repo.Create(ctx, conn))
	assert.NotEqual(t, uuid.Nil, conn.ID)

	got, err := repo.GetByID(ctx, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DialectMSSQL, got.Dialect)
	assert.Equal(t, "ciphertext", got.EncryptedDSN)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := repo.ListByTenant(ctx, 7002)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestChatTurnRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	repo := NewChatTurnRepository(db.Pool)
	turn := models.ChatTurn{
		TenantID:   7003,
		ContextIDs: []int64{1, 2},
		Question:   "¿Cuál es mi saldo?",
		Answer:     "Tu saldo es 100",
		PathTaken:  models.PathDataQuery,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Emit(ctx, turn))

	turns, err := repo.ListRecent(ctx, 7003, 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "¿Cuál es mi saldo?", turns[0].Question)
	assert.Equal(t, models.PathDataQuery, turns[0].PathTaken)
	assert.Equal(t, []int64{1, 2}, turns[0].ContextIDs)
}
