package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/models"
	"github.com/conversia-ai/answer-engine/pkg/retry"
)

func fastRetry() *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.InitialDelay = 0
	cfg.MaxRetries = 1
	return cfg
}

func routerFixture() (models.TenantScope, []models.KnowledgeContext, []models.ToolDefinition) {
	connID := uuid.New()
	scope := models.TenantScope{
		TenantID:               7,
		ContextIDs:             []int64{5, 9},
		CallerIdentityDocument: "71455461",
	}
	contexts := []models.KnowledgeContext{
		{ID: 5, TenantID: 7, Name: "manuales", Type: models.ContextTypeDocumental},
		{ID: 9, TenantID: 7, Name: "ventas", Type: models.ContextTypeDatabaseQuery, ConnectionID: &connID},
	}
	tools := []models.ToolDefinition{
		{
			ID:        uuid.New(),
			ContextID: 9,
			Name:      "fn_get_balance",
			Parameters: []models.ToolParameter{
				{Name: "dni", Type: "text", Transform: models.TransformIdentityDocument},
			},
		},
	}
	return scope, contexts, tools
}

func TestRoute_EmptyScopeFailsFast(t *testing.T) {
	model := llm.NewMockLanguageModel()
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	_, err := r.Route(context.Background(), "¿Cuál es mi saldo?", nil, models.TenantScope{TenantID: 7}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAuthorizedContexts)
	assert.Zero(t, model.GenerateResponseCalls, "no model call may happen before the permission check")
}

func TestRoute_ToolMatchWins(t *testing.T) {
	scope, contexts, tools := routerFixture()
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `{"tool": "fn_get_balance", "parameters": {"dni": "71455461"}}`, nil
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "¿Cuál es mi saldo?", nil, scope, contexts, tools)
	require.NoError(t, err)
	assert.Equal(t, models.PathDataQuery, decision.Path)
	require.NotNil(t, decision.Tool)
	assert.Equal(t, "fn_get_balance", decision.Tool.ToolName)
	assert.Equal(t, "71455461", decision.Tool.Parameters["dni"])
	assert.Equal(t, int64(9), decision.ContextID)
}

func TestRoute_ToolNameContainingSentinelStillMatches(t *testing.T) {
	scope, contexts, tools := routerFixture()
	tools = append(tools, models.ToolDefinition{
		ID:        uuid.New(),
		ContextID: 9,
		Name:      "fn_estado_no_tooling",
	})
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `{"tool": "fn_estado_no_tooling", "parameters": {}}`, nil
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "estado de mi pedido", nil, scope, contexts, tools)
	require.NoError(t, err)
	assert.Equal(t, models.PathDataQuery, decision.Path)
	require.NotNil(t, decision.Tool, "a valid match must not be mistaken for the no-tool sentinel")
	assert.Equal(t, "fn_estado_no_tooling", decision.Tool.ToolName)
}

func TestRoute_SentinelAsToolNameIsNoMatch(t *testing.T) {
	scope, contexts, tools := routerFixture()
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `{"tool": "NO_TOOL", "parameters": {}}`, nil
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "ventas del mes", nil, scope, contexts, tools)
	require.NoError(t, err)
	assert.Equal(t, models.PathDataQuery, decision.Path)
	assert.Nil(t, decision.Tool)
}

func TestRoute_NoToolSentinelFallsToDatabaseContext(t *testing.T) {
	scope, contexts, tools := routerFixture()
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "NO_TOOL", nil
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "ventas del mes pasado", nil, scope, contexts, tools)
	require.NoError(t, err)
	assert.Equal(t, models.PathDataQuery, decision.Path)
	assert.Nil(t, decision.Tool)
	assert.Equal(t, int64(9), decision.ContextID)
}

func TestRoute_MalformedModelOutputIsNoMatch(t *testing.T) {
	scope, contexts, tools := routerFixture()
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "I think the user wants something but I'm not sure", nil
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "pregunta", nil, scope, contexts, tools)
	require.NoError(t, err, "malformed output must never surface as an error")
	assert.Equal(t, models.PathDataQuery, decision.Path)
	assert.Nil(t, decision.Tool)
}

func TestRoute_UnregisteredToolIsIgnored(t *testing.T) {
	scope, contexts, tools := routerFixture()
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `{"tool": "fn_made_up", "parameters": {}}`, nil
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "pregunta", nil, scope, contexts, tools)
	require.NoError(t, err)
	assert.Nil(t, decision.Tool)
}

func TestRoute_ModelFailureFallsThrough(t *testing.T) {
	scope, contexts, tools := routerFixture()
	model := llm.NewMockLanguageModel()
	model.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "", errors.New("connection refused")
	}
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "pregunta", nil, scope, contexts, tools)
	require.NoError(t, err)
	assert.Equal(t, models.PathDataQuery, decision.Path)
	assert.Nil(t, decision.Tool)
	assert.Equal(t, 2, model.GenerateResponseCalls, "transient failure is retried once")
}

func TestRoute_DocumentQAWhenNoDatabaseContext(t *testing.T) {
	scope := models.TenantScope{TenantID: 7, ContextIDs: []int64{5}}
	contexts := []models.KnowledgeContext{
		{ID: 5, TenantID: 7, Type: models.ContextTypeDocumental},
	}
	model := llm.NewMockLanguageModel()
	r := NewIntentRouter(model, fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "¿Qué dice el manual?", nil, scope, contexts, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PathDocumentQA, decision.Path)
	assert.Zero(t, model.GenerateResponseCalls, "no tools registered, no selection call")
}

func TestRoute_ForeignContextsAreInvisible(t *testing.T) {
	scope := models.TenantScope{TenantID: 7, ContextIDs: []int64{9}}
	contexts := []models.KnowledgeContext{
		{ID: 9, TenantID: 99, Type: models.ContextTypeDatabaseQuery}, // other tenant
	}
	r := NewIntentRouter(llm.NewMockLanguageModel(), fastRetry(), zap.NewNop())

	_, err := r.Route(context.Background(), "pregunta", nil, scope, contexts, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAuthorizedContexts)
}

func TestRoute_UnauthorizedContextIDsAreFiltered(t *testing.T) {
	scope := models.TenantScope{TenantID: 7, ContextIDs: []int64{5}}
	contexts := []models.KnowledgeContext{
		{ID: 5, TenantID: 7, Type: models.ContextTypeDocumental},
		{ID: 9, TenantID: 7, Type: models.ContextTypeDatabaseQuery}, // not granted
	}
	r := NewIntentRouter(llm.NewMockLanguageModel(), fastRetry(), zap.NewNop())

	decision, err := r.Route(context.Background(), "pregunta", nil, scope, contexts, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PathDocumentQA, decision.Path, "ungranted database context must not be selectable")
}
