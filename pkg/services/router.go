package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/models"
	"github.com/conversia-ai/answer-engine/pkg/prompts"
	"github.com/conversia-ai/answer-engine/pkg/retry"
)

const toolSelectionTemperature = 0.0

// IntentRouter decides which pipeline answers a question.
type IntentRouter interface {
	// Route picks exactly one path for the question. Tool matches win over
	// free-form SQL, which wins over document QA. An empty authorized
	// scope fails fast with apperrors.ErrNoAuthorizedContexts.
	Route(ctx context.Context, question string, history []models.ChatMessage, scope models.TenantScope, contexts []models.KnowledgeContext, tools []models.ToolDefinition) (models.RouteDecision, error)
}

type intentRouter struct {
	model    llm.LanguageModel
	retryCfg *retry.Config
	logger   *zap.Logger
}

// NewIntentRouter creates an IntentRouter backed by the given language model.
func NewIntentRouter(model llm.LanguageModel, retryCfg *retry.Config, logger *zap.Logger) IntentRouter {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &intentRouter{
		model:    model,
		retryCfg: retryCfg,
		logger:   logger.Named("router"),
	}
}

func (r *intentRouter) Route(ctx context.Context, question string, history []models.ChatMessage, scope models.TenantScope, contexts []models.KnowledgeContext, tools []models.ToolDefinition) (models.RouteDecision, error) {
	if scope.Empty() {
		return models.RouteDecision{}, apperrors.ErrNoAuthorizedContexts
	}

	authorized := filterAuthorized(contexts, scope)
	if len(authorized) == 0 {
		return models.RouteDecision{}, apperrors.ErrNoAuthorizedContexts
	}

	if len(tools) > 0 {
		if match := r.selectTool(ctx, question, history, scope, tools); match != nil {
			if def := findTool(tools, match.ToolName); def != nil {
				r.logger.Info("Routing to tool",
					zap.Int64("tenant_id", scope.TenantID),
					zap.String("tool", def.Name))
				return models.RouteDecision{
					Path:      models.PathDataQuery,
					Tool:      match,
					ContextID: def.ContextID,
				}, nil
			}
			r.logger.Warn("Model selected unregistered tool, ignoring",
				zap.Int64("tenant_id", scope.TenantID),
				zap.String("tool", match.ToolName))
		}
	}

	if dbCtx := firstOfType(authorized, models.ContextTypeDatabaseQuery); dbCtx != nil {
		r.logger.Info("Routing to free-form data query",
			zap.Int64("tenant_id", scope.TenantID),
			zap.Int64("context_id", dbCtx.ID))
		return models.RouteDecision{
			Path:      models.PathDataQuery,
			ContextID: dbCtx.ID,
		}, nil
	}

	r.logger.Info("Routing to document QA", zap.Int64("tenant_id", scope.TenantID))
	return models.RouteDecision{Path: models.PathDocumentQA}, nil
}

// selectTool asks the model to pick a registered tool. Any failure along
// the way (upstream error after retries, malformed output, sentinel) is a
// no-match, never a user-facing error.
func (r *intentRouter) selectTool(ctx context.Context, question string, history []models.ChatMessage, scope models.TenantScope, tools []models.ToolDefinition) *models.ToolMatch {
	prompt := prompts.BuildToolSelectionPrompt(question, history, tools, scope.CallerIdentityDocument)

	response, err := retry.DoWithResult(ctx, r.retryCfg, func() (string, error) {
		return r.model.GenerateResponse(ctx, prompt, prompts.ToolSelectionSystemMessage, toolSelectionTemperature)
	})
	if err != nil {
		r.logger.Warn("Tool selection call failed, falling through",
			zap.Int64("tenant_id", scope.TenantID),
			zap.Error(err))
		return nil
	}

	// Parse first: a valid match whose tool name happens to contain the
	// sentinel token must not be mistaken for a no-match.
	match, perr := llm.ParseJSONResponse[models.ToolMatch](response)
	if perr == nil && match.ToolName != "" && !strings.EqualFold(match.ToolName, prompts.NoToolSentinel) {
		return &match
	}

	if strings.Contains(strings.ToUpper(response), prompts.NoToolSentinel) {
		return nil
	}

	r.logger.Warn("Tool selection output not parseable, falling through",
		zap.Int64("tenant_id", scope.TenantID),
		zap.Error(perr))
	return nil
}

func filterAuthorized(contexts []models.KnowledgeContext, scope models.TenantScope) []models.KnowledgeContext {
	out := make([]models.KnowledgeContext, 0, len(contexts))
	for _, c := range contexts {
		if c.TenantID == scope.TenantID && scope.Authorizes(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

func firstOfType(contexts []models.KnowledgeContext, t models.ContextType) *models.KnowledgeContext {
	for i := range contexts {
		if contexts[i].Type == t {
			return &contexts[i]
		}
	}
	return nil
}

func findTool(tools []models.ToolDefinition, name string) *models.ToolDefinition {
	for i := range tools {
		if strings.EqualFold(tools[i].Name, name) {
			return &tools[i]
		}
	}
	return nil
}
