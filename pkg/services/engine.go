package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/cache"
	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

// CatalogSource loads the routing catalog for a tenant.
type CatalogSource interface {
	ListContexts(ctx context.Context, tenantID int64) ([]models.KnowledgeContext, error)
	ListTools(ctx context.Context, contextIDs []int64) ([]models.ToolDefinition, error)
}

// AnswerEngine is the entry point for answering one question in a
// conversation.
type AnswerEngine interface {
	// Answer resolves one question end to end: cache lookup, handoff
	// check, routing, pipeline execution, and assembly. It returns an
	// error only for authorization failures; everything else degrades
	// into an apologetic answer so the conversation keeps flowing.
	Answer(ctx context.Context, question string, scope models.TenantScope, state models.ConversationState) (*models.FinalResponse, error)
}

type answerEngine struct {
	catalog   CatalogSource
	cache     *cache.ResponseCache
	router    IntentRouter
	documents DocumentPipeline
	data      SQLPipeline
	handoff   HandoffTrigger
	assembler AnswerAssembler
	logger    *zap.Logger
}

// NewAnswerEngine wires the engine from its collaborators.
func NewAnswerEngine(
	catalog CatalogSource,
	responseCache *cache.ResponseCache,
	router IntentRouter,
	documents DocumentPipeline,
	data SQLPipeline,
	handoff HandoffTrigger,
	assembler AnswerAssembler,
	logger *zap.Logger,
) AnswerEngine {
	return &answerEngine{
		catalog:   catalog,
		cache:     responseCache,
		router:    router,
		documents: documents,
		data:      data,
		handoff:   handoff,
		assembler: assembler,
		logger:    logger.Named("engine"),
	}
}

func (e *answerEngine) Answer(ctx context.Context, question string, scope models.TenantScope, state models.ConversationState) (*models.FinalResponse, error) {
	if scope.Empty() {
		return nil, apperrors.ErrNoAuthorizedContexts
	}

	if e.handoff.ShouldHandoff(state) {
		return e.assembleHandoff(ctx, question, scope), nil
	}

	if cached := e.cache.Get(ctx, scope.TenantID, scope.ContextIDs, question); cached != nil {
		path := models.RoutePath(cached.Path)
		if path == "" {
			// Entries written before the path was persisted.
			path = models.PathDocumentQA
		}
		e.logger.Info("Answer served from cache",
			zap.Int64("tenant_id", scope.TenantID),
			zap.String("path", string(path)))
		return &models.FinalResponse{
			Answer:  cached.AnswerText,
			Sources: cached.Sources,
			Path:    path,
			Cached:  true,
		}, nil
	}

	contexts, err := e.catalog.ListContexts(ctx, scope.TenantID)
	if err != nil {
		e.logger.Error("Failed to load contexts", zap.Int64("tenant_id", scope.TenantID), zap.Error(err))
		return e.degraded(ctx, question, scope, models.RouteDecision{Path: models.PathNoTool}), nil
	}
	tools, err := e.catalog.ListTools(ctx, scope.ContextIDs)
	if err != nil {
		e.logger.Error("Failed to load tools", zap.Int64("tenant_id", scope.TenantID), zap.Error(err))
		return e.degraded(ctx, question, scope, models.RouteDecision{Path: models.PathNoTool}), nil
	}

	decision, err := e.router.Route(ctx, question, state.History, scope, contexts, tools)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoAuthorizedContexts) {
			return nil, err
		}
		e.logger.Error("Routing failed",
			zap.Int64("tenant_id", scope.TenantID),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return e.degraded(ctx, question, scope, models.RouteDecision{Path: models.PathNoTool}), nil
	}

	result, err := e.dispatch(ctx, question, scope, state, decision, contexts, tools)
	if err != nil {
		if errors.Is(err, apperrors.ErrContextAccessDenied) {
			return nil, err
		}
		e.logger.Warn("Pipeline failed, degrading answer",
			zap.Int64("tenant_id", scope.TenantID),
			zap.String("path", string(decision.Path)),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return e.degraded(ctx, question, scope, decision), nil
	}

	return e.assembler.Assemble(ctx, question, scope, decision, result), nil
}

func (e *answerEngine) dispatch(ctx context.Context, question string, scope models.TenantScope, state models.ConversationState, decision models.RouteDecision, contexts []models.KnowledgeContext, tools []models.ToolDefinition) (*models.PipelineResult, error) {
	switch decision.Path {
	case models.PathDocumentQA:
		return e.documents.Answer(ctx, question, scope)
	case models.PathDataQuery:
		kctx := findContext(contexts, decision.ContextID)
		if kctx == nil {
			return nil, fmt.Errorf("context %d: %w", decision.ContextID, apperrors.ErrNotFound)
		}
		req := &SQLQueryRequest{
			Question: question,
			History:  state.History,
			Scope:    scope,
			Context:  *kctx,
		}
		if decision.Tool != nil {
			req.Tool = findTool(tools, decision.Tool.ToolName)
			req.ToolParams = decision.Tool.Parameters
		}
		return e.data.Query(ctx, req)
	default:
		return nil, fmt.Errorf("route %q: %w", decision.Path, apperrors.ErrNotFound)
	}
}

func (e *answerEngine) assembleHandoff(ctx context.Context, question string, scope models.TenantScope) *models.FinalResponse {
	e.logger.Info("Escalating to human", zap.Int64("tenant_id", scope.TenantID))
	decision := models.RouteDecision{Path: models.PathHandoff}
	result := &models.PipelineResult{AnswerText: msgHandoff, Degraded: true}
	response := e.assembler.Assemble(ctx, question, scope, decision, result)
	response.Handoff = true
	return response
}

// degraded produces the technical-problem answer. The internal-error
// marker keeps it out of the cache.
func (e *answerEngine) degraded(ctx context.Context, question string, scope models.TenantScope, decision models.RouteDecision) *models.FinalResponse {
	result := &models.PipelineResult{AnswerText: msgTechnicalProblem, Degraded: true}
	return e.assembler.Assemble(ctx, question, scope, decision, result)
}

func findContext(contexts []models.KnowledgeContext, id int64) *models.KnowledgeContext {
	for i := range contexts {
		if contexts[i].ID == id {
			return &contexts[i]
		}
	}
	return nil
}
