package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/cache"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

// TurnLogger records answered questions for later analysis. Emission
// failures never affect the response path.
type TurnLogger interface {
	Emit(ctx context.Context, turn models.ChatTurn) error
}

// AnswerAssembler builds the final response from a pipeline result,
// writes it through to the cache when it qualifies, and emits the chat
// turn record.
type AnswerAssembler interface {
	Assemble(ctx context.Context, question string, scope models.TenantScope, decision models.RouteDecision, result *models.PipelineResult) *models.FinalResponse
}

type answerAssembler struct {
	cache  *cache.ResponseCache
	turns  TurnLogger
	logger *zap.Logger
}

// NewAnswerAssembler creates an AnswerAssembler. turns may be nil when
// turn logging is disabled.
func NewAnswerAssembler(responseCache *cache.ResponseCache, turns TurnLogger, logger *zap.Logger) AnswerAssembler {
	return &answerAssembler{
		cache:  responseCache,
		turns:  turns,
		logger: logger.Named("assembler"),
	}
}

func (a *answerAssembler) Assemble(ctx context.Context, question string, scope models.TenantScope, decision models.RouteDecision, result *models.PipelineResult) *models.FinalResponse {
	response := &models.FinalResponse{
		Answer:  result.AnswerText,
		Sources: result.Sources,
		Path:    decision.Path,
	}

	if !result.Degraded && cache.Cacheable(result.AnswerText) {
		a.cache.Set(ctx, scope.TenantID, scope.ContextIDs, question, &cache.CachedAnswer{
			AnswerText: result.AnswerText,
			Sources:    result.Sources,
			Path:       string(decision.Path),
		})
	}

	a.emitTurn(ctx, question, scope, decision.Path, result.AnswerText)
	return response
}

// emitTurn records the turn, swallowing failures. Losing a log record is
// acceptable; failing the caller's answer is not.
func (a *answerAssembler) emitTurn(ctx context.Context, question string, scope models.TenantScope, path models.RoutePath, answer string) {
	if a.turns == nil {
		return
	}
	turn := models.ChatTurn{
		TenantID:   scope.TenantID,
		ContextIDs: scope.ContextIDs,
		Question:   question,
		Answer:     answer,
		PathTaken:  path,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.turns.Emit(ctx, turn); err != nil {
		a.logger.Warn("Failed to record chat turn",
			zap.Int64("tenant_id", scope.TenantID),
			zap.Error(err))
	}
}
