package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/models"
	"github.com/conversia-ai/answer-engine/pkg/services"
)

// AnswerRequest is the payload for POST /v1/answer.
type AnswerRequest struct {
	TenantID               int64                `json:"tenant_id"`
	ContextIDs             []int64              `json:"context_ids"`
	CallerIdentityDocument string               `json:"caller_identity_document,omitempty"`
	Question               string               `json:"question"`
	History                []models.ChatMessage `json:"history,omitempty"`
	ConsecutiveFailures    int                  `json:"consecutive_failures,omitempty"`
	HumanRequested         bool                 `json:"human_requested,omitempty"`
}

// AnswerHandler exposes the answer engine over HTTP.
type AnswerHandler struct {
	engine services.AnswerEngine
	logger *zap.Logger
}

// NewAnswerHandler creates an AnswerHandler.
func NewAnswerHandler(engine services.AnswerEngine, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{engine: engine, logger: logger.Named("answer_handler")}
}

// RegisterRoutes registers the answer handler's routes on the given mux.
func (h *AnswerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/answer", h.Answer)
}

// Answer handles POST /v1/answer requests.
func (h *AnswerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	scope := models.TenantScope{
		TenantID:               req.TenantID,
		ContextIDs:             req.ContextIDs,
		CallerIdentityDocument: req.CallerIdentityDocument,
	}
	state := models.ConversationState{
		History:             req.History,
		ConsecutiveFailures: req.ConsecutiveFailures,
		HumanRequested:      req.HumanRequested,
	}

	response, err := h.engine.Answer(r.Context(), req.Question, scope, state)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoAuthorizedContexts):
			_ = ErrorResponse(w, http.StatusForbidden, "no_authorized_contexts",
				"the caller has no authorized knowledge contexts")
		case errors.Is(err, apperrors.ErrContextAccessDenied):
			_ = ErrorResponse(w, http.StatusForbidden, "context_access_denied",
				"the requested context belongs to another tenant")
		default:
			h.logger.Error("Answer failed", zap.Int64("tenant_id", req.TenantID), zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error",
				"failed to answer the question")
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode answer response", zap.Error(err))
	}
}
