package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/config"
)

// PingResponse reports service identity and version.
type PingResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// HealthHandler serves liveness and identity endpoints.
type HealthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	response := PingResponse{
		Status:      "ok",
		Service:     "answer-engine",
		Version:     h.cfg.Version,
		Environment: h.cfg.Env,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
