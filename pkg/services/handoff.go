package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// DefaultFailureThreshold is how many empty or degraded answers in a row
// escalate the conversation to a human.
const DefaultFailureThreshold = 2

// humanRequestPhrases are matched (lowercased, substring) against the
// latest user message to catch explicit escalation requests.
var humanRequestPhrases = []string{
	"hablar con un asesor",
	"hablar con una persona",
	"hablar con un humano",
	"atencion humana",
	"atención humana",
	"un agente",
	"talk to a human",
	"speak to an agent",
	"human agent",
}

// HandoffTrigger decides when the bot should stop answering and escalate
// to a human operator.
type HandoffTrigger interface {
	ShouldHandoff(state models.ConversationState) bool
}

type handoffTrigger struct {
	failureThreshold int
	logger           *zap.Logger
}

// NewHandoffTrigger creates a HandoffTrigger. A non-positive threshold
// falls back to DefaultFailureThreshold.
func NewHandoffTrigger(failureThreshold int, logger *zap.Logger) HandoffTrigger {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	return &handoffTrigger{
		failureThreshold: failureThreshold,
		logger:           logger.Named("handoff"),
	}
}

func (h *handoffTrigger) ShouldHandoff(state models.ConversationState) bool {
	if state.HumanRequested {
		h.logger.Info("Handoff: caller flagged human request")
		return true
	}
	if state.ConsecutiveFailures >= h.failureThreshold {
		h.logger.Info("Handoff: consecutive failures reached threshold",
			zap.Int("failures", state.ConsecutiveFailures))
		return true
	}
	if msg := lastUserMessage(state.History); msg != "" && asksForHuman(msg) {
		h.logger.Info("Handoff: explicit request detected in message")
		return true
	}
	return false
}

func lastUserMessage(history []models.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}

func asksForHuman(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range humanRequestPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
