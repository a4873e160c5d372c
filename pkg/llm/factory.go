package llm

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/config"
)

// NewFromConfig builds the process-wide language model client for the
// configured provider, bounded by the configured per-call timeout. Called
// once at startup; components receive the interface by injection, never
// through ambient globals.
func NewFromConfig(cfg *config.AIConfig, logger *zap.Logger) (LanguageModel, error) {
	clientCfg := &Config{
		Endpoint:       cfg.LLMBaseURL,
		Model:          cfg.LLMModel,
		APIKey:         cfg.LLMAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
	}

	var (
		client LanguageModel
		err    error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client, err = NewOpenAIClient(clientCfg, logger)
	case config.ProviderAnthropic:
		client, err = NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithCallTimeout(client, callTimeout(cfg)), nil
}

// NewEmbedderFromConfig builds the embedding client. Anthropic deployments
// still embed through an OpenAI-compatible endpoint, so this is always an
// OpenAIClient.
func NewEmbedderFromConfig(cfg *config.AIConfig, logger *zap.Logger) (LanguageModel, error) {
	client, err := NewOpenAIClient(&Config{
		Endpoint:       cfg.LLMBaseURL,
		Model:          cfg.LLMModel,
		APIKey:         cfg.LLMAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
	}, logger)
	if err != nil {
		return nil, err
	}
	return WithCallTimeout(client, callTimeout(cfg)), nil
}

func callTimeout(cfg *config.AIConfig) time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}
