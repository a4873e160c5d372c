package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// anthropicMaxTokens bounds completion length for all Anthropic calls.
const anthropicMaxTokens = 2000

// AnthropicClient provides access to the Anthropic Messages API.
// Anthropic has no embeddings endpoint; deployments using this provider pair
// it with an OpenAI-compatible embedding client (see Factory).
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a chat completion response.
func (c *AnthropicClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	temp := float32(temperature)

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      systemMessage,
		MaxTokens:   anthropicMaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	text := firstTextBlock(resp)
	if text == "" {
		return "", NewError(ErrorTypeOutput, "no text content in response", false, nil)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.InputTokens),
		zap.Int("completion_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// CreateEmbedding is not supported by the Anthropic API.
func (c *AnthropicClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	return nil, fmt.Errorf("anthropic provider has no embeddings endpoint; configure an embedding client")
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

func firstTextBlock(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
