package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient provides access to OpenAI-compatible endpoints, including
// local vLLM/Ollama style servers.
type OpenAIClient struct {
	client         *openai.Client
	endpoint       string
	model          string
	embeddingModel string
	logger         *zap.Logger
}

// Config holds configuration for creating a language model client.
type Config struct {
	Endpoint       string // Base URL, e.g. "https://api.openai.com/v1"
	Model          string // Model name, e.g. "gpt-4o-mini"
	APIKey         string // Optional for local endpoints
	EmbeddingModel string // Defaults to text-embedding-3-small
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(cfg *Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(clientConfig),
		endpoint:       cfg.Endpoint,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		logger:         logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a chat completion response.
func (c *OpenAIClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(temperature),
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", NewError(ErrorTypeOutput, "no choices in response", false, nil)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// CreateEmbedding generates an embedding vector for the input text.
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	model := c.embeddingModel
	if model == "" {
		model = "text-embedding-3-small"
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(model),
		Input: []string{input},
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", ClassifyError(err))
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return resp.Data[0].Embedding, nil
}

// GetModel returns the configured model name.
func (c *OpenAIClient) GetModel() string {
	return c.model
}
