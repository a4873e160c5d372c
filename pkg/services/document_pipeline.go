package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/models"
	"github.com/conversia-ai/answer-engine/pkg/prompts"
	"github.com/conversia-ai/answer-engine/pkg/retry"
	"github.com/conversia-ai/answer-engine/pkg/vector"
)

const documentAnswerTemperature = 0.2

// DocumentPipeline answers questions from the tenant's document corpus.
type DocumentPipeline interface {
	Answer(ctx context.Context, question string, scope models.TenantScope) (*models.PipelineResult, error)
}

type documentPipeline struct {
	index    vector.Index
	model    llm.LanguageModel
	topK     int
	retryCfg *retry.Config
	logger   *zap.Logger
}

// NewDocumentPipeline creates a DocumentPipeline over the given vector index.
func NewDocumentPipeline(index vector.Index, model llm.LanguageModel, topK int, retryCfg *retry.Config, logger *zap.Logger) DocumentPipeline {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &documentPipeline{
		index:    index,
		model:    model,
		topK:     topK,
		retryCfg: retryCfg,
		logger:   logger.Named("document_pipeline"),
	}
}

func (p *documentPipeline) Answer(ctx context.Context, question string, scope models.TenantScope) (*models.PipelineResult, error) {
	if scope.Empty() {
		return nil, apperrors.ErrNoAuthorizedContexts
	}

	start := time.Now()
	chunks, err := p.index.SimilaritySearch(ctx, question, scope.ContextIDs, p.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	p.logger.Debug("Retrieved chunks",
		zap.Int64("tenant_id", scope.TenantID),
		zap.Int("count", len(chunks)),
		zap.Duration("elapsed", time.Since(start)))

	prompt := prompts.BuildDocumentAnswerPrompt(question, chunks)
	answer, err := retry.DoWithResult(ctx, p.retryCfg, func() (string, error) {
		return p.model.GenerateResponse(ctx, prompt, prompts.DocumentAnswerSystemMessage, documentAnswerTemperature)
	})
	if err != nil {
		return nil, fmt.Errorf("answer synthesis: %w", err)
	}

	return &models.PipelineResult{
		AnswerText: answer,
		Sources:    collectSources(chunks),
	}, nil
}

// collectSources returns the distinct source filenames of the retrieved
// chunks, preserving retrieval (relevance) order.
func collectSources(chunks []models.DocumentChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var sources []string
	for _, c := range chunks {
		name := c.Metadata.SourceFilename
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}
	return sources
}
