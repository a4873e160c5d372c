package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/audit"
	"github.com/conversia-ai/answer-engine/pkg/config"
	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/logging"
	"github.com/conversia-ai/answer-engine/pkg/models"
	"github.com/conversia-ai/answer-engine/pkg/prompts"
	"github.com/conversia-ai/answer-engine/pkg/retry"
	sqlval "github.com/conversia-ai/answer-engine/pkg/sql"
)

const (
	sqlGenerationTemperature = 0.0
	resultSummaryTemperature = 0.3
)

// ConnectionSource resolves connection targets for database contexts.
type ConnectionSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ConnectionTarget, error)
}

// CredentialDecrypter recovers plaintext DSNs from stored ciphertext.
type CredentialDecrypter interface {
	Decrypt(encrypted string) (string, error)
}

// SQLQueryRequest carries everything the data-query pipeline needs for
// one question. Tool is set when the router matched a registered tool;
// otherwise the pipeline generates free-form SQL.
type SQLQueryRequest struct {
	Question   string
	History    []models.ChatMessage
	Scope      models.TenantScope
	Context    models.KnowledgeContext
	Tool       *models.ToolDefinition
	ToolParams map[string]string
}

// SQLPipeline answers questions by querying the tenant's databases,
// either through a registered tool routine or model-generated SQL that
// passed the safety gate.
type SQLPipeline interface {
	Query(ctx context.Context, req *SQLQueryRequest) (*models.PipelineResult, error)
}

type sqlPipeline struct {
	connections ConnectionSource
	vault       CredentialDecrypter
	factory     datasource.AdapterFactory
	model       llm.LanguageModel
	auditor     *audit.SecurityAuditor
	queryCfg    config.QueryConfig
	retryCfg    *retry.Config
	logger      *zap.Logger
}

// NewSQLPipeline creates the data-query pipeline.
func NewSQLPipeline(
	connections ConnectionSource,
	vault CredentialDecrypter,
	factory datasource.AdapterFactory,
	model llm.LanguageModel,
	auditor *audit.SecurityAuditor,
	queryCfg config.QueryConfig,
	retryCfg *retry.Config,
	logger *zap.Logger,
) SQLPipeline {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &sqlPipeline{
		connections: connections,
		vault:       vault,
		factory:     factory,
		model:       model,
		auditor:     auditor,
		queryCfg:    queryCfg,
		retryCfg:    retryCfg,
		logger:      logger.Named("sql_pipeline"),
	}
}

func (p *sqlPipeline) Query(ctx context.Context, req *SQLQueryRequest) (*models.PipelineResult, error) {
	if req.Context.ConnectionID == nil {
		return nil, fmt.Errorf("context %d has no connection configured: %w", req.Context.ID, apperrors.ErrNotFound)
	}

	target, err := p.connections.GetByID(ctx, *req.Context.ConnectionID)
	if err != nil {
		return nil, fmt.Errorf("resolve connection: %w", err)
	}
	if target.TenantID != req.Scope.TenantID {
		p.auditor.LogContextViolation(req.Scope.TenantID, audit.ContextViolationDetails{
			RequestedContextID: req.Context.ID,
			AuthorizedContexts: req.Scope.ContextIDs,
		})
		return nil, apperrors.ErrContextAccessDenied
	}

	dsn, err := p.vault.Decrypt(target.EncryptedDSN)
	if err != nil {
		return nil, fmt.Errorf("decrypt connection credentials: %w", err)
	}

	if req.Tool != nil {
		return p.runTool(ctx, req, target, dsn)
	}
	return p.runGeneratedSQL(ctx, req, target, dsn)
}

// runTool normalizes the matched parameters, screens them for injection
// payloads, and calls the registered routine.
func (p *sqlPipeline) runTool(ctx context.Context, req *SQLQueryRequest, target *models.ConnectionTarget, dsn string) (*models.PipelineResult, error) {
	// Screen raw values before transforms can strip the telltale characters.
	for _, param := range req.Tool.Parameters {
		if result := sqlval.CheckParameterForInjection(param.Name, req.ToolParams[param.Name]); result != nil {
			p.auditor.LogInjectionAttempt(req.Scope.TenantID, audit.InjectionDetails{
				ParamName:   result.ParamName,
				ParamValue:  fmt.Sprint(result.ParamValue),
				Fingerprint: result.Fingerprint,
				ToolName:    req.Tool.Name,
			})
			return nil, fmt.Errorf("parameter %q rejected: %w", param.Name, apperrors.ErrUnsafeSQL)
		}
	}

	args, err := ApplyTransforms(req.Tool.Parameters, req.ToolParams)
	if err != nil {
		return nil, err
	}

	executor, err := p.factory.NewQueryExecutor(ctx, target.Dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer executor.Close()

	execCtx, cancel := context.WithTimeout(ctx, p.queryTimeout())
	defer cancel()

	start := time.Now()
	result, err := executor.CallRoutine(execCtx, req.Tool.Name, args)
	if err != nil {
		return nil, p.execError(req.Scope.TenantID, req.Tool.Name, err)
	}

	p.logger.Info("Tool routine executed",
		zap.Int64("tenant_id", req.Scope.TenantID),
		zap.String("tool", req.Tool.Name),
		zap.Int("rows", result.RowCount),
		zap.Duration("elapsed", time.Since(start)))

	return p.summarize(ctx, req, result)
}

// runGeneratedSQL collects the scoped schema, asks the model for a
// statement, gates it through the safety validator, and executes it.
func (p *sqlPipeline) runGeneratedSQL(ctx context.Context, req *SQLQueryRequest, target *models.ConnectionTarget, dsn string) (*models.PipelineResult, error) {
	schemaDDL, err := p.describeSchema(ctx, req, target, dsn)
	if err != nil {
		return nil, err
	}

	prompt := prompts.BuildSQLGenerationPrompt(req.Question, req.History, schemaDDL, target.Dialect, p.queryCfg.DefaultLimit)
	response, err := retry.DoWithResult(ctx, p.retryCfg, func() (string, error) {
		return p.model.GenerateResponse(ctx, prompt, prompts.SQLGenerationSystemMessage, sqlGenerationTemperature)
	})
	if err != nil {
		return nil, fmt.Errorf("sql generation: %w", err)
	}

	if strings.Contains(strings.ToUpper(response), prompts.NoSQLSentinel) {
		return &models.PipelineResult{AnswerText: msgCannotAnswer}, nil
	}

	statement := sanitizeSQLResponse(response)
	validated, err := sqlval.Validate(statement, p.queryCfg.DefaultLimit, p.queryCfg.MaxLimit)
	if err != nil {
		p.auditor.LogUnsafeSQL(req.Scope.TenantID, audit.UnsafeSQLDetails{
			Statement: logging.TruncateString(statement, logging.MaxQueryLogLength),
			Reason:    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnsafeSQL, err)
	}

	executor, err := p.factory.NewQueryExecutor(ctx, target.Dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer executor.Close()

	execCtx, cancel := context.WithTimeout(ctx, p.queryTimeout())
	defer cancel()

	start := time.Now()
	result, err := executor.Query(execCtx, validated.Text, validated.Limit)
	if err != nil {
		return nil, p.execError(req.Scope.TenantID, logging.SanitizeQuery(validated.Text), err)
	}

	p.logger.Info("Generated SQL executed",
		zap.Int64("tenant_id", req.Scope.TenantID),
		zap.Int64("context_id", req.Context.ID),
		zap.Int("rows", result.RowCount),
		zap.Duration("elapsed", time.Since(start)))

	return p.summarize(ctx, req, result)
}

func (p *sqlPipeline) describeSchema(ctx context.Context, req *SQLQueryRequest, target *models.ConnectionTarget, dsn string) (string, error) {
	extractor, err := p.factory.NewSchemaExtractor(ctx, target.Dialect, dsn)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer extractor.Close()

	ddl, err := extractor.DescribeTables(ctx, req.Context.Tables)
	if err != nil {
		return "", fmt.Errorf("%w: schema extraction: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	return ddl, nil
}

// summarize turns a result set into a natural-language answer. Empty
// result sets short-circuit to a deterministic no-data answer so the
// model can never dress up an absence as a fact.
func (p *sqlPipeline) summarize(ctx context.Context, req *SQLQueryRequest, result *datasource.QueryResult) (*models.PipelineResult, error) {
	if result.RowCount == 0 {
		return &models.PipelineResult{AnswerText: msgNoData}, nil
	}

	prompt := prompts.BuildResultSummaryPrompt(req.Question, result.Rows, p.queryCfg.SummaryRowPreview)
	answer, err := retry.DoWithResult(ctx, p.retryCfg, func() (string, error) {
		return p.model.GenerateResponse(ctx, prompt, prompts.ResultSummarySystemMessage, resultSummaryTemperature)
	})
	if err != nil {
		return nil, fmt.Errorf("result summary: %w", err)
	}

	return &models.PipelineResult{
		AnswerText: answer,
		Rows:       result.Rows,
	}, nil
}

func (p *sqlPipeline) execError(tenantID int64, what string, err error) error {
	kind := datasource.ClassifyExecError(err)
	p.logger.Warn("Query execution failed",
		zap.Int64("tenant_id", tenantID),
		zap.String("target", what),
		zap.String("kind", string(kind)),
		zap.Error(err))
	return fmt.Errorf("%w: execution failed (%s)", apperrors.ErrUpstreamUnavailable, kind)
}

func (p *sqlPipeline) queryTimeout() time.Duration {
	if p.queryCfg.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.queryCfg.TimeoutSeconds) * time.Second
}

var sqlFencePattern = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")

// sanitizeSQLResponse strips markdown fences and surrounding prose the
// model sometimes wraps around the statement.
func sanitizeSQLResponse(response string) string {
	if m := sqlFencePattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}
