package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/adapters/datasource"
	_ "github.com/conversia-ai/answer-engine/pkg/adapters/datasource/mssql"
	_ "github.com/conversia-ai/answer-engine/pkg/adapters/datasource/postgres"
	"github.com/conversia-ai/answer-engine/pkg/audit"
	"github.com/conversia-ai/answer-engine/pkg/cache"
	"github.com/conversia-ai/answer-engine/pkg/config"
	"github.com/conversia-ai/answer-engine/pkg/crypto"
	"github.com/conversia-ai/answer-engine/pkg/database"
	"github.com/conversia-ai/answer-engine/pkg/handlers"
	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/logging"
	"github.com/conversia-ai/answer-engine/pkg/repositories"
	"github.com/conversia-ai/answer-engine/pkg/retry"
	"github.com/conversia-ai/answer-engine/pkg/services"
	"github.com/conversia-ai/answer-engine/pkg/vector"
)

// Version is set at build time via ldflags
var Version = "dev"

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("ai_provider", string(cfg.AI.Provider)))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, migrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	sqlDB.Close() //nolint:errcheck

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	engine, err := buildEngine(cfg, db, redisClient, logger)
	if err != nil {
		logger.Fatal("Failed to build answer engine", zap.Error(err))
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAnswerHandler(engine, logger).RegisterRoutes(mux)

	logger.Info("Starting answer-engine",
		zap.String("port", cfg.Port),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func buildEngine(cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zap.Logger) (services.AnswerEngine, error) {
	model, err := llm.NewFromConfig(&cfg.AI, logger)
	if err != nil {
		return nil, err
	}
	embedder, err := llm.NewEmbedderFromConfig(&cfg.AI, logger)
	if err != nil {
		return nil, err
	}

	vault, err := crypto.NewCredentialVault(cfg.ConnectionCredentialsKey)
	if err != nil {
		return nil, err
	}

	index, err := vector.NewPgVectorIndex(db.Pool, embedder, cfg.Retrieval.ChunkTable, logger)
	if err != nil {
		return nil, err
	}

	var store cache.KeyValueStore
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient)
	}
	responseCache := cache.NewResponseCache(store, time.Duration(cfg.Cache.TTLHours)*time.Hour, logger)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.AI.MaxRetries

	contexts := repositories.NewContextRepository(db.Pool)
	connections := repositories.NewConnectionRepository(db.Pool)
	turns := repositories.NewChatTurnRepository(db.Pool)
	auditor := audit.NewSecurityAuditor(logger)

	router := services.NewIntentRouter(model, retryCfg, logger)
	documents := services.NewDocumentPipeline(index, model, cfg.Retrieval.TopK, retryCfg, logger)
	data := services.NewSQLPipeline(connections, vault, datasource.NewAdapterFactory(), model, auditor, cfg.Query, retryCfg, logger)
	handoff := services.NewHandoffTrigger(services.DefaultFailureThreshold, logger)
	assembler := services.NewAnswerAssembler(responseCache, turns, logger)

	return services.NewAnswerEngine(contexts, responseCache, router, documents, data, handoff, assembler, logger), nil
}
