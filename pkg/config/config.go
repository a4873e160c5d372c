package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the answer engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Port    string `yaml:"port" env:"PORT" env-default:"8080"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Engine store (PostgreSQL): contexts, tools, document chunks, chat log.
	Database DatabaseConfig `yaml:"database"`

	// Response cache backend.
	Redis RedisConfig `yaml:"redis"`

	// Language model endpoints.
	AI AIConfig `yaml:"ai"`

	// Answer cache behavior.
	Cache CacheConfig `yaml:"cache"`

	// Generated-SQL bounds and execution limits.
	Query QueryConfig `yaml:"query"`

	// Document retrieval behavior.
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Credential encryption key for stored connection secrets.
	// Must be a 32-byte key, base64 encoded. Generate with: openssl rand -base64 32
	ConnectionCredentialsKey string `yaml:"-" env:"CONNECTION_CREDENTIALS_KEY"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL configuration for the engine's own store.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"engine"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"answer_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig holds Redis configuration for the response cache.
// An empty host disables the cache entirely (the engine recomputes every answer).
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// AIProvider selects the language model client implementation.
// The provider is chosen once at startup, not per request.
type AIProvider string

const (
	ProviderOpenAI    AIProvider = "openai"
	ProviderAnthropic AIProvider = "anthropic"
)

// AIConfig holds language model endpoint configuration.
type AIConfig struct {
	Provider       AIProvider `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	LLMBaseURL     string     `yaml:"llm_base_url" env:"AI_LLM_BASE_URL" env-default:"https://api.openai.com/v1"`
	LLMModel       string     `yaml:"llm_model" env:"AI_LLM_MODEL" env-default:"gpt-4o-mini"`
	LLMAPIKey      string     `yaml:"-" env:"AI_LLM_API_KEY"` // Secret - not in YAML
	EmbeddingModel string     `yaml:"embedding_model" env:"AI_EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	// TimeoutSeconds bounds every model call.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"AI_TIMEOUT_SECONDS" env-default:"60"`
	// MaxRetries bounds retries on transient network failures only.
	MaxRetries int `yaml:"max_retries" env:"AI_MAX_RETRIES" env-default:"2"`
}

// CacheConfig holds answer cache behavior.
type CacheConfig struct {
	// TTLHours is how long computed answers are kept.
	TTLHours int `yaml:"ttl_hours" env:"CACHE_TTL_HOURS" env-default:"6"`
}

// QueryConfig holds generated-SQL bounds.
type QueryConfig struct {
	// DefaultLimit is injected when generated SQL is missing a LIMIT clause.
	DefaultLimit int `yaml:"default_limit" env:"QUERY_DEFAULT_LIMIT" env-default:"100"`
	// MaxLimit caps any LIMIT the model produced.
	MaxLimit int `yaml:"max_limit" env:"QUERY_MAX_LIMIT" env-default:"500"`
	// TimeoutSeconds bounds execution against target databases.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"QUERY_TIMEOUT_SECONDS" env-default:"30"`
	// SummaryRowPreview is how many result rows are shown to the model
	// when summarizing.
	SummaryRowPreview int `yaml:"summary_row_preview" env:"QUERY_SUMMARY_ROW_PREVIEW" env-default:"10"`
}

// RetrievalConfig holds document retrieval behavior.
type RetrievalConfig struct {
	// TopK is how many chunks similarity search returns.
	TopK int `yaml:"top_k" env:"RETRIEVAL_TOP_K" env-default:"6"`
	// ChunkTable is the pgvector-backed table holding document chunks.
	ChunkTable string `yaml:"chunk_table" env:"RETRIEVAL_CHUNK_TABLE" env-default:"engine_document_chunks"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that cleanenv cannot express.
func (c *Config) Validate() error {
	if c.Query.DefaultLimit <= 0 {
		return fmt.Errorf("query.default_limit must be positive, got %d", c.Query.DefaultLimit)
	}
	if c.Query.MaxLimit < c.Query.DefaultLimit {
		return fmt.Errorf("query.max_limit (%d) must be >= query.default_limit (%d)",
			c.Query.MaxLimit, c.Query.DefaultLimit)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.AI.Provider != ProviderOpenAI && c.AI.Provider != ProviderAnthropic {
		return fmt.Errorf("ai.provider must be %q or %q, got %q",
			ProviderOpenAI, ProviderAnthropic, c.AI.Provider)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string for the engine store.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
