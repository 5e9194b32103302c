// Package setup loads configuration from the environment and wires the
// service dependencies together.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type Config struct {
	Port     string
	LogLevel string

	// Providers
	LLMProvider       string
	EmbeddingProvider string
	AWSRegion         string
	ClaudeModelID     string
	TitanModelID      string
	OpenAIKey         string
	OpenAIModelID     string
	OpenAIEmbedModel  string
	OllamaBaseURL     string
	OllamaModelID     string
	OllamaEmbedModel  string

	// Vector index and metadata storage
	IndexMode     string
	EmbeddingDim  int
	FlatIndexPath string
	FlatMetaPath  string
	SQLitePath    string
	Postgres      PostgresConfig

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopK                int
	SimilarityThreshold float64
	StrictMode          bool
	MaxTokens           int
	Temperature         float64
	RewriteEnabled      bool
	GuardrailsLLM       bool

	// Per-stage deadlines
	EmbedTimeout      time.Duration
	SearchTimeout     time.Duration
	CompletionTimeout time.Duration

	// Answer cache
	CacheEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Port:     getEnv("API_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:       getEnv("LLM_PROVIDER", "bedrock"),
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "bedrock"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
		TitanModelID:      getEnv("TITAN_EMBED_MODEL_ID", "amazon.titan-embed-text-v2:0"),
		OpenAIKey:         getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:     getEnv("OPEN_AI_MODEL_ID", "gpt-4o-mini"),
		OpenAIEmbedModel:  getEnv("OPEN_AI_EMBED_MODEL_ID", "text-embedding-3-small"),
		OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModelID:     getEnv("OLLAMA_MODEL_ID", "llama3"),
		OllamaEmbedModel:  getEnv("OLLAMA_EMBED_MODEL_ID", "nomic-embed-text"),

		IndexMode:     getEnv("VECTOR_INDEX_MODE", "flat"),
		EmbeddingDim:  getEnvInt("EMBEDDING_DIMENSION", 1536),
		FlatIndexPath: getEnv("FLAT_INDEX_PATH", "data/index.json"),
		FlatMetaPath:  getEnv("FLAT_META_PATH", "data/index_meta.json"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/metadata.db"),
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "profile_agent"),
			SSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		},

		ChunkSize:    getEnvInt("CHUNK_SIZE", 400),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 80),

		TopK:                getEnvInt("TOP_K", 5),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.30),
		StrictMode:          getEnvBool("STRICT_MODE", true),
		MaxTokens:           getEnvInt("MAX_TOKENS", 1024),
		Temperature:         getEnvFloat("TEMPERATURE", 0.0),
		RewriteEnabled:      getEnvBool("QUERY_REWRITE_ENABLED", false),
		GuardrailsLLM:       getEnvBool("GUARDRAILS_LLM_ENABLED", false),

		EmbedTimeout:      getEnvDuration("EMBED_TIMEOUT", 30*time.Second),
		SearchTimeout:     getEnvDuration("SEARCH_TIMEOUT", 10*time.Second),
		CompletionTimeout: getEnvDuration("COMPLETION_TIMEOUT", 60*time.Second),

		CacheEnabled:  getEnvBool("CACHE_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTTL:      getEnvDuration("REDIS_TTL", 30*time.Minute),
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
