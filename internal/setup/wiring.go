package setup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careerkb/profile-agent/internal/cache"
	"github.com/careerkb/profile-agent/internal/chunker"
	"github.com/careerkb/profile-agent/internal/embedding"
	"github.com/careerkb/profile-agent/internal/guardrails"
	"github.com/careerkb/profile-agent/internal/ingestion"
	"github.com/careerkb/profile-agent/internal/llm"
	"github.com/careerkb/profile-agent/internal/llm/bedrock"
	"github.com/careerkb/profile-agent/internal/llm/gpt"
	"github.com/careerkb/profile-agent/internal/llm/ollama"
	"github.com/careerkb/profile-agent/internal/pipeline"
	"github.com/careerkb/profile-agent/internal/rewrite"
	"github.com/careerkb/profile-agent/internal/store"
	"github.com/careerkb/profile-agent/internal/vectorindex"
)

// Dependencies holds everything the entry points need after wiring.
type Dependencies struct {
	Pipeline   *pipeline.Pipeline
	Ingest     *ingestion.Service
	Index      vectorindex.Index
	Store      store.Store
	Cache      *cache.RedisAnswerCache
	Guardrails *guardrails.Guardrails
	LLMClient  llm.Client
	Embedder   embedding.Embedder
}

// Wire builds the dependency graph for the configured providers and
// index mode. Flat mode pairs with SQLite metadata, pgvector with
// Postgres, so both halves share one storage decision.
func Wire(ctx context.Context, cfg *Config, logger zerolog.Logger) (*Dependencies, error) {
	embedder, err := createEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	llmClient, err := createLLMClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	index, err := vectorindex.New(vectorindex.Config{
		Mode:          vectorindex.Mode(cfg.IndexMode),
		Dimension:     cfg.EmbeddingDim,
		FlatIndexPath: cfg.FlatIndexPath,
		FlatMetaPath:  cfg.FlatMetaPath,
		PostgresDSN:   cfg.Postgres.ConnectionString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}

	metaStore, err := createStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata store: %w", err)
	}

	prompts, err := LoadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	p := pipeline.New(embedder, index, llmClient, pipeline.Options{
		TopK:                cfg.TopK,
		SimilarityThreshold: cfg.SimilarityThreshold,
		StrictMode:          cfg.StrictMode,
		MaxTokens:           cfg.MaxTokens,
		Temperature:         cfg.Temperature,
		SystemPrompt:        prompts.SystemPrompt,
		EmbedTimeout:        cfg.EmbedTimeout,
		SearchTimeout:       cfg.SearchTimeout,
		CompletionTimeout:   cfg.CompletionTimeout,
	})

	if cfg.RewriteEnabled {
		p = p.WithRewriter(rewrite.NewRewriter(llmClient))
	}

	deps := &Dependencies{
		Pipeline:   p,
		Index:      index,
		Store:      metaStore,
		Guardrails: guardrails.NewGuardrails(llmClient, cfg.GuardrailsLLM),
		LLMClient:  llmClient,
		Embedder:   embedder,
	}

	if cfg.CacheEnabled {
		redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 5)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		answerCache := cache.NewRedisAnswerCache(redisClient, "answer_cache:", cfg.RedisTTL)
		p = p.WithCache(answerCache)
		deps.Cache = answerCache
	}

	ck := chunker.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	deps.Ingest = ingestion.NewService(ck, embedder, index, metaStore, logger)

	return deps, nil
}

func createEmbedder(ctx context.Context, cfg *Config) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "bedrock":
		return embedding.NewBedrock(ctx, cfg.AWSRegion, cfg.TitanModelID)
	case "openai":
		return embedding.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIEmbedModel)
	case "ollama":
		return embedding.NewOllama(cfg.OllamaBaseURL, cfg.OllamaEmbedModel), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.EmbeddingProvider)
	}
}

func createLLMClient(ctx context.Context, cfg *Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case "ollama":
		return ollama.NewClient(cfg.OllamaBaseURL, cfg.OllamaModelID), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
}

func createStore(ctx context.Context, cfg *Config, logger zerolog.Logger) (store.Store, error) {
	switch vectorindex.Mode(cfg.IndexMode) {
	case vectorindex.ModeFlat:
		return store.NewSQLiteStore(cfg.SQLitePath, logger)
	case vectorindex.ModePGVector:
		return store.NewPostgresStore(ctx, cfg.Postgres.ConnectionString(), logger)
	default:
		return nil, fmt.Errorf("unknown vector index mode: %q", cfg.IndexMode)
	}
}
