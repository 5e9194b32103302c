package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/careerkb/profile-agent/internal/api"
	"github.com/careerkb/profile-agent/internal/middleware"
	"github.com/careerkb/profile-agent/internal/setup"
	"github.com/careerkb/profile-agent/internal/setup/logger"
)

const version = "1.0.0"

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Profile Agent API",
			Description: "Retrieval-augmented QA over a professional profile knowledge base",
			Version:     version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Question answering"}},
		{TagProps: spec.TagProps{Name: "documents", Description: "Document management"}},
		{TagProps: spec.TagProps{Name: "admin", Description: "Administrative operations"}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting Profile Agent API Server")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	appLogger := logger.New(cfg.LogLevel)

	ctx := context.Background()
	deps, err := setup.Wire(ctx, cfg, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Store.Close()

	log.Info().
		Str("index_mode", cfg.IndexMode).
		Str("embedding_provider", cfg.EmbeddingProvider).
		Str("llm_provider", cfg.LLMProvider).
		Bool("strict_mode", cfg.StrictMode).
		Msg("Dependencies wired")

	handler := api.NewHandler(deps.Pipeline, deps.Ingest, api.HealthResponse{
		Status:            "ok",
		Version:           version,
		IndexMode:         cfg.IndexMode,
		EmbeddingProvider: cfg.EmbeddingProvider,
		LLMProvider:       cfg.LLMProvider,
	})
	handler = handler.WithGuardrails(deps.Guardrails)
	if deps.Cache != nil {
		handler = handler.WithCacheAdmin(deps.Cache)
	}

	container := restful.NewContainer()

	// Add filters
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	// register API
	api.RegisterRoutes(container, handler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("address", addr).Msg("Starting server")

	server := http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(container),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
