package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/careerkb/profile-agent/internal/setup"
	"github.com/careerkb/profile-agent/internal/setup/logger"
)

// Direct index query without the LLM stage, useful for inspecting what
// the retriever would hand to the completion step.
func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	query := flag.String("query", "", "Text to search for")
	topK := flag.Int("topK", 5, "Number of results")
	flag.Parse()

	if *query == "" {
		log.Fatal().Msg("-query is required")
	}

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

	vector, err := deps.Embedder.EmbedOne(ctx, *query)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to embed query")
	}

	results, err := deps.Index.Search(ctx, vector, *topK)
	if err != nil {
		log.Fatal().Err(err).Msg("Search failed")
	}

	if len(results) == 0 {
		log.Info().Msg("No results")
		return
	}
	for i, result := range results {
		log.Info().
			Int("rank", i+1).
			Int64("chunk_id", result.ChunkID).
			Str("source", result.SourceLabel).
			Float64("score", result.Score).
			Str("text", result.Text).
			Msg("Result")
	}
}
