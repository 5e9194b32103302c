package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/careerkb/profile-agent/internal/setup"
	"github.com/careerkb/profile-agent/internal/setup/logger"
)

// One-shot question answering from the command line, running the same
// retrieval pipeline the API serves.
func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	question := flag.String("question", "", "Question to answer")
	flag.Parse()

	if *question == "" {
		log.Fatal().Msg("-question is required")
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

	result, err := deps.Pipeline.Run(ctx, *question)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to answer question")
	}

	fmt.Println(result.Answer)
	if len(result.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, citation := range result.Citations {
			fmt.Printf("  [%d] %s\n", citation.Index, citation.SourceLabel)
		}
	}
	if !result.HasEvidence {
		log.Warn().Msg("No relevant passages found in the knowledge base")
	}
}
