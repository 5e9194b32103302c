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

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	insertDocCommand := flag.Bool("insert-doc", false, "Ingest a document from disk")
	filePath := flag.String("filePath", "", "Path to a .txt or .md document")

	deleteDocCommand := flag.Bool("delete-doc", false, "Delete an indexed document")
	documentID := flag.String("doc-id", "", "Document id to delete")

	getAllDocsCommand := flag.Bool("get-docs", false, "List indexed documents")

	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Unable to load env variables")
	}

	cfg := setup.LoadConfig()
	appLogger := logger.New(cfg.LogLevel)

	ctx := context.Background()
	deps, err := setup.Wire(ctx, cfg, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Store.Close()

	switch {
	case *insertDocCommand:
		if *filePath == "" {
			log.Fatal().Msg("-filePath is required with -insert-doc")
		}
		result, err := deps.Ingest.IngestFile(ctx, *filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Ingestion failed")
		}
		if result.Deduplicated {
			log.Info().Str("document_id", result.DocumentID).Msg("Document already indexed")
			return
		}
		log.Info().
			Str("document_id", result.DocumentID).
			Int("chunks", result.ChunksAdded).
			Msg("Ingestion successful")

	case *deleteDocCommand:
		if *documentID == "" {
			log.Fatal().Msg("-doc-id is required with -delete-doc")
		}
		if err := deps.Ingest.DeleteDocument(ctx, *documentID); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete document")
		}
		log.Info().Str("document_id", *documentID).Msg("Document deleted")

	case *getAllDocsCommand:
		docs, err := deps.Ingest.ListDocuments(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to fetch documents")
		}
		for _, doc := range docs {
			log.Info().
				Str("document_id", doc.ID).
				Str("filename", doc.Filename).
				Int("chunks", doc.ChunkCount).
				Time("created_at", doc.CreatedAt).
				Msg("Document")
		}

	default:
		log.Fatal().Msg("Unsupported command, use -insert-doc, -delete-doc or -get-docs")
	}
}
