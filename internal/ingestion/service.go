// Package ingestion turns raw documents into indexed, searchable chunks.
// It owns the document lifecycle: parse, chunk, embed, persist metadata,
// index vectors, and the reverse path on delete.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careerkb/profile-agent/internal/chunker"
	"github.com/careerkb/profile-agent/internal/embedding"
	"github.com/careerkb/profile-agent/internal/errs"
	"github.com/careerkb/profile-agent/internal/store"
	"github.com/careerkb/profile-agent/internal/vectorindex"
)

type Service struct {
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	index    vectorindex.Index
	store    store.Store
	logger   zerolog.Logger
}

// Result summarizes one ingestion. Deduplicated means the exact document
// content was already indexed and nothing was written.
type Result struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	ChunksAdded  int    `json:"chunks_added"`
	Deduplicated bool   `json:"deduplicated"`
}

func NewService(
	ck *chunker.Chunker,
	embedder embedding.Embedder,
	index vectorindex.Index,
	st store.Store,
	logger zerolog.Logger,
) *Service {
	return &Service{
		chunker:  ck,
		embedder: embedder,
		index:    index,
		store:    st,
		logger:   logger,
	}
}

// IngestText chunks, embeds and indexes one document. Re-submitting
// byte-identical content is a no-op reported via Result.Deduplicated.
func (s *Service) IngestText(ctx context.Context, filename, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Wrap(errs.ErrUnsupportedInput, fmt.Errorf("document %q is empty", filename))
	}

	docHash := hashContent(text)
	existing, err := s.store.FindDocumentByHash(ctx, docHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info().
			Str("document_id", existing.ID).
			Str("filename", filename).
			Msg("Document already indexed, skipping")
		return &Result{
			DocumentID:   existing.ID,
			Filename:     existing.Filename,
			ChunksAdded:  0,
			Deduplicated: true,
		}, nil
	}

	chunks := s.chunker.ChunkDocument(text, filename)
	if len(chunks) == 0 {
		return nil, errs.Wrap(errs.ErrUnsupportedInput,
			fmt.Errorf("document %q produced no chunks", filename))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, errs.Wrap(errs.ErrEmbedding,
			fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	doc := &store.Document{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentHash: docHash,
		ChunkCount:  len(chunks),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	records := make([]store.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = store.ChunkRecord{
			DocumentID:  doc.ID,
			ChunkIndex:  c.ChunkIndex,
			Text:        c.Text,
			SourceLabel: c.SourceLabel,
		}
	}
	ids, err := s.store.InsertChunks(ctx, doc.ID, records)
	if err != nil {
		return nil, err
	}

	for i, c := range chunks {
		if err := s.index.Add(ctx, ids[i], c.Text, c.SourceLabel, vectors[i]); err != nil {
			return nil, err
		}
	}
	if err := s.index.Flush(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("document_id", doc.ID).
		Str("filename", filename).
		Int("chunks", len(chunks)).
		Msg("Document ingested")

	return &Result{
		DocumentID:  doc.ID,
		Filename:    filename,
		ChunksAdded: len(chunks),
	}, nil
}

// IngestFile parses a file from disk and ingests its content.
func (s *Service) IngestFile(ctx context.Context, path string) (*Result, error) {
	parser := NewParser()
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.IngestText(ctx, doc.Filename, doc.Content)
}

// DeleteDocument removes a document's metadata and prunes its vectors.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	chunkIDs, err := s.store.DeleteDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(chunkIDs) > 0 {
		if err := s.index.DeleteByIDs(ctx, chunkIDs); err != nil {
			return err
		}
		if err := s.index.Flush(ctx); err != nil {
			return err
		}
	}
	s.logger.Info().
		Str("document_id", documentID).
		Int("chunks_removed", len(chunkIDs)).
		Msg("Document deleted")
	return nil
}

func (s *Service) ListDocuments(ctx context.Context) ([]store.Document, error) {
	return s.store.ListDocuments(ctx)
}

func hashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
