package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	content_hash TEXT NOT NULL UNIQUE,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS document_chunks (
	id BIGSERIAL PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index INTEGER NOT NULL,
	text TEXT NOT NULL,
	source_label TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id
	ON document_chunks (document_id);
`

// PostgresStore keeps metadata in Postgres, sharing the database that
// holds the pgvector rows so both stay behind one DSN.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create postgres schema: %w", err)
	}
	logger.Info().Msg("Connected to Postgres metadata store")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) FindDocumentByHash(ctx context.Context, contentHash string) (*Document, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, filename, content_hash, chunk_count, created_at
		 FROM documents WHERE content_hash = $1`, contentHash)

	var doc Document
	err := row.Scan(&doc.ID, &doc.Filename, &doc.ContentHash, &doc.ChunkCount, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document by hash: %w", err)
	}
	return &doc, nil
}

func (s *PostgresStore) CreateDocument(ctx context.Context, doc *Document) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, filename, content_hash, chunk_count, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.Filename, doc.ContentHash, doc.ChunkCount, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertChunks(ctx context.Context, documentID string, chunks []ChunkRecord) ([]int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, len(chunks))
	for _, chunk := range chunks {
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO document_chunks (document_id, chunk_index, text, source_label)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			documentID, chunk.ChunkIndex, chunk.Text, chunk.SourceLabel).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
		ids = append(ids, id)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE documents SET chunk_count = $1 WHERE id = $2`, len(chunks), documentID); err != nil {
		return nil, fmt.Errorf("failed to update chunk count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit chunk insert: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, content_hash, chunk_count, created_at
		 FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.ContentHash, &doc.ChunkCount, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) ChunkIDs(ctx context.Context, documentID string) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM document_chunks WHERE document_id = $1 ORDER BY chunk_index`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, documentID string) ([]int64, error) {
	ids, err := s.ChunkIDs(ctx, documentID)
	if err != nil {
		return nil, err
	}

	result, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return ids, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
