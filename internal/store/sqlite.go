package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	content_hash TEXT NOT NULL UNIQUE,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS document_chunks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	text TEXT NOT NULL,
	source_label TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id
	ON document_chunks (document_id);
`

// SQLiteStore keeps metadata in a local SQLite file. It pairs with the
// flat in-memory index so single-node deployments need no Postgres.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	logger.Info().Str("path", path).Msg("Connected to SQLite metadata store")
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) FindDocumentByHash(ctx context.Context, contentHash string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, content_hash, chunk_count, created_at
		 FROM documents WHERE content_hash = ?`, contentHash)

	var doc Document
	err := row.Scan(&doc.ID, &doc.Filename, &doc.ContentHash, &doc.ChunkCount, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document by hash: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, content_hash, chunk_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.ContentHash, doc.ChunkCount, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertChunks(ctx context.Context, documentID string, chunks []ChunkRecord) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(chunks))
	for _, chunk := range chunks {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO document_chunks (document_id, chunk_index, text, source_label)
			 VALUES (?, ?, ?, ?)`,
			documentID, chunk.ChunkIndex, chunk.Text, chunk.SourceLabel)
		if err != nil {
			return nil, fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk id: %w", err)
		}
		ids = append(ids, id)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET chunk_count = ? WHERE id = ?`, len(chunks), documentID); err != nil {
		return nil, fmt.Errorf("failed to update chunk count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chunk insert: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
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

func (s *SQLiteStore) ChunkIDs(ctx context.Context, documentID string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM document_chunks WHERE document_id = ? ORDER BY chunk_index`, documentID)
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

func (s *SQLiteStore) DeleteDocument(ctx context.Context, documentID string) ([]int64, error) {
	ids, err := s.ChunkIDs(ctx, documentID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_chunks WHERE document_id = ?`, documentID); err != nil {
		return nil, fmt.Errorf("failed to delete chunks: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit document delete: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close sqlite store")
	}
}
