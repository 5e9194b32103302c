// Package store persists document and chunk metadata. Chunk rows own the
// stable integer IDs that correlate vector index entries back to their
// source. SQLite backs the flat index mode; Postgres backs pgvector mode.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a lookup or delete that matched no document.
var ErrNotFound = errors.New("document not found")

type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChunkRecord struct {
	ID          int64  `json:"id"`
	DocumentID  string `json:"document_id"`
	ChunkIndex  int    `json:"chunk_index"`
	Text        string `json:"text"`
	SourceLabel string `json:"source_label"`
}

type Store interface {
	// FindDocumentByHash returns nil when no document carries the hash.
	FindDocumentByHash(ctx context.Context, contentHash string) (*Document, error)
	CreateDocument(ctx context.Context, doc *Document) error
	// InsertChunks assigns and returns the stable chunk IDs in input order.
	InsertChunks(ctx context.Context, documentID string, chunks []ChunkRecord) ([]int64, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	// DeleteDocument removes the document and its chunks, returning the
	// chunk IDs that were removed so the vector index can be pruned.
	DeleteDocument(ctx context.Context, documentID string) ([]int64, error)
	ChunkIDs(ctx context.Context, documentID string) ([]int64, error)
	Ping(ctx context.Context) error
	Close()
}
