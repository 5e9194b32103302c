package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meta.db")
	s, err := NewSQLiteStore(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func seedDocument(t *testing.T, s *SQLiteStore, id, hash string, chunks []ChunkRecord) []int64 {
	t.Helper()
	ctx := context.Background()
	doc := &Document{
		ID:          id,
		Filename:    "resume.md",
		ContentHash: hash,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	ids, err := s.InsertChunks(ctx, id, chunks)
	if err != nil {
		t.Fatalf("InsertChunks() error = %v", err)
	}
	return ids
}

func TestFindDocumentByHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedDocument(t, s, "doc-1", "hash-1", []ChunkRecord{
		{ChunkIndex: 0, Text: "first", SourceLabel: "resume.md § Experience"},
	})

	doc, err := s.FindDocumentByHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("FindDocumentByHash() error = %v", err)
	}
	if doc == nil {
		t.Fatal("expected document, got nil")
	}
	if doc.ID != "doc-1" || doc.ChunkCount != 1 {
		t.Errorf("got doc %+v, want id doc-1 with 1 chunk", doc)
	}

	missing, err := s.FindDocumentByHash(ctx, "no-such-hash")
	if err != nil {
		t.Fatalf("FindDocumentByHash() error = %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown hash, got %+v", missing)
	}
}

func TestInsertChunksAssignsOrderedIDs(t *testing.T) {
	s := newTestStore(t)

	ids := seedDocument(t, s, "doc-1", "hash-1", []ChunkRecord{
		{ChunkIndex: 0, Text: "a", SourceLabel: "l"},
		{ChunkIndex: 1, Text: "b", SourceLabel: "l"},
		{ChunkIndex: 2, Text: "c", SourceLabel: "l"},
	})

	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ids not strictly increasing: %v", ids)
		}
	}

	got, err := s.ChunkIDs(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ChunkIDs() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ChunkIDs returned %d ids, want 3", len(got))
	}
}

func TestDeleteDocumentReturnsChunkIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inserted := seedDocument(t, s, "doc-1", "hash-1", []ChunkRecord{
		{ChunkIndex: 0, Text: "a", SourceLabel: "l"},
		{ChunkIndex: 1, Text: "b", SourceLabel: "l"},
	})

	deleted, err := s.DeleteDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if len(deleted) != len(inserted) {
		t.Fatalf("got %d deleted ids, want %d", len(deleted), len(inserted))
	}

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected empty store after delete, got %d documents", len(docs))
	}
}

func TestDeleteDocumentNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DeleteDocument(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestListDocuments(t *testing.T) {
	s := newTestStore(t)

	seedDocument(t, s, "doc-1", "hash-1", []ChunkRecord{{ChunkIndex: 0, Text: "a", SourceLabel: "l"}})
	seedDocument(t, s, "doc-2", "hash-2", []ChunkRecord{{ChunkIndex: 0, Text: "b", SourceLabel: "l"}})

	docs, err := s.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
}
