// Package vectorindex stores chunk embeddings and serves nearest-neighbor
// queries. Two interchangeable backends exist: an in-process flat index for
// small corpora and a pgvector-backed index for scale. Callers never branch
// on which backend is active.
package vectorindex

import (
	"context"
	"fmt"
)

type Mode string

const (
	ModeFlat     Mode = "flat"
	ModePGVector Mode = "pgvector"
)

// SearchResult is one scored match. Score is cosine similarity, which for the
// normalized vectors stored here equals the dot product.
type SearchResult struct {
	ChunkID     int64   `json:"chunk_id"`
	Text        string  `json:"text"`
	SourceLabel string  `json:"source_label"`
	Score       float64 `json:"score"`
}

// Index is the contract both backends honor identically, except that Add has
// upsert semantics only on the pgvector backend.
type Index interface {
	Add(ctx context.Context, chunkID int64, text, sourceLabel string, vector []float32) error
	Search(ctx context.Context, query []float32, topK int) ([]SearchResult, error)
	DeleteByIDs(ctx context.Context, chunkIDs []int64) error
	Flush(ctx context.Context) error
}

type Config struct {
	Mode          Mode
	Dimension     int
	FlatIndexPath string
	FlatMetaPath  string
	PostgresDSN   string
}

// New selects the backend for the configured mode.
func New(cfg Config) (Index, error) {
	switch cfg.Mode {
	case ModeFlat:
		return NewFlat(cfg.Dimension, cfg.FlatIndexPath, cfg.FlatMetaPath)
	case ModePGVector:
		return NewPGVector(cfg.PostgresDSN, cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown vector index mode: %q", cfg.Mode)
	}
}
