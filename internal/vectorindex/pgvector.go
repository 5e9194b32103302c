package vectorindex

import (
	"context"
	"fmt"
	"sync"

	"github.com/careerkb/profile-agent/internal/errs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PGVectorIndex keeps one row per chunk in Postgres with an ivfflat cosine
// index for sub-linear search. Every write is durable on its own, so Flush is
// a no-op. The pool is established lazily on first use and cached for the
// process lifetime.
type PGVectorIndex struct {
	dsn  string
	dim  int
	once sync.Once

	pool    *pgxpool.Pool
	initErr error
}

func NewPGVector(dsn string, dimension int) *PGVectorIndex {
	return &PGVectorIndex{
		dsn: dsn,
		dim: dimension,
	}
}

func (p *PGVectorIndex) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	p.once.Do(func() {
		pool, err := pgxpool.New(ctx, p.dsn)
		if err != nil {
			p.initErr = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		if err := p.ensureSchema(ctx, pool); err != nil {
			pool.Close()
			p.initErr = err
			return
		}
		p.pool = pool
	})
	return p.pool, p.initErr
}

func (p *PGVectorIndex) ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS vector_chunks (
				chunk_id     BIGINT PRIMARY KEY,
				text         TEXT NOT NULL,
				source_label TEXT NOT NULL,
				embedding    vector(%d)
			)`, p.dim),
		`CREATE INDEX IF NOT EXISTS vector_chunks_embedding_idx
			ON vector_chunks USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare vector schema: %w", err)
		}
	}
	return nil
}

// Add upserts: re-adding a chunk ID replaces its text, label and embedding.
func (p *PGVectorIndex) Add(ctx context.Context, chunkID int64, text, sourceLabel string, vector []float32) error {
	if err := p.checkDimension(vector); err != nil {
		return err
	}

	pool, err := p.getPool(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrIndex, err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO vector_chunks (chunk_id, text, source_label, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chunk_id) DO UPDATE
		SET text = EXCLUDED.text, source_label = EXCLUDED.source_label, embedding = EXCLUDED.embedding`,
		chunkID, text, sourceLabel, pgvector.NewVector(vector),
	)
	if err != nil {
		return errs.Wrap(errs.ErrIndex, fmt.Errorf("failed to upsert vector: %w", err))
	}
	return nil
}

func (p *PGVectorIndex) Search(ctx context.Context, query []float32, topK int) ([]SearchResult, error) {
	if err := p.checkDimension(query); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []SearchResult{}, nil
	}

	pool, err := p.getPool(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIndex, err)
	}

	rows, err := pool.Query(ctx, `
		SELECT chunk_id, text, source_label,
		       1 - (embedding <=> $1) AS score
		FROM vector_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(query), topK,
	)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIndex, fmt.Errorf("failed to query vectors: %w", err))
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ChunkID, &r.Text, &r.SourceLabel, &r.Score); err != nil {
			return nil, errs.Wrap(errs.ErrIndex, fmt.Errorf("failed to scan row: %w", err))
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrIndex, fmt.Errorf("row iteration error: %w", err))
	}

	return results, nil
}

func (p *PGVectorIndex) DeleteByIDs(ctx context.Context, chunkIDs []int64) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	pool, err := p.getPool(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrIndex, err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM vector_chunks WHERE chunk_id = ANY($1)`, chunkIDs); err != nil {
		return errs.Wrap(errs.ErrIndex, fmt.Errorf("failed to delete vectors: %w", err))
	}
	return nil
}

// Flush is a no-op: every write above is already durable.
func (p *PGVectorIndex) Flush(_ context.Context) error {
	return nil
}

func (p *PGVectorIndex) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PGVectorIndex) checkDimension(vector []float32) error {
	if p.dim > 0 && len(vector) != p.dim {
		return errs.Wrap(errs.ErrIndex,
			fmt.Errorf("dimension mismatch: vector has %d, index expects %d", len(vector), p.dim))
	}
	return nil
}
