package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/careerkb/profile-agent/internal/errs"
	"github.com/rs/zerolog/log"
)

// FlatIndex is an exact brute-force index held in memory, suitable for
// corpora in the low thousands of chunks. Deletion rebuilds the whole index
// because the flat layout has no native removal. Persistence is an explicit
// JSON snapshot written by Flush and loaded on construction.
//
// Add has no upsert semantics here: re-adding an existing chunk ID inserts a
// duplicate entry. The pgvector backend upserts; this asymmetry is accepted.
type FlatIndex struct {
	mu        sync.RWMutex
	dim       int
	vectors   [][]float32
	meta      []flatEntry
	indexPath string
	metaPath  string
}

type flatEntry struct {
	ChunkID     int64  `json:"chunk_id"`
	Text        string `json:"text"`
	SourceLabel string `json:"source_label"`
}

func NewFlat(dimension int, indexPath, metaPath string) (*FlatIndex, error) {
	idx := &FlatIndex{
		dim:       dimension,
		indexPath: indexPath,
		metaPath:  metaPath,
	}
	if err := idx.load(); err != nil {
		return nil, errs.Wrap(errs.ErrIndex, err)
	}
	return idx, nil
}

func (f *FlatIndex) load() error {
	if _, err := os.Stat(f.indexPath); err != nil {
		return nil // no snapshot yet, start empty
	}
	if _, err := os.Stat(f.metaPath); err != nil {
		return nil
	}

	vecData, err := os.ReadFile(f.indexPath)
	if err != nil {
		return fmt.Errorf("failed to read index snapshot: %w", err)
	}
	if err := json.Unmarshal(vecData, &f.vectors); err != nil {
		return fmt.Errorf("failed to decode index snapshot: %w", err)
	}

	metaData, err := os.ReadFile(f.metaPath)
	if err != nil {
		return fmt.Errorf("failed to read meta snapshot: %w", err)
	}
	if err := json.Unmarshal(metaData, &f.meta); err != nil {
		return fmt.Errorf("failed to decode meta snapshot: %w", err)
	}

	if len(f.vectors) != len(f.meta) {
		return fmt.Errorf("snapshot mismatch: %d vectors, %d meta entries", len(f.vectors), len(f.meta))
	}

	log.Info().Str("path", f.indexPath).Int("total", len(f.vectors)).Msg("Flat index snapshot loaded")
	return nil
}

func (f *FlatIndex) Add(_ context.Context, chunkID int64, text, sourceLabel string, vector []float32) error {
	if err := f.checkDimension(vector); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.vectors = append(f.vectors, vector)
	f.meta = append(f.meta, flatEntry{ChunkID: chunkID, Text: text, SourceLabel: sourceLabel})
	return nil
}

func (f *FlatIndex) Search(_ context.Context, query []float32, topK int) ([]SearchResult, error) {
	if err := f.checkDimension(query); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.vectors) == 0 || topK <= 0 {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(f.vectors))
	for i, vec := range f.vectors {
		results = append(results, SearchResult{
			ChunkID:     f.meta[i].ChunkID,
			Text:        f.meta[i].Text,
			SourceLabel: f.meta[i].SourceLabel,
			Score:       dot(query, vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// DeleteByIDs rebuilds the index without the given chunk IDs. O(n·d), the
// accepted cost at flat-index scale. Absent IDs are a no-op.
func (f *FlatIndex) DeleteByIDs(_ context.Context, chunkIDs []int64) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	remove := make(map[int64]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		remove[id] = struct{}{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	newVectors := make([][]float32, 0, len(f.vectors))
	newMeta := make([]flatEntry, 0, len(f.meta))
	for i, entry := range f.meta {
		if _, drop := remove[entry.ChunkID]; drop {
			continue
		}
		newVectors = append(newVectors, f.vectors[i])
		newMeta = append(newMeta, entry)
	}

	f.vectors = newVectors
	f.meta = newMeta
	return nil
}

// Flush writes the snapshot files. Un-flushed adds are best effort.
func (f *FlatIndex) Flush(_ context.Context) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if dir := filepath.Dir(f.indexPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrIndex, fmt.Errorf("failed to create snapshot dir: %w", err))
		}
	}

	vecData, err := json.Marshal(f.vectors)
	if err != nil {
		return errs.Wrap(errs.ErrIndex, err)
	}
	if err := os.WriteFile(f.indexPath, vecData, 0o644); err != nil {
		return errs.Wrap(errs.ErrIndex, err)
	}

	metaData, err := json.Marshal(f.meta)
	if err != nil {
		return errs.Wrap(errs.ErrIndex, err)
	}
	if err := os.WriteFile(f.metaPath, metaData, 0o644); err != nil {
		return errs.Wrap(errs.ErrIndex, err)
	}

	log.Info().Str("path", f.indexPath).Int("total", len(f.vectors)).Msg("Flat index snapshot saved")
	return nil
}

// Size reports how many vectors are stored, for health reporting.
func (f *FlatIndex) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

func (f *FlatIndex) checkDimension(vector []float32) error {
	if f.dim > 0 && len(vector) != f.dim {
		return errs.Wrap(errs.ErrIndex,
			fmt.Errorf("dimension mismatch: vector has %d, index expects %d", len(vector), f.dim))
	}
	return nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
