package vectorindex

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/careerkb/profile-agent/internal/errs"
)

func newTestFlat(t *testing.T) *FlatIndex {
	t.Helper()
	dir := t.TempDir()
	idx, err := NewFlat(3, filepath.Join(dir, "flat.index.json"), filepath.Join(dir, "flat.meta.json"))
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}
	return idx
}

func TestFlat_SearchEmptyIndex(t *testing.T) {
	idx := newTestFlat(t)

	for _, topK := range []int{0, 1, 10} {
		results, err := idx.Search(context.Background(), []float32{1, 0, 0}, topK)
		if err != nil {
			t.Fatalf("Search(topK=%d) failed: %v", topK, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(topK=%d) returned %d results, want 0", topK, len(results))
		}
	}
}

func TestFlat_SelfSimilarity(t *testing.T) {
	idx := newTestFlat(t)
	ctx := context.Background()
	vec := []float32{0.6, 0.8, 0}

	if err := idx.Add(ctx, 42, "some text", "cv.md § Experience", vec); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results, err := idx.Search(ctx, vec, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ChunkID != 42 {
		t.Errorf("chunk ID %d, want 42", results[0].ChunkID)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("self-similarity score %f, want ~1.0", results[0].Score)
	}
}

func TestFlat_ResultsOrderedAndClamped(t *testing.T) {
	idx := newTestFlat(t)
	ctx := context.Background()
	query := []float32{1, 0, 0}

	vectors := map[int64][]float32{
		1: {1, 0, 0},
		2: {0.9, float32(math.Sqrt(1 - 0.81)), 0},
		3: {0, 1, 0},
	}
	for id, vec := range vectors {
		if err := idx.Add(ctx, id, "t", "l", vec); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	results, err := idx.Search(ctx, query, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (clamped to index size)", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not ordered by descending score at %d", i)
		}
	}
	if results[0].ChunkID != 1 {
		t.Errorf("best match is %d, want 1", results[0].ChunkID)
	}

	results, err = idx.Search(ctx, query, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestFlat_DeleteSubset(t *testing.T) {
	idx := newTestFlat(t)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		if err := idx.Add(ctx, id, "t", "l", []float32{1, 0, 0}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := idx.DeleteByIDs(ctx, []int64{2, 4, 99}); err != nil {
		t.Fatalf("DeleteByIDs failed: %v", err)
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results after delete, want 3", len(results))
	}
	for _, r := range results {
		if r.ChunkID == 2 || r.ChunkID == 4 {
			t.Errorf("deleted chunk %d still present", r.ChunkID)
		}
	}
}

func TestFlat_DimensionMismatch(t *testing.T) {
	idx := newTestFlat(t)
	ctx := context.Background()

	if err := idx.Add(ctx, 1, "t", "l", []float32{1, 0}); !errors.Is(err, errs.ErrIndex) {
		t.Errorf("Add with wrong dimension: error %v, want ErrIndex", err)
	}
	if _, err := idx.Search(ctx, []float32{1, 0, 0, 0}, 1); !errors.Is(err, errs.ErrIndex) {
		t.Errorf("Search with wrong dimension: error %v, want ErrIndex", err)
	}
}

func TestFlat_SnapshotRoundtrip(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "flat.index.json")
	metaPath := filepath.Join(dir, "flat.meta.json")
	ctx := context.Background()

	idx, err := NewFlat(3, indexPath, metaPath)
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}
	if err := idx.Add(ctx, 7, "snapshot text", "cv.md § Skills", []float32{0, 1, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := idx.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	reloaded, err := NewFlat(3, indexPath, metaPath)
	if err != nil {
		t.Fatalf("NewFlat reload failed: %v", err)
	}
	if reloaded.Size() != 1 {
		t.Fatalf("reloaded size %d, want 1", reloaded.Size())
	}

	results, err := reloaded.Search(ctx, []float32{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("Search after reload failed: %v", err)
	}
	if len(results) != 1 || results[0].ChunkID != 7 {
		t.Fatalf("unexpected results after reload: %+v", results)
	}
	if results[0].Text != "snapshot text" || results[0].SourceLabel != "cv.md § Skills" {
		t.Errorf("metadata lost in roundtrip: %+v", results[0])
	}
}

func TestFlat_FreshIndexWithoutSnapshotStartsEmpty(t *testing.T) {
	idx := newTestFlat(t)
	if idx.Size() != 0 {
		t.Errorf("fresh index size %d, want 0", idx.Size())
	}
}
