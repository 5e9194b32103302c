package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/careerkb/profile-agent/internal/errs"
)

type stubProvider struct {
	vectors   [][]float32
	err       error
	callCount int
}

func (s *stubProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func TestEmbed_NormalizesVectors(t *testing.T) {
	client := &Client{provider: &stubProvider{
		vectors: [][]float32{{3, 4}, {0, 5, 0}},
	}}

	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	for i, v := range vectors {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if math.Abs(math.Sqrt(sum)-1.0) > 1e-6 {
			t.Errorf("vector %d norm %f, want 1.0", i, math.Sqrt(sum))
		}
	}
}

func TestEmbed_EmptyBatchSkipsProvider(t *testing.T) {
	stub := &stubProvider{}
	client := &Client{provider: stub}

	vectors, err := client.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(vectors) != 0 {
		t.Errorf("got %d vectors, want 0", len(vectors))
	}
	if stub.callCount != 0 {
		t.Errorf("provider called %d times for empty batch, want 0", stub.callCount)
	}
}

func TestEmbed_WrapsProviderError(t *testing.T) {
	client := &Client{provider: &stubProvider{err: errors.New("model unavailable")}}

	_, err := client.Embed(context.Background(), []string{"a"})

	if !errors.Is(err, errs.ErrEmbedding) {
		t.Errorf("error %v is not ErrEmbedding", err)
	}
}

func TestEmbed_DeadlineSurfacesAsTimeout(t *testing.T) {
	client := &Client{provider: &stubProvider{err: context.DeadlineExceeded}}

	_, err := client.Embed(context.Background(), []string{"a"})

	if !errors.Is(err, errs.ErrTimeout) {
		t.Errorf("error %v is not ErrTimeout", err)
	}
}

func TestEmbedOne_ReturnsSingleVector(t *testing.T) {
	client := &Client{provider: &stubProvider{vectors: [][]float32{{1, 0, 0}}}}

	vec, err := client.EmbedOne(context.Background(), "query")
	if err != nil {
		t.Fatalf("EmbedOne failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("got dimension %d, want 3", len(vec))
	}
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	normalize(v)
	for i, x := range v {
		if x != 0 {
			t.Errorf("component %d is %f, want 0", i, x)
		}
	}
}
