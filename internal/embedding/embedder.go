// Package embedding wraps a sentence-embedding provider behind a single
// interface. All returned vectors are L2-normalized so downstream similarity
// search can use a plain dot product as cosine similarity.
package embedding

import (
	"context"
	"math"

	"github.com/careerkb/profile-agent/internal/errs"
)

// Embedder converts text into fixed-dimension float vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// provider is the raw model boundary; vectors come back unnormalized.
type provider interface {
	embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client implements Embedder on top of a provider, adding normalization and
// the empty-batch short circuit. One Client is shared process-wide.
type Client struct {
	provider provider
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := c.provider.embed(ctx, texts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEmbedding, err)
	}

	for _, v := range vectors {
		normalize(v)
	}
	return vectors, nil
}

func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// normalize scales v to unit L2 norm in place. Zero vectors are left as-is.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
