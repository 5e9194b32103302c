package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiProvider struct {
	client  openai.Client
	modelID string
}

func NewOpenAI(apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelID == "" {
		return nil, fmt.Errorf("OpenAI embedding model ID is required")
	}

	return &Client{provider: &openaiProvider{
		client:  openai.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(3)),
		modelID: modelID,
	}}, nil
}

func (p *openaiProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	output, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(p.modelID),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create embeddings: %w", err)
	}

	if len(output.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(output.Data), len(texts))
	}

	vectors := make([][]float32, len(output.Data))
	for _, data := range output.Data {
		vec := make([]float32, len(data.Embedding))
		for i, x := range data.Embedding {
			vec[i] = float32(x)
		}
		vectors[data.Index] = vec
	}

	return vectors, nil
}
