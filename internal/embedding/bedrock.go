package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockProvider generates embeddings with an Amazon Titan text embedding
// model. Titan accepts one input per invocation, so batches are sequential.
type bedrockProvider struct {
	client  *bedrockruntime.Client
	modelID string
}

type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewBedrock(ctx context.Context, region, modelID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{provider: &bedrockProvider{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}}, nil
}

func (p *bedrockProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for _, text := range texts {
		body, err := json.Marshal(titanEmbedRequest{InputText: text})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal titan request: %w", err)
		}

		output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     &p.modelID,
			Body:        body,
			Accept:      aws.String("application/json"),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to invoke embedding model: %w", err)
		}

		var response titanEmbedResponse
		if err := json.Unmarshal(output.Body, &response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal titan response: %w", err)
		}

		vectors = append(vectors, response.Embedding)
	}

	return vectors, nil
}
