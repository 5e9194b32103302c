package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ollamaProvider calls a local Ollama server. The embeddings endpoint takes a
// single prompt, so batches are sequential like the Titan provider.
type ollamaProvider struct {
	httpClient *http.Client
	baseURL    string
	modelID    string
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewOllama(baseURL, modelID string) *Client {
	return &Client{provider: &ollamaProvider{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    baseURL,
		modelID:    modelID,
	}}
}

func (p *ollamaProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for _, text := range texts {
		body, err := json.Marshal(ollamaEmbedRequest{Model: p.modelID, Prompt: text})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build ollama request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ollama embeddings call failed: %w", err)
		}

		payload, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read ollama response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ollama embeddings returned status %d: %s", resp.StatusCode, payload)
		}

		var response ollamaEmbedResponse
		if err := json.Unmarshal(payload, &response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ollama response: %w", err)
		}

		vectors = append(vectors, response.Embedding)
	}

	return vectors, nil
}
