package api

import (
	"fmt"
	"strings"
)

type ChatRequest struct {
	Question string `json:"question" description:"The question to answer from the knowledge base"`
}

type IngestRequest struct {
	Filename string `json:"filename" description:"Logical filename for the document"`
	Text     string `json:"text" description:"Raw document text (plain text or markdown)"`
}

type HealthResponse struct {
	Status            string `json:"status" description:"Service status"`
	Version           string `json:"version" description:"API version"`
	IndexMode         string `json:"index_mode" description:"Active vector index backend"`
	EmbeddingProvider string `json:"embedding_provider" description:"Active embedding provider"`
	LLMProvider       string `json:"llm_provider" description:"Active completion provider"`
}

func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("question must not be empty")
	}
	return nil
}

func (r *IngestRequest) Validate() error {
	if strings.TrimSpace(r.Filename) == "" {
		return fmt.Errorf("filename must not be empty")
	}
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text must not be empty")
	}
	return nil
}
