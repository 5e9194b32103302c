// Package rewrite reformulates user questions for better semantic search.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerkb/profile-agent/internal/llm"
	"github.com/rs/zerolog/log"
)

type Rewriter struct {
	llmClient llm.Client
}

func NewRewriter(client llm.Client) *Rewriter {
	return &Rewriter{
		llmClient: client,
	}
}

func (r *Rewriter) RewriteQuery(ctx context.Context, originalQuery string) (string, error) {
	prompt := fmt.Sprintf(`You are a query optimization assistant for a professional profile knowledge base.

Original query: "%s"

Rewrite this query to be:
1. More specific and clear
2. Better for semantic search
3. Free of typos and grammatical errors
4. Focused on career facts: roles, skills, education, projects

Return ONLY the rewritten query, nothing else.`, originalQuery)

	response, err := r.llmClient.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   200,
		Temperature: 0.2, // Low temperature for consistent rewrite
	})
	if err != nil {
		return "", fmt.Errorf("failed to rewrite query: %w", err)
	}

	rewritten := strings.TrimSpace(response.Content)
	if rewritten == "" {
		return originalQuery, nil
	}

	log.Info().
		Str("original", originalQuery).
		Str("rewritten", rewritten).
		Msg("Query rewrite")

	return rewritten, nil
}
