// Package llm abstracts the language-model completion capability. Providers
// are selected by configuration and are interchangeable behind Client.
package llm

import (
	"context"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Client is an interface for invoking completion models.
// This allows mocking in tests without making real API calls.
type Client interface {
	Complete(ctx context.Context, request Request) (*Response, error)
}

type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Content    string
	StopReason string
}
