package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for document summarization.
type Client interface {
	// SummarizeDocument sends the document text for analysis and returns the
	// model's raw JSON output.
	SummarizeDocument(ctx context.Context, documentText string) (json.RawMessage, error)
}

// ErrNotConfigured indicates the provider credentials are missing.
var ErrNotConfigured = errors.New("llm client is not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// SummarizeDocument returns ErrNotConfigured.
func (PlaceholderClient) SummarizeDocument(ctx context.Context, documentText string) (json.RawMessage, error) {
	_ = ctx
	_ = documentText
	return nil, ErrNotConfigured
}
