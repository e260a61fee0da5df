// Package llm provides clients for the external text generation and
// embedding capabilities.
package llm

import "context"

// Client produces text for a prompt. Calls block; timeout and cancellation
// policy belong to the caller via ctx.
type Client interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// EmbeddingClient converts text into a vector representation.
type EmbeddingClient interface {
	Embed(ctx context.Context, model, input string) (*EmbeddingResponse, error)
}

// EmbeddingResponse represents a single embedding result.
type EmbeddingResponse struct {
	Embedding  []float64 `json:"embedding"`
	TokenCount int       `json:"token_count"`
}

// ClientConfig holds common connection settings.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout int // seconds
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{Timeout: 120}
}
