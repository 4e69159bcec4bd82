package oracle

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single prompt sent to a provider.
type CompletionRequest struct {
	System string
	Prompt string
}

// Config holds configuration for the oracle.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}
