// Package llm defines the single-call completion capability used by the
// compliance pipeline, plus the provider error taxonomy.
package llm

import (
	"context"
	"errors"
	"time"
)

// Client sends one prompt to a model and returns its raw text reply.
// Implementations make exactly one attempt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Named is implemented by clients that report a provider name for logs and
// metrics.
type Named interface {
	Provider() string
	Model() string
}

// Options carries provider-neutral call settings.
type Options struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
	BaseURL   string
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient stands in when LLM_PROVIDER=none. Every call fails with an
// auth-category ProviderError.
type PlaceholderClient struct{}

// Complete returns a ProviderError wrapping ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", &ProviderError{Provider: "none", Category: CategoryAuth, Err: ErrNotConfigured}
}

// Provider implements Named.
func (PlaceholderClient) Provider() string { return "none" }

// Model implements Named.
func (PlaceholderClient) Model() string { return "" }

// ProviderName returns the provider label for c, or "unknown".
func ProviderName(c Client) string {
	if n, ok := c.(Named); ok {
		return n.Provider()
	}
	return "unknown"
}

// ModelName returns the model label for c, or "".
func ModelName(c Client) string {
	if n, ok := c.(Named); ok {
		return n.Model()
	}
	return ""
}
