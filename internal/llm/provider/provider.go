// Package provider selects the llm.Client configured by LLM_PROVIDER.
package provider

import (
	"fmt"
	"time"

	"meddoc-backend/internal/llm"
	"meddoc-backend/internal/llm/anthropic"
	"meddoc-backend/internal/llm/openai"
	"meddoc-backend/internal/shared/config"
)

// New builds the client for cfg.LLMProvider.
func New(cfg config.Config) (llm.Client, error) {
	opts := llm.Options{
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		BaseURL:   cfg.LLMBaseURL,
	}
	switch cfg.LLMProvider {
	case "anthropic":
		return anthropic.NewClient(cfg.AnthropicAPIKey, opts)
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, opts)
	case "none":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
