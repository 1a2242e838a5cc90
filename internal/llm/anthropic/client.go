// Package anthropic implements llm.Client over the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meddoc-backend/internal/llm"
)

const (
	providerName     = "anthropic"
	anthropicVersion = "2023-06-01"
	defaultBaseURL   = "https://api.anthropic.com"
	defaultMaxTokens = 8000
)

// apiURL is overridden in tests.
var apiURL = defaultBaseURL + "/v1/messages"

// Client implements llm.Client using the Messages API.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new Anthropic client.
func NewClient(apiKey string, opts llm.Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Anthropic")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	endpoint := ""
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		endpoint = strings.TrimSuffix(base, "/") + "/v1/messages"
	}
	return &Client{
		apiKey:    apiKey,
		model:     opts.Model,
		maxTokens: maxTokens,
		endpoint:  endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Provider implements llm.Named.
func (c *Client) Provider() string { return providerName }

// Model implements llm.Named.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user message with temperature 0.
func (c *Client) Complete(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	var usage llm.Usage
	defer func() {
		llm.Observe(providerName, c.model, start, usage, err)
	}()

	temp := float64(0)
	payload, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryBadRequest, Err: err}
	}

	url := c.endpoint
	if url == "" {
		url = apiURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryBadRequest, Err: err}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}

	var parsed messagesResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		if resp.StatusCode >= 400 {
			return "", llm.StatusError(providerName, resp.StatusCode, errors.New(strings.TrimSpace(string(body))))
		}
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryUnknown, StatusCode: resp.StatusCode, Err: fmt.Errorf("response parse: %w", jsonErr)}
	}
	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(body))
		if parsed.Error != nil {
			msg = fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return "", llm.StatusError(providerName, resp.StatusCode, errors.New(msg))
	}
	usage = llm.Usage{InputTokens: parsed.Usage.InputTokens, OutputTokens: parsed.Usage.OutputTokens}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text = sb.String()
	if strings.TrimSpace(text) == "" {
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryUnknown, StatusCode: resp.StatusCode, Err: errors.New("response has no text content")}
	}
	return text, nil
}
