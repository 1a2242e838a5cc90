// Package openai implements llm.Client over OpenAI Chat Completions.
package openai

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

const providerName = "openai"

var apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey string, opts llm.Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	endpoint := ""
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		endpoint = strings.TrimSuffix(base, "/") + "/v1/chat/completions"
	}
	return &Client{
		apiKey:    apiKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		endpoint:  endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string         `json:"model"`
	Messages            []chatMessage  `json:"messages"`
	Temperature         *float32       `json:"temperature,omitempty"`
	MaxCompletionTokens int            `json:"max_completion_tokens,omitempty"`
	ResponseFormat      responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Provider implements llm.Named.
func (c *Client) Provider() string { return providerName }

// Model implements llm.Named.
func (c *Client) Model() string { return c.model }

// Complete returns the raw model response for the prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (content string, err error) {
	start := time.Now()
	var usage llm.Usage
	defer func() {
		llm.Observe(providerName, c.model, start, usage, err)
	}()

	reqBody := chatRequest{
		Model:               c.model,
		Messages:            []chatMessage{{Role: "user", Content: prompt}},
		MaxCompletionTokens: c.maxTokens,
		ResponseFormat:      responseFormat{Type: "json_object"},
	}
	if !isGPT5(c.model) {
		temp := float32(0)
		reqBody.Temperature = &temp
	}

	payload, err := json.Marshal(reqBody)
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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

	var parsed chatResponse
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
	if parsed.Error != nil {
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryUnknown, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s (%s)", parsed.Error.Message, parsed.Error.Type)}
	}
	if parsed.Usage != nil {
		usage = llm.Usage{InputTokens: parsed.Usage.PromptTokens, OutputTokens: parsed.Usage.CompletionTokens}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryUnknown, StatusCode: resp.StatusCode, Err: errors.New("response missing choices")}
	}

	content = parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &llm.ProviderError{Provider: providerName, Category: llm.CategoryUnknown, StatusCode: resp.StatusCode, Err: errors.New("response empty content")}
	}
	return content, nil
}

// GPT-5 family models reject an explicit temperature of 0.
func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
