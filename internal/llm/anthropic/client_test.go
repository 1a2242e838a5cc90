package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddoc-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() { apiURL = oldURL })

	client, err := NewClient("test-key", llm.Options{Model: "claude-sonnet-4-20250514", MaxTokens: 8000, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestCompleteSendsMessagesRequest(t *testing.T) {
	var got map[string]any
	var headers http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":"{\"a\":"},{"type":"tool_use"},{"type":"text","text":"1}"}],"usage":{"input_tokens":10,"output_tokens":4}}`))
	})

	text, err := client.Complete(context.Background(), "assess this")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	assert.Equal(t, "test-key", headers.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, headers.Get("anthropic-version"))
	assert.Equal(t, "claude-sonnet-4-20250514", got["model"])
	assert.Equal(t, float64(8000), got["max_tokens"])
	assert.Equal(t, float64(0), got["temperature"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	assert.Equal(t, "assess this", messages[0].(map[string]any)["content"])
}

func TestCompleteClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		want   llm.Category
	}{
		{http.StatusUnauthorized, llm.CategoryAuth},
		{http.StatusTooManyRequests, llm.CategoryRateLimit},
		{http.StatusBadRequest, llm.CategoryBadRequest},
		{529, llm.CategoryServer},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"some_error","message":"nope"}}`))
			})

			_, err := client.Complete(context.Background(), "p")
			require.Error(t, err)
			pe, ok := llm.AsProviderError(err)
			require.True(t, ok)
			assert.Equal(t, tc.want, pe.Category)
			assert.Equal(t, tc.status, pe.StatusCode)
			assert.Contains(t, pe.Error(), "nope")
			assert.Equal(t, 1, calls, "provider calls are never retried")
		})
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})
	_, err := client.Complete(context.Background(), "p")
	pe, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.CategoryUnknown, pe.Category)
}

func TestCompleteNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient("k", llm.Options{Model: "m", BaseURL: url})
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "p")
	pe, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.CategoryNetwork, pe.Category)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", llm.Options{Model: "m"})
	require.Error(t, err)
	_, err = NewClient("k", llm.Options{})
	require.Error(t, err)

	client, err := NewClient("k", llm.Options{Model: "m", BaseURL: "https://proxy.internal/"})
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.internal/v1/messages", client.endpoint)
	assert.Equal(t, defaultMaxTokens, client.maxTokens)
}
