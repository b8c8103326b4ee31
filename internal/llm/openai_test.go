package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProviderComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		assert.Equal(t, 0.8, req.Temperature)
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be a DevOps engineer", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"  Ship small changes.\n"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{
		APIURL:      server.URL,
		APIKey:      "test-key",
		Model:       "gpt-test",
		Temperature: 0.8,
	})

	text, err := provider.Complete(context.Background(), "be a DevOps engineer", "write a tip")
	require.NoError(t, err)
	assert.Equal(t, "Ship small changes.", text)
}

func TestOpenAIProviderErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{APIURL: server.URL, Model: "gpt-test"})
	_, err := provider.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{APIURL: server.URL, Model: "gpt-test"})
	text, err := provider.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAIProviderTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	provider := NewOpenAIProvider(Config{APIURL: server.URL, Model: "gpt-test", Timeout: 50 * time.Millisecond})
	_, err := provider.Complete(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestOpenAIProviderRequiresModel(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAIProvider(Config{}).Complete(context.Background(), "s", "u")
	assert.EqualError(t, err, "openai model is required")
}
