package llm

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouter(t *testing.T) {
	t.Run("RequiresAPIKey", func(t *testing.T) {
		_, err := NewOpenRouter(&Config{})
		assert.Error(t, err)
	})

	t.Run("AppliesDefaults", func(t *testing.T) {
		g, err := NewOpenRouter(&Config{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "https://openrouter.ai/api/v1", g.config.BaseURL)
		assert.Equal(t, 3, g.config.MaxRetries)
	})
}

func TestGatewayError(t *testing.T) {
	cause := errors.New("rate limited")
	err := &GatewayError{Model: "openai/gpt-4o", Err: cause}

	assert.Contains(t, err.Error(), "openai/gpt-4o")
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.True(t, isRetryable(&openai.APIError{HTTPStatusCode: http.StatusBadGateway}))
	assert.False(t, isRetryable(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized}))
	assert.False(t, isRetryable(errors.New("plain")))
}

func TestAttributionTransport(t *testing.T) {
	var gotReferer, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &attributionTransport{
		referer: "https://example.com",
		title:   "ThinkTank",
		base:    http.DefaultTransport,
	}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://example.com", gotReferer)
	assert.Equal(t, "ThinkTank", gotTitle)
}
