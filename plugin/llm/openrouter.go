package llm

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// Config holds the OpenRouter gateway configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	AppURL     string // sent as HTTP-Referer for OpenRouter attribution
	AppName    string // sent as X-Title for OpenRouter attribution
	MaxRetries int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://openrouter.ai/api/v1",
		MaxRetries: 3,
	}
}

// OpenRouter is a Gateway backed by the OpenRouter chat completion API.
type OpenRouter struct {
	client *openai.Client
	config *Config
}

// NewOpenRouter creates a new OpenRouter gateway.
func NewOpenRouter(cfg *Config) (*OpenRouter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, errors.New("OpenRouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			referer: cfg.AppURL,
			title:   cfg.AppName,
			base:    http.DefaultTransport,
		},
	}

	return &OpenRouter{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Complete performs a chat completion.
func (g *OpenRouter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	var result string
	err := g.doWithRetry(ctx, func() error {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       req.Model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		result = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", &GatewayError{Model: req.Model, Err: err}
	}

	return result, nil
}

// ListModels lists available models at the provider.
func (g *OpenRouter) ListModels(ctx context.Context) ([]ModelInfo, error) {
	list, err := g.client.ListModels(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list models")
	}

	models := make([]ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, ModelInfo{ID: m.ID, Name: m.ID})
	}
	return models, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (g *OpenRouter) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < g.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else if !isRetryable(err) {
			return err
		} else {
			lastErr = err
			if attempt < g.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("gateway request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

// isRetryable reports whether a provider error is worth retrying.
// Rate limits and upstream 5xx are transient; everything else is not.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return false
}

// attributionTransport injects the OpenRouter attribution headers.
type attributionTransport struct {
	referer string
	title   string
	base    http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}

var _ Gateway = (*OpenRouter)(nil)
