// Package llm provides the model gateway used for all chat completions.
package llm

import (
	"context"
	"fmt"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// CompletionRequest describes one chat completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// ModelInfo describes a model available at the provider.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Gateway sends chat completion requests to an external provider.
type Gateway interface {
	// Complete performs a synchronous chat completion and returns the
	// generated text. Provider-side failures are returned as a *GatewayError.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ListModels lists the models available at the provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// GatewayError is the typed failure returned for any provider-side error.
type GatewayError struct {
	Model string
	Err   error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error from %s: %v", e.Model, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
