package llm

import (
	"context"
	"sync"
)

// MockGateway is a scripted Gateway for tests.
type MockGateway struct {
	mu sync.Mutex

	// Responses maps model id to the text to return. Models absent from the
	// map fall back to DefaultResponse.
	Responses map[string]string
	// Errors maps model id to an error to return instead of text.
	Errors map[string]error
	// DefaultResponse is returned for models without a scripted entry.
	DefaultResponse string
	// Models is returned by ListModels.
	Models []ModelInfo
	// ListErr, when set, is returned by ListModels.
	ListErr error

	calls []CompletionRequest
}

// NewMockGateway creates a mock gateway with a default response.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Responses:       map[string]string{},
		Errors:          map[string]error{},
		DefaultResponse: "ok",
	}
}

func (m *MockGateway) Complete(_ context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err, ok := m.Errors[req.Model]; ok {
		return "", &GatewayError{Model: req.Model, Err: err}
	}
	if text, ok := m.Responses[req.Model]; ok {
		return text, nil
	}
	return m.DefaultResponse, nil
}

func (m *MockGateway) ListModels(_ context.Context) ([]ModelInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Models, nil
}

// Calls returns a copy of all recorded completion requests.
func (m *MockGateway) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded requests for one model.
func (m *MockGateway) CallsFor(model string) []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []CompletionRequest
	for _, c := range m.calls {
		if c.Model == model {
			out = append(out, c)
		}
	}
	return out
}

var _ Gateway = (*MockGateway)(nil)
