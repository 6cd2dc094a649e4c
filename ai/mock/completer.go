package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via a function field, or serves
// canned responses in submission order.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, responses are served from the Responses queue.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// Responses are returned in order by successive Complete calls.
	// When exhausted, Complete returns an empty string.
	Responses []string

	// Prompts records every prompt passed to Complete, for assertions.
	Prompts []string

	callCount int
}

// NewMockCompleter creates a mock completer with no canned responses.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{Responses: responses}
}

// Complete records the prompt and returns the next canned response.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.Prompts = append(m.Prompts, prompt)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	if len(m.Responses) == 0 {
		return "", nil
	}
	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return resp, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears recorded prompts, call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.Prompts = nil
	m.Responses = nil
	m.CompleteFunc = nil
}
