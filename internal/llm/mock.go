package llm

import (
	"context"
	"sync"
)

// MockClient is a test double for the Client interface. Safe for
// concurrent callers.
type MockClient struct {
	Response *Response
	Err      error

	mu    sync.Mutex
	calls []string
}

// Complete records the call and returns the mock response.
func (m *MockClient) Complete(ctx context.Context, prompt string) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()
	return m.Response, m.Err
}

// Calls returns a copy of the prompts sent so far.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
