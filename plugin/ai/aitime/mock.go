package aitime

import (
	"context"
	"sync"
)

// MockExternalResolver is a scripted ExternalResolver for tests.
type MockExternalResolver struct {
	mu sync.Mutex

	Response OpenAITimeResolve
	OpID     string
	Model    string
	Err      error

	Calls []ExternalRequest
}

// ResolveTime implements ExternalResolver.
func (m *MockExternalResolver) ResolveTime(_ context.Context, req ExternalRequest) (*ExternalResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &ExternalResult{Response: m.Response, OpID: m.OpID, Model: m.Model}, nil
}

// CallCount returns how many times ResolveTime was invoked.
func (m *MockExternalResolver) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
