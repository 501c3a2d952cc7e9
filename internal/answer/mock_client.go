package answer

import (
	"context"
	"sync"
	"time"
)

// MockClient is a scriptable Answerer for tests.
type MockClient struct {
	// Response is returned for every query unless Err or QueryFunc is set.
	Response string
	// Err, when set, is returned instead of a response.
	Err error
	// Delay simulates service latency; cancellation during the delay wins.
	Delay time.Duration
	// QueryFunc, when set, replaces the canned behavior entirely.
	QueryFunc func(ctx context.Context, text, correlationID string) (*QueryResponse, error)

	mu    sync.Mutex
	calls []QueryRequest
}

var _ Answerer = (*MockClient)(nil)

// NewMockClient creates a mock that echoes a canned answer.
func NewMockClient(response string) *MockClient {
	return &MockClient{Response: response}
}

func (m *MockClient) Query(ctx context.Context, text, correlationID string) (*QueryResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, QueryRequest{Text: text, CorrelationID: correlationID})
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, text, correlationID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &QueryResponse{Answer: m.Response, CorrelationID: correlationID}, nil
}

// Calls returns the queries seen so far.
func (m *MockClient) Calls() []QueryRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]QueryRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
