package llm

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a scripted Client for tests. Each call to Complete consumes the
// next queued response (or error) in order and records the request.
type Mock struct {
	mu        sync.Mutex
	responses []mockResponse
	Requests  []Request
}

type mockResponse struct {
	content string
	err     error
}

// NewMock creates an empty Mock; queue responses with Respond and Fail.
func NewMock() *Mock {
	return &Mock{}
}

// Respond queues a successful completion with the given content.
func (m *Mock) Respond(content string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{content: content})
	return m
}

// Fail queues a failed completion.
func (m *Mock) Fail(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{err: err})
	return m
}

// Calls returns the number of completions consumed so far.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Complete replays the next scripted response.
func (m *Mock) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock: no scripted response for call %d", len(m.Requests))
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &Response{Content: next.content}, nil
}
