// Package mock provides a scripted provider.Client for tests and dry runs.
//
// Selected through the registry as "mock", it reads its script from the
// provider options:
//
//	client, _ := provider.New("mock", provider.Config{
//	    Options: map[string]any{"responses": []string{"state one", "state two"}},
//	})
//
// With no responses configured every call answers "mock state N", where N
// counts calls from 1.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/tokens"
)

// ErrScriptExhausted is returned once a FailAfter limit is reached.
var ErrScriptExhausted = fmt.Errorf("%w: mock failure limit reached", provider.ErrUnavailable)

// MockClient is a test double for provider.Client.
// It supports fixed responses, sequential responses, and custom handlers.
// The zero value answers "mock state N" and never fails.
type MockClient struct {
	mu           sync.Mutex
	responses    []string
	responseIdx  int
	err          error
	failAfter    int
	failing      bool
	completeFunc func(ctx context.Context, req provider.Request) (*provider.Response, error)
	counter      tokens.Counter

	// Calls tracks all requests for assertions.
	Calls []provider.Request
}

// NewMockClient creates a mock that returns a fixed response.
func NewMockClient(response string) *MockClient {
	return &MockClient{
		responses: []string{response},
		counter:   tokens.NewEstimatingCounter(),
	}
}

// WithResponses configures sequential responses.
// Each call to Complete returns the next response in the list.
// Cycles back to the beginning after exhausting all responses.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.responses = responses
	return m
}

// WithError configures the mock to always return an error.
func (m *MockClient) WithError(err error) *MockClient {
	m.err = err
	return m
}

// WithFailAfter makes every call after the first n fail with ErrScriptExhausted.
// A negative n never fails.
func (m *MockClient) WithFailAfter(n int) *MockClient {
	m.failAfter = n
	m.failing = n >= 0
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
// This takes precedence over fixed responses.
func (m *MockClient) WithCompleteFunc(fn func(ctx context.Context, req provider.Request) (*provider.Response, error)) *MockClient {
	m.completeFunc = fn
	return m
}

// Complete implements provider.Client.
func (m *MockClient) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	call := len(m.Calls)
	fn := m.completeFunc
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.failing && call > m.failAfter {
		return nil, provider.NewError("mock", "complete", ErrScriptExhausted, false)
	}

	response := fmt.Sprintf("mock state %d", call)
	if len(m.responses) > 0 {
		response = m.responses[m.responseIdx%len(m.responses)]
		m.responseIdx++
	}

	if m.counter == nil {
		m.counter = tokens.NewEstimatingCounter()
	}
	in := m.counter.Count(req.Prompt)
	out := m.counter.Count(response)
	return &provider.Response{
		Content:      response,
		Usage:        provider.TokenUsage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:        "mock-model",
		FinishReason: "stop",
		Duration:     time.Millisecond,
	}, nil
}

// Provider implements provider.Client.
func (m *MockClient) Provider() string {
	return "mock"
}

// Close implements provider.Client.
func (m *MockClient) Close() error {
	return nil
}

// Reset clears the call history and response index.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.responseIdx = 0
}

// CallCount returns the number of times Complete was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or nil if no calls made.
func (m *MockClient) LastCall() *provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	req := m.Calls[len(m.Calls)-1]
	return &req
}
