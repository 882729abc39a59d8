// Package testutil provides a configurable mock provider for engine and
// provider tests.
package testutil

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"aidbg/model"
)

// MockProvider implements model.Provider for testing. Override the function
// fields to script behavior; defaults return a plain text response.
type MockProvider struct {
	ChatFunc func(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*model.Response, error)
	PingFunc func(ctx context.Context) error

	// Requests counts Chat calls made against this mock.
	Requests int
}

// NewMockProvider creates a mock provider with default implementations.
func NewMockProvider() *MockProvider {
	mock := &MockProvider{}
	mock.ChatFunc = mock.defaultChat
	mock.PingFunc = func(ctx context.Context) error { return nil }
	return mock
}

func (m *MockProvider) defaultChat(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*model.Response, error) {
	return &model.Response{Text: "Mock response"}, nil
}

func (m *MockProvider) Chat(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*model.Response, error) {
	m.Requests++
	return m.ChatFunc(ctx, messages, systemPrompt, tools)
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
