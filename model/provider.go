package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Provider abstracts LLM provider implementations (Anthropic, OpenAI, Ollama).
//
// This interface lives in the model package (not the provider package) to
// avoid import cycles: provider implementations import model, and the engine
// can use the Provider interface without importing the provider package.
//
// Chat is the single place where vendor-specific request/response shapes are
// translated. Implementations must honor context cancellation, because the
// engine cancels the in-flight request on a user interrupt.
type Provider interface {
	// Chat sends the normalized conversation plus a system prompt and tool
	// declarations, and returns the structured response. A transport failure
	// is returned as an error; an API-level failure that still produced a
	// usable response is reported in Response.Err.
	Chat(ctx context.Context, messages []NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*Response, error)

	// Name returns the provider's identifier ("anthropic", "openai", "ollama").
	Name() string

	// Ping checks if the provider is reachable with the configured credentials.
	Ping(ctx context.Context) error
}
