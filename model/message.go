// Package model defines aidbg's provider-agnostic core types.
//
// The assistant supports multiple LLM providers (Anthropic, OpenAI, Ollama)
// through a common Provider interface. Provider implementations convert
// between these types and vendor-specific request/response shapes, so the
// orchestration engine, session layer and tools never see a vendor API.
package model

// Role identifies the sender of a normalized transcript entry.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolCall   Role = "tool_call"
	RoleToolResult Role = "tool_result"
)

// NormalizedMessage is one entry of the provider-agnostic wire form of a
// conversation. User and assistant entries carry Content; tool_call entries
// carry Name/Args/CallID; tool_result entries carry Result/CallID.
//
// Ordering is causal: a tool_result never precedes its tool_call, and the
// pairs attached to an assistant entry follow it immediately, before any
// later user entry.
type NormalizedMessage struct {
	Role    Role
	Content string
	Name    string
	Args    map[string]any
	Result  map[string]any
	CallID  string
}

// FunctionCall is a model-issued request to invoke a named tool.
// ID may be empty for providers that do not supply call ids; the engine
// synthesizes one before dispatch.
type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Response is the structured result of one provider request.
//
// Err together with a non-empty FunctionCalls list is a soft error: the
// engine proceeds with the tool calls. Err with no calls ends the turn.
type Response struct {
	Text          string
	FunctionCalls []FunctionCall
	Err           string
	Raw           any
}

// FunctionCall reports whether the response carries at least one tool call.
func (r *Response) FunctionCall() bool {
	return len(r.FunctionCalls) > 0
}
