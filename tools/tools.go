// Package tools defines the capability contract between the orchestration
// engine and the actions the model may take, plus the built-in tool set:
// file access, host-runtime evaluation and introspection, session history,
// and the continuation/debugger-navigation actions.
//
// Tool declarations are exported as MCP tool schemas
// (github.com/mark3labs/mcp-go/mcp); the provider layer converts those to
// each vendor's function-calling format.
package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"aidbg/model"
	"aidbg/session"
)

// Handle is the per-call execution context passed to every tool. Fields may
// be nil when the corresponding collaborator is absent; tools degrade to an
// {error} result instead of failing the loop.
type Handle struct {
	Binding  model.Binding
	Debugger model.Debugger
	Session  *session.Session
	WorkDir  string
}

// Tool is one capability invocable by the model.
//
// Execute returns a result map for the model; failure is signalled with an
// "error" key, never with a panic to the caller. The dispatching loop guards
// against panics anyway, so a misbehaving tool degrades to an error result.
type Tool interface {
	Name() string
	Description() string
	Schema() mcptypes.ToolInputSchema
	Available() bool
	Execute(h *Handle, args map[string]any) map[string]any
}

// LoopExiting marks tools whose effect must be observed by the host before
// the model can reason further (debugger navigation). After dispatching such
// a tool the engine stops the current request batch and yields control.
type LoopExiting interface {
	ExitsLoop() bool
}

// Registry holds the capabilities currently invocable by the model.
// Registration is explicit; names are stable string keys.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a name twice is a no-op, so dynamic
// registrations (a debug tool added when a debugger attaches) are idempotent.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, ok := r.tools[name]; ok {
		return
	}
	r.tools[name] = t
	r.order = append(r.order, name)
}

// Find resolves a tool by name.
func (r *Registry) Find(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Available returns the tools whose availability predicate currently holds.
// Predicates are re-evaluated on every call — availability can change with
// runtime mode, e.g. when a debugger attaches.
func (r *Registry) Available() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		if t := r.tools[name]; t.Available() {
			out = append(out, t)
		}
	}
	return out
}

// Declarations returns the MCP declarations of the currently available tools,
// in registration order, for sending to the provider.
func (r *Registry) Declarations() []mcptypes.Tool {
	avail := r.Available()
	out := make([]mcptypes.Tool, 0, len(avail))
	for _, t := range avail {
		out = append(out, mcptypes.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		})
	}
	return out
}

// errResult builds the conventional failure result.
func errResult(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// stringArg extracts a string argument, tolerating absent values.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg extracts an integer argument; JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// boolArg extracts a boolean argument.
func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// objectSchema builds the common single-level parameter schema.
func objectSchema(properties map[string]any, required ...string) mcptypes.ToolInputSchema {
	return mcptypes.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
