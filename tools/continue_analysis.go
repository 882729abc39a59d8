package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ContinueAnalysis lets the model request another analysis round after the
// current turn finishes. Availability is decided by the host, typically
// gated on an attached debugger or a framework hook.
type ContinueAnalysis struct {
	available func() bool
}

// NewContinueAnalysis builds the tool with an availability predicate. A nil
// predicate makes it always available.
func NewContinueAnalysis(available func() bool) *ContinueAnalysis {
	return &ContinueAnalysis{available: available}
}

func (t *ContinueAnalysis) Name() string { return "continue_analysis" }

func (t *ContinueAnalysis) Description() string {
	return "Request another analysis round after this response completes. Use this " +
		"when the investigation is not finished and you need the next state to proceed."
}

func (t *ContinueAnalysis) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"reason": map[string]any{
			"type":        "string",
			"description": "Short note on why the analysis should continue",
		},
	})
}

func (t *ContinueAnalysis) Available() bool {
	if t.available == nil {
		return true
	}
	return t.available()
}

func (t *ContinueAnalysis) Execute(h *Handle, args map[string]any) map[string]any {
	if h == nil || h.Session == nil {
		return errResult("no active session")
	}
	h.Session.AutoContinue.Request()
	result := map[string]any{
		"success": true,
		"message": "Analysis will continue after this response.",
	}
	if reason := stringArg(args, "reason"); reason != "" {
		result["reason"] = reason
	}
	return result
}
