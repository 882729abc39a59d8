package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const defaultHistoryLimit = 20

// SessionHistory returns a condensed view of the recent conversation so the
// model can recall earlier findings without the full transcript.
type SessionHistory struct{}

func NewSessionHistory() *SessionHistory { return &SessionHistory{} }

func (t *SessionHistory) Name() string { return "session_history" }

func (t *SessionHistory) Description() string {
	return "Summarize the most recent exchanges in this session, newest last."
}

func (t *SessionHistory) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"limit": map[string]any{
			"type":        "integer",
			"description": "Maximum number of entries to return (default 20)",
		},
	})
}

func (t *SessionHistory) Available() bool { return true }

func (t *SessionHistory) Execute(h *Handle, args map[string]any) map[string]any {
	if h == nil || h.Session == nil {
		return errResult("no active session")
	}
	limit, ok := intArg(args, "limit")
	if !ok || limit <= 0 {
		limit = defaultHistoryLimit
	}
	entries := h.Session.History.Summary()
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return map[string]any{"entries": entries, "count": len(entries)}
}
