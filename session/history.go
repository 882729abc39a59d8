// Package session owns the per-conversation state: the transcript, the
// auto-continue state machine and persistence. One Session object per
// logical conversation keeps independent sessions (and tests) isolated
// without any global state.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"aidbg/model"
)

// ToolRecord is one settled tool-call/tool-result pair.
type ToolRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Args     map[string]any `json:"args"`
	Result   map[string]any `json:"result"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Message is one transcript entry. Role is "user" or "model"; a model
// message owns the tool-call/result pairs that preceded it in the same turn.
type Message struct {
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	ToolCalls []ToolRecord `json:"tool_calls,omitempty"`
}

// History is the ordered, append-only conversation transcript plus a staging
// area for tool pairs whose owning assistant message has not arrived yet.
//
// History has exactly one writer (the orchestration loop); it is not safe
// for concurrent use.
type History struct {
	messages []Message
	pending  []ToolRecord
}

func NewHistory() *History {
	return &History{}
}

// AddUserMessage appends a user turn.
func (h *History) AddUserMessage(content string) {
	h.messages = append(h.messages, Message{Role: "user", Content: content})
}

// AddAssistantMessage appends an assistant turn, attaching any pending
// tool-call/result pairs to it and clearing the staging area.
func (h *History) AddAssistantMessage(content string) {
	msg := Message{Role: "model", Content: content}
	if len(h.pending) > 0 {
		msg.ToolCalls = append([]ToolRecord(nil), h.pending...)
		h.pending = h.pending[:0]
	}
	h.messages = append(h.messages, msg)
}

// AddToolCall stages a tool-call/result pair until the assistant's concluding
// text for the turn arrives. An empty id is replaced with a fresh UUID so
// every pair is addressable even when the provider supplied none.
func (h *History) AddToolCall(name string, args, result map[string]any, id string) {
	if id == "" {
		id = uuid.NewString()
	}
	h.pending = append(h.pending, ToolRecord{ID: id, Name: name, Args: args, Result: result})
}

// Normalized converts the transcript to the provider-agnostic wire form:
// settled messages in original order, each followed immediately by its
// attached tool pairs, then any still-pending pairs at the end. A pending
// call whose result never arrived (interrupted turn) is emitted with a nil
// result; providers tolerate it.
func (h *History) Normalized() []model.NormalizedMessage {
	var out []model.NormalizedMessage
	for _, msg := range h.messages {
		role := model.RoleUser
		if msg.Role == "model" {
			role = model.RoleAssistant
		}
		out = append(out, model.NormalizedMessage{Role: role, Content: msg.Content})
		out = appendPairs(out, msg.ToolCalls)
	}
	return appendPairs(out, h.pending)
}

func appendPairs(out []model.NormalizedMessage, pairs []ToolRecord) []model.NormalizedMessage {
	for _, tc := range pairs {
		out = append(out,
			model.NormalizedMessage{Role: model.RoleToolCall, Name: tc.Name, Args: tc.Args, CallID: tc.ID},
			model.NormalizedMessage{Role: model.RoleToolResult, Name: tc.Name, Result: tc.Result, CallID: tc.ID},
		)
	}
	return out
}

// Messages returns a copy of the settled transcript.
func (h *History) Messages() []Message {
	return append([]Message(nil), h.messages...)
}

// Len returns the number of settled messages.
func (h *History) Len() int {
	return len(h.messages)
}

// Clear drops the transcript and the staging area.
func (h *History) Clear() {
	h.messages = nil
	h.pending = nil
}

// Summary renders one preview line per settled message, for the /history
// console view and the session_history tool.
func (h *History) Summary() []string {
	out := make([]string, 0, len(h.messages))
	for _, msg := range h.messages {
		label := "USER"
		if msg.Role == "model" {
			label = "AI"
		}
		out = append(out, fmt.Sprintf("%s: %s", label, truncate(msg.Content, 50)))
	}
	return out
}

// truncate shortens s to at most n runes, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
