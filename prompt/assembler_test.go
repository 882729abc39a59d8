package prompt

import (
	"strings"
	"testing"

	"aidbg/model"
)

func TestSystemPromptPerMode(t *testing.T) {
	tests := []struct {
		name string
		mode model.Mode
		want string
	}{
		{"interactive", model.ModeInteractive, "interactive session"},
		{"breakpoint", model.ModeBreakpoint, "stopped at a breakpoint"},
		{"framework", model.ModeFramework, "application framework"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler(tt.mode, "")
			if got := a.SystemPrompt(); !strings.Contains(got, tt.want) {
				t.Errorf("system prompt for %s missing %q", tt.name, tt.want)
			}
		})
	}
}

func TestSystemPromptAddendum(t *testing.T) {
	a := NewAssembler(model.ModeInteractive, "Always answer in French.")
	got := a.SystemPrompt()
	if !strings.Contains(got, "## User-Defined Instructions") {
		t.Error("addendum heading missing")
	}
	if !strings.Contains(got, "Always answer in French.") {
		t.Error("addendum text missing")
	}

	plain := NewAssembler(model.ModeInteractive, "").SystemPrompt()
	if strings.Contains(plain, "User-Defined Instructions") {
		t.Error("empty addendum must not add the heading")
	}
}

func TestUserMessageBreakpointSections(t *testing.T) {
	a := NewAssembler(model.ModeBreakpoint, "")
	snap := &model.ContextSnapshot{
		Source:         &model.SourceLocation{File: "app/worker.go", Line: 42},
		LocalVariables: map[string]string{"count": "3", "name": `"bob"`},
		Self:           &model.SelfInfo{Class: "Worker", Rendered: "#<Worker>"},
		Backtrace:      []string{"worker.go:42", "main.go:10"},
		SessionHistory: []string{"[cmd] next", "[ai] Q: why? A: because"},
	}

	msg := a.UserMessage("why did it stop here?", snap)

	for _, want := range []string{
		"## Current Debug Context",
		"### Source Location",
		"File: app/worker.go",
		"Line: 42",
		"### Local Variables",
		"- count: 3",
		"- name: \"bob\"",
		"### Current Object (self)",
		"Class: Worker",
		"### Backtrace",
		"worker.go:42",
		"[cmd] next",
		"## Question",
		"why did it stop here?",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q", want)
		}
	}

	// variables sorted for stable prompts
	if strings.Index(msg, "- count:") > strings.Index(msg, "- name:") {
		t.Error("local variables not sorted")
	}
}

func TestUserMessageInteractiveSections(t *testing.T) {
	a := NewAssembler(model.ModeInteractive, "")
	snap := &model.ContextSnapshot{
		SessionHistory: []string{"a = 1", "b = 2"},
		LastValue:      "2",
		LastException: &model.ExceptionInfo{
			Class:     "DivisionError",
			Message:   "divided by 0",
			Backtrace: []string{"calc.go:7"},
		},
	}

	msg := a.UserMessage("what went wrong?", snap)

	for _, want := range []string{
		"### Session History (Previous Inputs)",
		"a = 1",
		"### Last Evaluation Result",
		"### Last Exception",
		"Class: DivisionError",
		"Message: divided by 0",
		"  calc.go:7",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q", want)
		}
	}
}

func TestUserMessageNilSnapshot(t *testing.T) {
	a := NewAssembler(model.ModeInteractive, "")
	msg := a.UserMessage("hello", nil)
	if !strings.Contains(msg, "(no context captured)") {
		t.Error("nil snapshot placeholder missing")
	}
	if !strings.Contains(msg, "hello") {
		t.Error("question missing")
	}
}

func TestEmptySectionsRenderPlaceholders(t *testing.T) {
	a := NewAssembler(model.ModeInteractive, "")
	msg := a.UserMessage("q", &model.ContextSnapshot{})
	if !strings.Contains(msg, "(none)") {
		t.Error("empty sections must render (none)")
	}
}
