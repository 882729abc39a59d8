package tools

import (
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// fakeTool is a scriptable tool for registry tests.
type fakeTool struct {
	name      string
	available func() bool
	execute   func(h *Handle, args map[string]any) map[string]any
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake" }
func (f *fakeTool) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{})
}
func (f *fakeTool) Available() bool {
	if f.available == nil {
		return true
	}
	return f.available()
}
func (f *fakeTool) Execute(h *Handle, args map[string]any) map[string]any {
	if f.execute == nil {
		return map[string]any{"ok": true}
	}
	return f.execute(h, args)
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	tool := &fakeTool{name: "echo"}
	r.Register(tool)
	r.Register(tool)
	r.Register(&fakeTool{name: "echo"})

	if got := len(r.Available()); got != 1 {
		t.Errorf("expected 1 available tool, got %d", got)
	}
}

func TestRegistryAvailabilityReevaluated(t *testing.T) {
	attached := false
	r := NewRegistry()
	r.Register(&fakeTool{name: "always"})
	r.Register(&fakeTool{name: "debug_only", available: func() bool { return attached }})

	if got := len(r.Available()); got != 1 {
		t.Fatalf("expected 1 tool before attach, got %d", got)
	}

	attached = true
	avail := r.Available()
	if len(avail) != 2 {
		t.Fatalf("expected 2 tools after attach, got %d", len(avail))
	}
	// registration order is preserved
	if avail[0].Name() != "always" || avail[1].Name() != "debug_only" {
		t.Errorf("unexpected order: %s, %s", avail[0].Name(), avail[1].Name())
	}
}

func TestRegistryDeclarations(t *testing.T) {
	r := NewRegistry()
	r.Register(NewReadFile())
	r.Register(&fakeTool{name: "hidden", available: func() bool { return false }})

	decls := r.Declarations()
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(decls))
	}
	if decls[0].Name != "read_file" {
		t.Errorf("unexpected declaration: %s", decls[0].Name)
	}
	if decls[0].InputSchema.Type != "object" {
		t.Errorf("unexpected schema type: %s", decls[0].InputSchema.Type)
	}
}

func TestRegistryFind(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "echo"})

	if _, ok := r.Find("echo"); !ok {
		t.Error("expected to find registered tool")
	}
	if _, ok := r.Find("nope"); ok {
		t.Error("expected absent tool to be not found")
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"s":     "text",
		"f":     float64(7),
		"i":     3,
		"b":     true,
		"wrong": []int{1},
	}

	if got := stringArg(args, "s"); got != "text" {
		t.Errorf("stringArg = %q", got)
	}
	if got := stringArg(args, "missing"); got != "" {
		t.Errorf("stringArg missing = %q", got)
	}

	if got, ok := intArg(args, "f"); !ok || got != 7 {
		t.Errorf("intArg float64 = %d, %v", got, ok)
	}
	if got, ok := intArg(args, "i"); !ok || got != 3 {
		t.Errorf("intArg int = %d, %v", got, ok)
	}
	if _, ok := intArg(args, "wrong"); ok {
		t.Error("intArg must reject non-numeric values")
	}

	if !boolArg(args, "b") {
		t.Error("boolArg = false, want true")
	}
	if boolArg(args, "missing") {
		t.Error("boolArg missing = true, want false")
	}
}

func TestBindingToolsDegradeWithoutBinding(t *testing.T) {
	h := &Handle{}

	tests := []struct {
		name string
		tool Tool
		args map[string]any
	}{
		{"evaluate_code", NewEvaluateCode(), map[string]any{"code": "1+1"}},
		{"inspect_object", NewInspectObject(), map[string]any{"expression": "x"}},
		{"list_methods", NewListMethods(), map[string]any{"expression": "x"}},
		{"get_source", NewGetSource(), map[string]any{"target": "Foo.bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.tool.Execute(h, tt.args)
			if _, ok := result["error"]; !ok {
				t.Errorf("expected error result without a binding, got %v", result)
			}
		})
	}
}

func TestRunDebugCommandExitsLoop(t *testing.T) {
	tool := NewRunDebugCommand(nil)
	if !tool.ExitsLoop() {
		t.Error("run_debug_command must be loop-exiting")
	}
	if tool.Available() {
		t.Error("must be unavailable without a debugger")
	}

	result := tool.Execute(&Handle{}, map[string]any{"command": "next"})
	if _, ok := result["error"]; !ok {
		t.Errorf("expected error without a debugger, got %v", result)
	}
}
