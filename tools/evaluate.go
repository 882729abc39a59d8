package tools

import (
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// EvaluateCode executes an expression in the host runtime's current scope.
// This is the model's primary way to verify hypotheses against live state.
type EvaluateCode struct{}

func NewEvaluateCode() *EvaluateCode { return &EvaluateCode{} }

func (t *EvaluateCode) Name() string { return "evaluate_code" }

func (t *EvaluateCode) Description() string {
	return "Evaluate an expression in the current execution scope and return its result. " +
		"Use this to verify hypotheses, perform calculations, and inspect live state."
}

func (t *EvaluateCode) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"code": map[string]any{
			"type":        "string",
			"description": "Expression to evaluate in the current scope",
		},
	}, "code")
}

func (t *EvaluateCode) Available() bool { return true }

func (t *EvaluateCode) Execute(h *Handle, args map[string]any) map[string]any {
	code := stringArg(args, "code")
	if code == "" {
		return errResult("code is required")
	}
	if h == nil || h.Binding == nil {
		return errResult("no binding available for code evaluation")
	}
	result, err := h.Binding.Eval(code)
	if err != nil {
		return errResult(fmt.Sprintf("evaluation failed: %v", err))
	}
	return map[string]any{"code": code, "result": result}
}

// InspectObject renders the value of an expression in detail.
type InspectObject struct{}

func NewInspectObject() *InspectObject { return &InspectObject{} }

func (t *InspectObject) Name() string { return "inspect_object" }

func (t *InspectObject) Description() string {
	return "Inspect the value of an expression in detail: its type, fields and a full rendering."
}

func (t *InspectObject) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"expression": map[string]any{
			"type":        "string",
			"description": "Expression whose value should be inspected",
		},
	}, "expression")
}

func (t *InspectObject) Available() bool { return true }

func (t *InspectObject) Execute(h *Handle, args map[string]any) map[string]any {
	expr := stringArg(args, "expression")
	if expr == "" {
		return errResult("expression is required")
	}
	if h == nil || h.Binding == nil {
		return errResult("no binding available for inspection")
	}
	rendered, err := h.Binding.Inspect(expr)
	if err != nil {
		return errResult(fmt.Sprintf("inspection failed: %v", err))
	}
	return map[string]any{"expression": expr, "rendered": rendered}
}

// ListMethods enumerates the methods callable on the value of an expression.
type ListMethods struct{}

func NewListMethods() *ListMethods { return &ListMethods{} }

func (t *ListMethods) Name() string { return "list_methods" }

func (t *ListMethods) Description() string {
	return "List the methods available on the value of an expression."
}

func (t *ListMethods) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"expression": map[string]any{
			"type":        "string",
			"description": "Expression whose methods should be listed",
		},
	}, "expression")
}

func (t *ListMethods) Available() bool { return true }

func (t *ListMethods) Execute(h *Handle, args map[string]any) map[string]any {
	expr := stringArg(args, "expression")
	if expr == "" {
		return errResult("expression is required")
	}
	if h == nil || h.Binding == nil {
		return errResult("no binding available for introspection")
	}
	methods, err := h.Binding.Methods(expr)
	if err != nil {
		return errResult(fmt.Sprintf("method lookup failed: %v", err))
	}
	return map[string]any{"expression": expr, "methods": methods, "count": len(methods)}
}

// GetSource retrieves the definition site and source text of a method or
// constant known to the host runtime.
type GetSource struct{}

func NewGetSource() *GetSource { return &GetSource{} }

func (t *GetSource) Name() string { return "get_source" }

func (t *GetSource) Description() string {
	return "Retrieve the source location and text of a method or constant definition."
}

func (t *GetSource) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"target": map[string]any{
			"type":        "string",
			"description": "Name of the method or constant to locate (e.g. Type.Method)",
		},
	}, "target")
}

func (t *GetSource) Available() bool { return true }

func (t *GetSource) Execute(h *Handle, args map[string]any) map[string]any {
	target := stringArg(args, "target")
	if target == "" {
		return errResult("target is required")
	}
	if h == nil || h.Binding == nil {
		return errResult("no binding available for source lookup")
	}
	file, line, text, err := h.Binding.Source(target)
	if err != nil {
		return errResult(fmt.Sprintf("source lookup failed: %v", err))
	}
	return map[string]any{"target": target, "file": file, "line": line, "source": text}
}
