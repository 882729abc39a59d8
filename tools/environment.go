package tools

import (
	"os"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// CurrentDirectory reports the working directory so the model can anchor
// relative paths.
type CurrentDirectory struct{}

func NewCurrentDirectory() *CurrentDirectory { return &CurrentDirectory{} }

func (t *CurrentDirectory) Name() string { return "current_directory" }

func (t *CurrentDirectory) Description() string {
	return "Return the current working directory of the session."
}

func (t *CurrentDirectory) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{})
}

func (t *CurrentDirectory) Available() bool { return true }

func (t *CurrentDirectory) Execute(h *Handle, args map[string]any) map[string]any {
	if h != nil && h.WorkDir != "" {
		return map[string]any{"directory": h.WorkDir}
	}
	dir, err := os.Getwd()
	if err != nil {
		return errResult(err.Error())
	}
	return map[string]any{"directory": dir}
}
