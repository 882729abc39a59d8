package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const maxReadLines = 500

// ReadFile returns a file's content, optionally restricted to a line range.
type ReadFile struct{}

func NewReadFile() *ReadFile { return &ReadFile{} }

func (t *ReadFile) Name() string { return "read_file" }

func (t *ReadFile) Description() string {
	return "Read the content of a source file, optionally limited to a line range. " +
		"Use this to inspect code referenced by backtraces or source locations."
}

func (t *ReadFile) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "Path of the file to read (absolute, or relative to the working directory)",
		},
		"start_line": map[string]any{
			"type":        "integer",
			"description": "First line to include (1-based, optional)",
		},
		"end_line": map[string]any{
			"type":        "integer",
			"description": "Last line to include (1-based, optional)",
		},
	}, "path")
}

func (t *ReadFile) Available() bool { return true }

func (t *ReadFile) Execute(h *Handle, args map[string]any) map[string]any {
	path := stringArg(args, "path")
	if path == "" {
		return errResult("path is required")
	}
	if !filepath.IsAbs(path) && h != nil && h.WorkDir != "" {
		path = filepath.Join(h.WorkDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errResult(fmt.Sprintf("failed to read file: %v", err))
	}

	lines := strings.Split(string(data), "\n")
	total := len(lines)

	start := 1
	end := total
	if v, ok := intArg(args, "start_line"); ok && v > 0 {
		start = v
	}
	if v, ok := intArg(args, "end_line"); ok && v > 0 && v < end {
		end = v
	}
	if start > total {
		return errResult(fmt.Sprintf("start_line %d is past the end of the file (%d lines)", start, total))
	}
	if end < start {
		return errResult(fmt.Sprintf("end_line %d is before start_line %d", end, start))
	}
	truncated := false
	if end-start+1 > maxReadLines {
		end = start + maxReadLines - 1
		truncated = true
	}

	return map[string]any{
		"path":        path,
		"content":     strings.Join(lines[start-1:end], "\n"),
		"start_line":  start,
		"end_line":    end,
		"total_lines": total,
		"truncated":   truncated,
	}
}
