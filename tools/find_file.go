package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const maxFindMatches = 50

// FindFile locates files by name pattern under the working directory.
type FindFile struct{}

func NewFindFile() *FindFile { return &FindFile{} }

func (t *FindFile) Name() string { return "find_file" }

func (t *FindFile) Description() string {
	return "Find files whose name matches a glob pattern or substring under the working directory."
}

func (t *FindFile) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"pattern": map[string]any{
			"type":        "string",
			"description": "Glob pattern (e.g. *.go) or name substring to match",
		},
	}, "pattern")
}

func (t *FindFile) Available() bool { return true }

func (t *FindFile) Execute(h *Handle, args map[string]any) map[string]any {
	pattern := stringArg(args, "pattern")
	if pattern == "" {
		return errResult("pattern is required")
	}

	root := "."
	if h != nil && h.WorkDir != "" {
		root = h.WorkDir
	}

	var matches []string
	truncated := false
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		name := d.Name()
		if d.IsDir() {
			if name == ".git" || name == "node_modules" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		ok, globErr := filepath.Match(pattern, name)
		if globErr != nil || !ok {
			ok = strings.Contains(name, pattern)
		}
		if ok {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			matches = append(matches, rel)
			if len(matches) >= maxFindMatches {
				truncated = true
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return errResult(fmt.Sprintf("search failed: %v", err))
	}

	return map[string]any{
		"pattern":   pattern,
		"matches":   matches,
		"count":     len(matches),
		"truncated": truncated,
	}
}
