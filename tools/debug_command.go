package tools

import (
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"aidbg/model"
)

var knownDebugCommands = []string{
	"step", "next", "finish", "continue", "up", "down",
	"break", "delete", "info", "backtrace", "frame", "list",
}

// RunDebugCommand queues a stepping or breakpoint command against an
// attached interactive debugger. The command runs after the current
// model turn ends, so the tool exits the batch loop.
type RunDebugCommand struct {
	dbg model.Debugger
}

func NewRunDebugCommand(dbg model.Debugger) *RunDebugCommand {
	return &RunDebugCommand{dbg: dbg}
}

func (t *RunDebugCommand) Name() string { return "run_debug_command" }

func (t *RunDebugCommand) Description() string {
	return "Run a debugger command such as step, next, finish, continue, up, down, " +
		"break <file:line> or info. The command executes after this response, and " +
		"execution resumes at the new position. Set auto_continue to true to keep " +
		"analyzing automatically once the debugger stops again."
}

func (t *RunDebugCommand) Schema() mcptypes.ToolInputSchema {
	return objectSchema(map[string]any{
		"command": map[string]any{
			"type":        "string",
			"description": "Debugger command to run (step, next, finish, continue, up, down, break <location>, info ...)",
		},
		"auto_continue": map[string]any{
			"type":        "boolean",
			"description": "Continue the analysis automatically after the debugger stops",
		},
	}, "command")
}

func (t *RunDebugCommand) Available() bool {
	return t.dbg != nil && t.dbg.Attached()
}

// ExitsLoop reports that this tool ends the current batch: the queued
// command cannot take effect until control returns to the debugger.
func (t *RunDebugCommand) ExitsLoop() bool { return true }

func (t *RunDebugCommand) Execute(h *Handle, args map[string]any) map[string]any {
	command := strings.TrimSpace(stringArg(args, "command"))
	if command == "" {
		return errResult("command is required")
	}
	if t.dbg == nil || !t.dbg.Attached() {
		return errResult("no debugger attached")
	}

	word := command
	if i := strings.IndexByte(command, ' '); i >= 0 {
		word = command[:i]
	}
	if !isKnownDebugCommand(word) {
		return errResult(fmt.Sprintf("unsupported debugger command: %s", word))
	}

	autoContinue := boolArg(args, "auto_continue")
	if autoContinue && h != nil && h.Session != nil {
		h.Session.AutoContinue.Request()
	}

	t.dbg.QueueCommand(command)
	return map[string]any{
		"success":       true,
		"command":       command,
		"auto_continue": autoContinue,
		"message":       fmt.Sprintf("Queued debugger command %q; it runs when this response completes.", command),
	}
}

func isKnownDebugCommand(word string) bool {
	for _, c := range knownDebugCommands {
		if word == c {
			return true
		}
	}
	return false
}
