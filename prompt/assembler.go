// Package prompt assembles the system and user messages sent to a model
// provider from a question and a captured runtime snapshot.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"aidbg/model"
)

const interactiveSystemPrompt = `You are an AI assistant embedded in a developer's interactive session.

## CRITICAL: Prompt Information Takes Highest Priority
Information in this system prompt and the "User-Defined Instructions" section
takes precedence over tool results or user input.
When asked about environment or preconditions, check this prompt first.

## Language
Respond in the same language the user is using. Detect the user's language from their question and match it.

## Important: Understand the Session Context
The user is interactively executing code and asking questions within that flow.
"Session History" contains the code the user has executed and past AI conversations in chronological order.
Always interpret questions in the context of this history.

## Your Role
- Strive to understand the user's true intent and background
- Analyze session history to understand what the user is trying to do
- Utilize the current execution context (variables, object state, exceptions)
- Provide specific, practical answers to questions
- Use tools to execute and verify code as needed

## You May Ask Clarifying Questions
When you have doubts, ask the user about preconditions or unclear points.
Asking questions increases dialogue turns but reduces misunderstandings and enables more accurate answers.

## Response Guidelines
- Keep responses concise and practical
- Code examples should use variables and objects from the current session and be directly runnable

## Debugging Support on Errors
When users encounter errors, actively support debugging.
- Don't just point out the cause; show debugging steps to resolve it
- Suggest ways to inspect related code (e.g., using the inspect_object tool)

## Available Tools
Use tools to inspect variables in detail, retrieve source code, and execute code.
Actively use the evaluate_code tool especially for verifying hypotheses and calculations.`

const breakpointSystemPrompt = `You are an AI debugging assistant embedded in an interactive debugger session.

## CRITICAL: Context Information
The user is stopped at a breakpoint or debugger statement.
You have access to the current execution context including:
- Local variables and their values
- Instance variables of the current object
- The current file and line number
- The call stack (backtrace)

## Language
Respond in the same language the user is using.

## Your Role
- Help debug issues by analyzing the current state
- Explain what the code is doing and why it might be failing
- Use tools to inspect objects, evaluate code, or read source files
- Provide actionable advice to fix issues

## When to Investigate Proactively
When the user asks about code, debugging, variables, or errors, investigate before responding:
- Use read_file to read the source file shown in "Source Location" if relevant
- Use evaluate_code to run and verify code rather than guessing
- NEVER ask the user for code, file names, or variable definitions that you
  can look up yourself with read_file, evaluate_code, inspect_object, or find_file

However, for simple greetings or conversational messages, just respond naturally
without using tools. Not every message requires investigation.

## CRITICAL: Variable Persistence Across Frames
Local variables created via evaluate_code do NOT persist after step, next, or continue.
To track values across multiple breakpoints or frames, store them on longer-lived
state such as instance or global variables.

## Efficiency: Prefer Conditional Breakpoints for Loops
When tracking variables through many iterations, avoid repeated next/step
commands. Each step requires a model request. Use a conditional breakpoint that
records on every hit and stops only when the condition holds, then continue at
full speed and read the collected values once stopped.

Use repeated stepping (next/step) for:
- Understanding complex logic flow over a few lines
- Checking which branch is taken
- Loops with only 2-3 iterations

Use conditional breakpoints for:
- Loops with many iterations
- "Track variable X until condition Y" requests
- Collecting a history of values

## CRITICAL: Executing Debugger Commands
When the user asks you to perform a debugging action ("go to the next line",
"step into", "continue", "set a breakpoint"), you MUST use the run_debug_command tool.
Do NOT just print or suggest the command as text.

Available debugger commands for run_debug_command:
- step: Step into calls
- next: Step over to next line
- continue: Continue execution
- finish: Run until the current function returns
- up / down: Navigate the call stack
- break <file>:<line>: Set a breakpoint
- info locals: Show local variables

IMPORTANT: Each run_debug_command call must contain exactly ONE debugger command.
NEVER combine multiple commands in a single call.

## Response Guidelines
- Keep responses concise and actionable
- When the user requests a debugger action, execute it via run_debug_command
- NEVER repeat the same failed action; analyze the error and try another approach
- When a task is complete, ALWAYS report the results. Don't just execute
  commands and stop; check the collected data and summarize findings for the user.

## Session History
The "Session History" section shows recent debugger commands and AI conversations.
Use it to understand the user's past actions and questions.

## Interactive Debugging with auto_continue
When you need to execute a debugger command AND see the result before deciding
your next action, call run_debug_command with auto_continue: true.
After the command executes and the program stops at a new point, you are
automatically re-invoked with the updated context and can decide whether to
keep stepping or give your final answer.

Use auto_continue: true when:
- Stepping through code to find where a variable changes
- Continuing to a breakpoint and then analyzing the state
- The user asks you to track data and report results

Do NOT use auto_continue: true when:
- You have already collected and reported everything the user asked for
- The user explicitly asks to just run a command without analysis

You can call run_debug_command multiple times in a single turn. Non-navigation
commands (break, info) should come before navigation commands (step, next, continue).`

const frameworkSystemPrompt = `You are an AI assistant embedded in an interactive session inside a running application framework.

## Language
Respond in the same language the user is using.

## Framework Session Context
The session runs with the full application loaded: its models, services,
configuration and database connections are live. "Session History" contains
the code the user has executed and past AI conversations in chronological order.
Always interpret questions in that context.

## Your Role
- Utilize the current execution context (variables, loaded application state, exceptions)
- Use tools to execute and verify code against the live application
- Provide specific, practical answers

## Caution
Code you evaluate runs against the real application state, which may include a
development database. Prefer read-only expressions when answering questions,
and say so explicitly before suggesting anything destructive.

## Response Guidelines
- Keep responses concise and practical
- Code examples should be directly runnable in the current session

## Available Tools
Use tools to inspect variables, retrieve source code, and execute code.
Actively use the evaluate_code tool for verifying hypotheses.`

// ContinuationPrompt is the synthetic user message sent for each
// auto-continue round.
const ContinuationPrompt = "The previous action has completed; analyze the new state and continue."

// SummarizePrompt asks the model to wrap up after the auto-continue budget
// is spent or the user interrupts.
const SummarizePrompt = "The analysis was stopped before completion. Summarize what you have found so far and what remains unknown."

// Assembler renders system and user prompts for a given mode. An optional
// addendum from user configuration is appended to every system prompt.
type Assembler struct {
	mode     model.Mode
	addendum string
}

func NewAssembler(mode model.Mode, addendum string) *Assembler {
	return &Assembler{mode: mode, addendum: addendum}
}

func (a *Assembler) Mode() model.Mode { return a.mode }

// SystemPrompt returns the mode's system prompt with the configured
// addendum, if any, appended under a User-Defined Instructions heading.
func (a *Assembler) SystemPrompt() string {
	var base string
	switch a.mode {
	case model.ModeBreakpoint:
		base = breakpointSystemPrompt
	case model.ModeFramework:
		base = frameworkSystemPrompt
	default:
		base = interactiveSystemPrompt
	}
	if strings.TrimSpace(a.addendum) == "" {
		return base
	}
	return base + "\n\n## User-Defined Instructions\n" + a.addendum
}

// UserMessage formats the question together with the captured runtime
// snapshot. A nil snapshot yields just the question under its heading.
func (a *Assembler) UserMessage(question string, snap *model.ContextSnapshot) string {
	var b strings.Builder
	switch a.mode {
	case model.ModeBreakpoint:
		b.WriteString("## Current Debug Context\n")
	default:
		b.WriteString("## Current Session Context\n")
	}
	b.WriteString(a.contextSection(snap))
	b.WriteString("\n## Question\n")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}

func (a *Assembler) contextSection(snap *model.ContextSnapshot) string {
	if snap == nil {
		return "(no context captured)\n"
	}
	var sections []string

	if a.mode == model.ModeBreakpoint {
		sections = append(sections, section("Source Location", formatSource(snap.Source)))
	}
	if a.mode != model.ModeBreakpoint {
		sections = append(sections, section("Session History (Previous Inputs)",
			formatList(snap.SessionHistory, "(none)")))
	}
	sections = append(sections, section("Local Variables", formatVars(snap.LocalVariables)))
	if len(snap.InstanceVariables) > 0 || a.mode == model.ModeBreakpoint {
		sections = append(sections, section("Instance Variables", formatVars(snap.InstanceVariables)))
	}
	if a.mode == model.ModeBreakpoint {
		sections = append(sections, section("Current Object (self)", formatSelf(snap.Self)))
		sections = append(sections, section("Backtrace", formatList(snap.Backtrace, "(not available)")))
		sections = append(sections, section("Session History (recent commands and AI conversations)",
			formatList(snap.SessionHistory, "(no history yet)")))
	} else {
		last := snap.LastValue
		if last == "" {
			last = "(none)"
		}
		sections = append(sections, section("Last Evaluation Result", last))
		sections = append(sections, section("Last Exception", formatException(snap.LastException)))
	}

	return strings.Join(sections, "\n")
}

func section(title, content string) string {
	return "### " + title + "\n" + content + "\n"
}

func formatSource(loc *model.SourceLocation) string {
	if loc == nil {
		return "(unknown)"
	}
	return fmt.Sprintf("File: %s\nLine: %d", loc.File, loc.Line)
}

// formatVars renders a variable map as sorted "- name: value" lines so the
// prompt is stable across runs.
func formatVars(vars map[string]string) string {
	if len(vars) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("- %s: %s", name, vars[name]))
	}
	return strings.Join(lines, "\n")
}

func formatSelf(info *model.SelfInfo) string {
	if info == nil {
		return "(unknown)"
	}
	lines := []string{"Class: " + info.Class}
	if info.Rendered != "" {
		lines = append(lines, "inspect: "+info.Rendered)
	}
	if len(info.Methods) > 0 {
		lines = append(lines, "Defined methods: "+strings.Join(info.Methods, ", "))
	}
	return strings.Join(lines, "\n")
}

func formatList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, "\n")
}

func formatException(exc *model.ExceptionInfo) string {
	if exc == nil {
		return "(none)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Class: %s\nMessage: %s", exc.Class, exc.Message)
	if exc.Time != "" {
		fmt.Fprintf(&b, "\nTime: %s", exc.Time)
	}
	if len(exc.Backtrace) > 0 {
		b.WriteString("\nBacktrace:")
		for _, line := range exc.Backtrace {
			b.WriteString("\n  " + line)
		}
	}
	return b.String()
}
