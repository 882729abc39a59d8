// Package engine drives the tool-calling orchestration loop: it sends the
// normalized conversation to a provider, dispatches returned tool calls
// through the registry, and manages auto-continuation with iteration and
// interrupt safety.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"aidbg/config"
	"aidbg/model"
	"aidbg/prompt"
	"aidbg/session"
	"aidbg/tools"
)

const (
	// MaxToolIterations bounds provider requests within one batch.
	MaxToolIterations = 10
	// MaxAutoContinueRounds bounds continuation rounds per user question.
	MaxAutoContinueRounds = 20
)

// batchResult classifies how one request batch ended.
type batchResult int

const (
	batchText batchResult = iota
	batchLoopExit
	batchInterrupted
	batchErrored
	batchLimit
)

// Options carries the engine's host callbacks. Emit delivers user-visible
// text; Capture produces a fresh runtime snapshot when the engine needs one.
// Either may be nil.
type Options struct {
	Emit    func(string)
	Capture func() *model.ContextSnapshot
	Handle  *tools.Handle
}

// Engine owns one session's orchestration state. It is not safe for
// concurrent use; one question or continuation is in flight at a time.
type Engine struct {
	provider  model.Provider
	registry  *tools.Registry
	sess      *session.Session
	assembler *prompt.Assembler
	emit      func(string)
	capture   func() *model.ContextSnapshot
	handle    *tools.Handle
}

func New(provider model.Provider, registry *tools.Registry, sess *session.Session, assembler *prompt.Assembler, opts Options) *Engine {
	e := &Engine{
		provider:  provider,
		registry:  registry,
		sess:      sess,
		assembler: assembler,
		emit:      opts.Emit,
		capture:   opts.Capture,
		handle:    opts.Handle,
	}
	if e.emit == nil {
		e.emit = func(string) {}
	}
	if e.handle == nil {
		e.handle = &tools.Handle{Session: sess}
	}
	return e
}

// Ask processes one fresh user question through to a text answer or a
// terminal stop condition. Every failure path degrades to an emitted notice;
// nothing escapes as an error.
func (e *Engine) Ask(ctx context.Context, question string) {
	e.sess.AutoContinue.Reset()
	snap := e.snapshot()
	e.sess.History.AddUserMessage(e.assembler.UserMessage(question, snap))
	e.drive(ctx)
}

// Continue runs one continuation round after a loop-exiting action has
// completed on the host side. It is a no-op unless the model requested
// continuation during the previous round.
func (e *Engine) Continue(ctx context.Context) {
	ac := e.sess.AutoContinue
	if !ac.Active() {
		return
	}
	if !e.beginRound(ctx) {
		return
	}
	e.drive(ctx)
}

// Continuing reports whether the model has an auto-continue request pending.
func (e *Engine) Continuing() bool {
	return e.sess.AutoContinue.Active()
}

// beginRound disarms the pending request, charges one continuation round
// and appends the synthetic continuation message with a fresh snapshot.
// Returns false when the round budget is spent.
func (e *Engine) beginRound(ctx context.Context) bool {
	ac := e.sess.AutoContinue
	ac.Disarm()
	if ac.AdvanceRound() > MaxAutoContinueRounds {
		e.emit(fmt.Sprintf("[aidbg] Auto-continue limit reached (%d)", MaxAutoContinueRounds))
		e.summarize(ctx)
		ac.Reset()
		return false
	}
	e.sess.History.AddUserMessage(e.assembler.UserMessage(prompt.ContinuationPrompt, e.snapshot()))
	return true
}

// drive runs request batches until the turn ends, re-arming for in-engine
// continuation rounds when the model asked for them.
func (e *Engine) drive(ctx context.Context) {
	ac := e.sess.AutoContinue
	for {
		switch e.runBatch(ctx) {
		case batchInterrupted:
			e.emit("[aidbg] Interrupted")
			e.summarize(ctx)
			ac.ClearInterrupt()
			ac.Reset()
			return
		case batchLoopExit:
			// the host must observe the queued action; it resumes the
			// conversation via Continue once the program stops again
			return
		case batchErrored:
			return
		case batchText, batchLimit:
			if !ac.Active() {
				return
			}
			if !e.beginRound(ctx) {
				return
			}
		}
	}
}

// runBatch performs one bounded request/dispatch cycle.
func (e *Engine) runBatch(ctx context.Context) batchResult {
	ac := e.sess.AutoContinue
	decls := e.registry.Declarations()
	var accumulated []string

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		text := strings.Join(accumulated, "\n")
		e.sess.History.AddAssistantMessage(text)
		e.emit(text)
	}

	for iter := 1; ; iter++ {
		if iter > MaxToolIterations {
			e.emit("[aidbg] Tool iteration limit reached")
			return batchLimit
		}
		if ac.Interrupted() {
			return batchInterrupted
		}

		resp, err := e.chat(ctx, decls)

		// a signal during the request cancels it; the interrupt flag, not
		// the cancellation error, decides the outcome
		if ac.Interrupted() {
			return batchInterrupted
		}
		if err != nil {
			e.emit(fmt.Sprintf("[aidbg] Error: %v", err))
			return batchErrored
		}
		if resp == nil {
			e.emit("[aidbg] No response from provider")
			return batchErrored
		}
		if resp.Err != "" && !resp.FunctionCall() {
			e.emit(fmt.Sprintf("[aidbg] Provider error: %s", resp.Err))
			return batchErrored
		}

		if resp.Text != "" {
			accumulated = append(accumulated, resp.Text)
		}

		if !resp.FunctionCall() {
			flush()
			return batchText
		}

		for _, call := range resp.FunctionCalls {
			e.emit(fmt.Sprintf("[aidbg] Tool: %s", formatCall(call)))
			result, exits := e.dispatch(call)
			if errMsg, ok := result["error"].(string); ok {
				config.Debugf("tool %s error: %s", call.Name, errMsg)
			}
			e.sess.History.AddToolCall(call.Name, call.Args, result, call.ID)
			if exits {
				flush()
				return batchLoopExit
			}
		}
	}
}

// dispatch resolves and runs one tool call. An unknown name or a panicking
// tool body becomes an {error} result; the loop is never allowed to crash.
func (e *Engine) dispatch(call model.FunctionCall) (result map[string]any, exits bool) {
	tool, ok := e.registry.Find(call.Name)
	if !ok {
		return map[string]any{"error": "Unknown tool: " + call.Name}, false
	}

	defer func() {
		if r := recover(); r != nil {
			result = map[string]any{"error": fmt.Sprintf("%T: %v", r, r)}
			exits = false
		}
	}()

	result = tool.Execute(e.handle, call.Args)
	if le, ok := tool.(tools.LoopExiting); ok && le.ExitsLoop() {
		exits = true
	}
	return result, exits
}

// chat issues one provider request with a scoped interrupt guard: a signal
// delivered while the request is in flight sets the interrupt flag and
// cancels the request context.
func (e *Engine) chat(ctx context.Context, decls []mcptypes.Tool) (*model.Response, error) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	guard := newInterruptGuard(e.sess.AutoContinue, cancel)
	defer guard.Release()

	config.Debugf("provider request: %d messages, %d tools", e.sess.History.Len(), len(decls))
	return e.provider.Chat(reqCtx, e.sess.History.Normalized(), e.assembler.SystemPrompt(), decls)
}

// summarize makes one best-effort request asking the model to state its
// progress. It sends no tool declarations and never re-arms continuation;
// failures are ignored.
func (e *Engine) summarize(ctx context.Context) {
	e.sess.History.AddUserMessage(e.assembler.UserMessage(prompt.SummarizePrompt, e.snapshot()))
	resp, err := e.provider.Chat(ctx, e.sess.History.Normalized(), e.assembler.SystemPrompt(), nil)
	if err != nil || resp == nil {
		config.Debugf("summarize request failed: %v", err)
		return
	}
	if resp.Text != "" {
		e.sess.History.AddAssistantMessage(resp.Text)
		e.emit(resp.Text)
	}
}

func (e *Engine) snapshot() *model.ContextSnapshot {
	if e.capture == nil {
		return nil
	}
	return e.capture()
}

func formatCall(call model.FunctionCall) string {
	if len(call.Args) == 0 {
		return call.Name + "()"
	}
	keys := make([]string, 0, len(call.Args))
	for k := range call.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, call.Args[k]))
	}
	return fmt.Sprintf("%s(%s)", call.Name, strings.Join(parts, ", "))
}
