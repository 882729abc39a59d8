package repl

import (
	"context"
	"strings"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"aidbg/engine"
	"aidbg/model"
	"aidbg/prompt"
	"aidbg/provider/testutil"
	"aidbg/session"
	"aidbg/tools"
)

type driverHarness struct {
	driver *DebugDriver
	mock   *testutil.MockProvider
	ran    []string
}

func newDriverHarness() *driverHarness {
	h := &driverHarness{mock: testutil.NewMockProvider()}
	sess := session.New("test")
	h.driver = &DebugDriver{}

	registry := tools.NewRegistry()
	registry.Register(tools.NewRunDebugCommand(h.driver))

	assembler := prompt.NewAssembler(model.ModeBreakpoint, "")
	h.driver.eng = engine.New(h.mock, registry, sess, assembler, engine.Options{
		Handle: &tools.Handle{Session: sess, Debugger: h.driver},
	})
	h.driver.Attach()
	return h
}

func (h *driverHarness) runCmd(cmd string) error {
	h.ran = append(h.ran, cmd)
	return nil
}

func TestDriverPassesThroughPlainDebuggerLines(t *testing.T) {
	h := newDriverHarness()
	handled, err := h.driver.OnCommand(context.Background(), "next", h.runCmd)
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("plain debugger line must not be handled")
	}
	if h.mock.Requests != 0 {
		t.Errorf("provider must not be called, got %d requests", h.mock.Requests)
	}
}

func TestDriverRunsCommandsQueuedDuringTurn(t *testing.T) {
	h := newDriverHarness()
	h.mock.ChatFunc = func(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, decls []mcptypes.Tool) (*model.Response, error) {
		return &model.Response{
			FunctionCalls: []model.FunctionCall{{
				Name: "run_debug_command",
				Args: map[string]any{"command": "next"},
			}},
		}, nil
	}

	handled, err := h.driver.OnCommand(context.Background(), "ai go to the next line", h.runCmd)
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Error("ai-prefixed line must be handled")
	}
	if strings.Join(h.ran, ",") != "next" {
		t.Errorf("queued commands ran = %v, want [next]", h.ran)
	}
	if len(h.driver.TakePending()) != 0 {
		t.Error("queue must be drained after OnCommand")
	}
}

func TestDriverOnWaitPumpsAutoContinueRounds(t *testing.T) {
	h := newDriverHarness()

	call := 0
	h.mock.ChatFunc = func(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, decls []mcptypes.Tool) (*model.Response, error) {
		call++
		if call == 1 {
			return &model.Response{
				FunctionCalls: []model.FunctionCall{{
					Name: "run_debug_command",
					Args: map[string]any{"command": "step", "auto_continue": true},
				}},
			}, nil
		}
		return &model.Response{Text: "x is now 3"}, nil
	}

	if _, err := h.driver.OnCommand(context.Background(), "ai step and check x", h.runCmd); err != nil {
		t.Fatal(err)
	}
	if strings.Join(h.ran, ",") != "step" {
		t.Fatalf("first turn should queue step, ran %v", h.ran)
	}
	if !h.driver.eng.Continuing() {
		t.Fatal("auto_continue must leave a continuation pending")
	}

	// the debugger has stopped again
	if err := h.driver.OnWait(context.Background(), h.runCmd); err != nil {
		t.Fatal(err)
	}
	if h.driver.eng.Continuing() {
		t.Error("pump must drain the continuation request")
	}
	if h.mock.Requests != 2 {
		t.Errorf("requests = %d, want 2", h.mock.Requests)
	}
}

func TestDriverOnWaitIdleWhenNothingPending(t *testing.T) {
	h := newDriverHarness()
	if err := h.driver.OnWait(context.Background(), h.runCmd); err != nil {
		t.Fatal(err)
	}
	if len(h.ran) != 0 || h.mock.Requests != 0 {
		t.Errorf("idle wait must do nothing, ran=%v requests=%d", h.ran, h.mock.Requests)
	}
}

func TestDriverDetachClearsQueue(t *testing.T) {
	h := newDriverHarness()
	h.driver.QueueCommand("next")
	h.driver.Detach()
	if h.driver.Attached() {
		t.Error("detached driver must report unattached")
	}
	if len(h.driver.TakePending()) != 0 {
		t.Error("detach must drop queued commands")
	}
}
