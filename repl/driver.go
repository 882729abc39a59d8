package repl

import (
	"context"
	"strings"
	"sync"

	"aidbg/engine"
)

// DebugDriver connects the engine to a host debugger's wait loop. It
// implements model.Debugger for the run_debug_command tool, queueing
// commands the host executes between model turns, and pumps auto-continue
// rounds each time the program stops.
type DebugDriver struct {
	mu       sync.Mutex
	attached bool
	pending  []string
	eng      *engine.Engine
}

func NewDebugDriver(eng *engine.Engine) *DebugDriver {
	return &DebugDriver{eng: eng}
}

func (d *DebugDriver) Attach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = true
}

func (d *DebugDriver) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = false
	d.pending = nil
}

// Attached implements model.Debugger.
func (d *DebugDriver) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// QueueCommand implements model.Debugger. Queued commands run when control
// returns to the host's wait loop.
func (d *DebugDriver) QueueCommand(cmd string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, cmd)
}

// TakePending drains the queued commands.
func (d *DebugDriver) TakePending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	cmds := d.pending
	d.pending = nil
	return cmds
}

// OnCommand is the host's command hook: lines prefixed with "ai " go to the
// model, everything else passes through. Returns whether the line was
// handled. Commands the model queued during its turn run via runCmd before
// control returns.
func (d *DebugDriver) OnCommand(ctx context.Context, line string, runCmd func(string) error) (bool, error) {
	if !strings.HasPrefix(line, "ai ") {
		return false, nil
	}
	question := strings.TrimSpace(strings.TrimPrefix(line, "ai "))
	if question == "" {
		return true, nil
	}

	d.eng.Ask(ctx, question)
	return true, d.runPending(runCmd)
}

// OnWait is the host's stop hook, called each time the debugger stops and
// would prompt the user. While the model has an auto-continue request
// pending, it is re-invoked with the new state; commands it queues run via
// runCmd. The engine's round budget bounds this pump.
func (d *DebugDriver) OnWait(ctx context.Context, runCmd func(string) error) error {
	for {
		if err := d.runPending(runCmd); err != nil {
			return err
		}
		if !d.eng.Continuing() {
			return nil
		}
		d.eng.Continue(ctx)
	}
}

func (d *DebugDriver) runPending(runCmd func(string) error) error {
	for _, cmd := range d.TakePending() {
		if err := runCmd(cmd); err != nil {
			return err
		}
	}
	return nil
}
