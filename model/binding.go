package model

// Binding is the execution handle into the host runtime's current scope.
// Tools that evaluate code or introspect objects run against it. All methods
// operate on the live, single-threaded host context and must only be called
// from the engine's thread of control.
type Binding interface {
	// Eval evaluates an expression in the current scope and returns its
	// rendered result.
	Eval(code string) (string, error)

	// Inspect returns a detailed rendering of the value of an expression.
	Inspect(expr string) (string, error)

	// Methods lists the methods available on the value of an expression.
	Methods(expr string) ([]string, error)

	// Source locates the definition of a named method or constant and
	// returns its file, line and source text.
	Source(target string) (file string, line int, text string, err error)
}

// Debugger is the sink for debugger navigation commands. The run_debug_command
// tool queues commands here; the host debugger drains the queue when control
// returns to it.
type Debugger interface {
	// Attached reports whether a debugger session is live.
	Attached() bool

	// QueueCommand enqueues a debugger command (step, next, continue, ...)
	// to run once the engine yields control back to the debugger.
	QueueCommand(cmd string)
}
