package model

// Mode selects the prompt framing for a question. The host collaborator knows
// which mode it is in and passes it explicitly; the engine never infers the
// mode from the captured data.
type Mode int

const (
	// ModeInteractive is a plain interactive-shell session.
	ModeInteractive Mode = iota
	// ModeBreakpoint is a session stopped at a debugger breakpoint.
	ModeBreakpoint
	// ModeFramework is an interactive session inside a host application
	// framework with extra runtime affordances.
	ModeFramework
)

func (m Mode) String() string {
	switch m {
	case ModeBreakpoint:
		return "breakpoint"
	case ModeFramework:
		return "framework"
	default:
		return "interactive"
	}
}

// SourceLocation is a file/line position in the host program.
type SourceLocation struct {
	File string
	Line int
}

// SelfInfo describes the receiver object of the current frame.
type SelfInfo struct {
	Class    string
	Rendered string
	Methods  []string
}

// ExceptionInfo describes the most recent exception seen by the host.
type ExceptionInfo struct {
	Class     string
	Message   string
	Time      string
	Backtrace []string
}

// ContextSnapshot is a point-in-time bundle of the host runtime's execution
// state. It is produced by the host collaborator and consumed by the prompt
// assembler; the engine treats it as opaque.
type ContextSnapshot struct {
	Source            *SourceLocation
	LocalVariables    map[string]string
	InstanceVariables map[string]string
	Self              *SelfInfo
	Backtrace         []string
	LastValue         string
	LastException     *ExceptionInfo
	SessionHistory    []string
}
