package session

import "github.com/google/uuid"

// Session is one logical, persistable conversation: the transcript plus its
// state machines. The engine holds exactly one Session per interactive
// session; tests create as many as they need.
type Session struct {
	id           string
	History      *History
	AutoContinue *AutoContinue
}

// New creates a fresh session. An empty id gets a generated UUID.
func New(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:           id,
		History:      NewHistory(),
		AutoContinue: NewAutoContinue(),
	}
}

// ID returns the session's identifier (the persistence key).
func (s *Session) ID() string {
	return s.id
}

// SetID rebinds the session to a different persistence key.
func (s *Session) SetID(id string) {
	s.id = id
}

// Reset clears the transcript and returns the state machines to idle.
// The interrupt flag survives; it must be acknowledged explicitly.
func (s *Session) Reset() {
	s.History.Clear()
	s.AutoContinue.Reset()
}
