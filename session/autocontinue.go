package session

import "sync"

// AutoContinue tracks whether the model has asked to be re-invoked after a
// side-effecting action completes, plus the per-question round counter and
// the user-interrupt flag.
//
// Interrupt may be called from a signal-handling goroutine while the engine
// blocks on a provider request, so all state is mutex-guarded. The engine
// observes the flag only at its two checkpoints and clears it explicitly;
// Reset never touches it.
type AutoContinue struct {
	mu          sync.Mutex
	active      bool
	interrupted bool
	rounds      int
}

func NewAutoContinue() *AutoContinue {
	return &AutoContinue{}
}

// Request arms auto-continuation for the current question.
func (a *AutoContinue) Request() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = true
}

// Active reports whether a continuation has been requested.
func (a *AutoContinue) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Disarm deactivates continuation without resetting the round counter.
// Called before each continuation round so the model must re-request.
func (a *AutoContinue) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
}

// Reset returns to Idle for a fresh user-initiated question: continuation is
// disarmed and the round counter cleared. The interrupted flag is preserved.
func (a *AutoContinue) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	a.rounds = 0
}

// AdvanceRound increments the per-question continuation counter and returns
// its new value.
func (a *AutoContinue) AdvanceRound() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rounds++
	return a.rounds
}

// Rounds returns the continuation rounds consumed by the current question.
func (a *AutoContinue) Rounds() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rounds
}

// Interrupt flags a user interrupt. Safe from any goroutine.
func (a *AutoContinue) Interrupt() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interrupted = true
}

// Interrupted reports whether an interrupt is pending.
func (a *AutoContinue) Interrupted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interrupted
}

// ClearInterrupt acknowledges a pending interrupt.
func (a *AutoContinue) ClearInterrupt() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interrupted = false
}
