package engine

import (
	"context"
	"os"
	"os/signal"

	"aidbg/session"
)

// interruptGuard routes SIGINT to the session's interrupt flag and cancels
// the in-flight provider request for the duration of one call. Release must
// always run so the previous signal disposition is restored; callers defer
// it immediately after construction.
type interruptGuard struct {
	ch   chan os.Signal
	done chan struct{}
}

func newInterruptGuard(ac *session.AutoContinue, cancel context.CancelFunc) *interruptGuard {
	g := &interruptGuard{
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(g.ch, os.Interrupt)
	go func() {
		select {
		case <-g.ch:
			ac.Interrupt()
			cancel()
		case <-g.done:
		}
	}()
	return g
}

func (g *interruptGuard) Release() {
	signal.Stop(g.ch)
	close(g.done)
}
