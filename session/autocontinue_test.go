package session

import "testing"

func TestAutoContinueTransitions(t *testing.T) {
	ac := NewAutoContinue()

	if ac.Active() {
		t.Fatal("new controller must start idle")
	}

	ac.Request()
	if !ac.Active() {
		t.Error("Request must arm continuation")
	}
	ac.Request()
	if !ac.Active() {
		t.Error("Request while active must stay active")
	}

	ac.Disarm()
	if ac.Active() {
		t.Error("Disarm must deactivate")
	}
}

func TestAutoContinueRoundCounter(t *testing.T) {
	ac := NewAutoContinue()

	if got := ac.AdvanceRound(); got != 1 {
		t.Errorf("first round = %d, want 1", got)
	}
	if got := ac.AdvanceRound(); got != 2 {
		t.Errorf("second round = %d, want 2", got)
	}
	ac.Disarm()
	if got := ac.Rounds(); got != 2 {
		t.Errorf("Disarm must not touch rounds, got %d", got)
	}

	ac.Reset()
	if got := ac.Rounds(); got != 0 {
		t.Errorf("Reset must clear rounds, got %d", got)
	}
}

func TestAutoContinueResetPreservesInterrupt(t *testing.T) {
	ac := NewAutoContinue()
	ac.Request()
	ac.Interrupt()

	ac.Reset()
	if ac.Active() {
		t.Error("Reset must disarm")
	}
	if !ac.Interrupted() {
		t.Error("Reset must not clear the interrupt flag")
	}

	ac.ClearInterrupt()
	if ac.Interrupted() {
		t.Error("ClearInterrupt must clear the flag")
	}
}
