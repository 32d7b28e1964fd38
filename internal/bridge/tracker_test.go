package bridge

import (
	"strings"
	"testing"
	"time"
)

func newTestTracker() *Tracker {
	t := NewTracker()
	clock := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)
	t.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return t
}

func TestTrackerHappyPath(t *testing.T) {
	tracker := newTestTracker()

	steps := []struct {
		event Event
		want  Step
	}{
		{Event{Method: MethodApprove, Sub: SubSuccess, TxHash: "0xapprove"}, StepBurning},
		{Event{Method: MethodBurn, Sub: SubSuccess, TxHash: "0xburn"}, StepWaitingAttestation},
		{Event{Method: MethodFetchAttestation, Sub: SubSuccess}, StepMinting},
		{Event{Method: MethodMint, Sub: SubSuccess, TxHash: "0xmint"}, StepCompleted},
	}
	for _, step := range steps {
		tracker.HandleEvent(step.event)
		if got := tracker.Current(); got != step.want {
			t.Fatalf("after %s/%s: step = %s, want %s", step.event.Method, step.event.Sub, got, step.want)
		}
	}

	log := tracker.Log()
	if len(log) != 4 {
		t.Fatalf("log length = %d, want 4", len(log))
	}
	if !strings.Contains(log[0].Text, "0xapprove") {
		t.Fatalf("approve line missing tx hash: %q", log[0].Text)
	}
	if !log[0].At.Before(log[1].At) {
		t.Fatal("log lines must be timestamped in order")
	}
}

func TestTrackerErrorIsTerminal(t *testing.T) {
	tracker := newTestTracker()
	tracker.HandleEvent(Event{Method: MethodApprove, Sub: SubSuccess})
	tracker.HandleEvent(Event{Method: MethodBurn, Sub: SubError, TxHash: "0xburn"})

	if got := tracker.Current(); got != StepError {
		t.Fatalf("step = %s, want %s", got, StepError)
	}

	// No event moves the tracker out of error.
	tracker.HandleEvent(Event{Method: MethodBurn, Sub: SubSuccess})
	tracker.HandleEvent(Event{Method: MethodMint, Sub: SubSuccess})
	if got := tracker.Current(); got != StepError {
		t.Fatalf("error must be terminal, got %s", got)
	}

	tracker.Reset()
	if got := tracker.Current(); got != StepIdle {
		t.Fatalf("after reset: step = %s, want %s", got, StepIdle)
	}
	if len(tracker.Log()) != 0 {
		t.Fatal("reset must clear the log")
	}
}

func TestTrackerErrorAtAnyStep(t *testing.T) {
	for _, method := range []string{MethodApprove, MethodBurn, MethodFetchAttestation, MethodMint} {
		tracker := newTestTracker()
		tracker.HandleEvent(Event{Method: method, Sub: SubError})
		if got := tracker.Current(); got != StepError {
			t.Fatalf("%s error: step = %s, want %s", method, got, StepError)
		}
	}
}

func TestTrackerPendingAttestationHolds(t *testing.T) {
	tracker := newTestTracker()
	tracker.HandleEvent(Event{Method: MethodApprove, Sub: SubSuccess})
	tracker.HandleEvent(Event{Method: MethodBurn, Sub: SubSuccess})

	for i := 0; i < 3; i++ {
		tracker.HandleEvent(Event{Method: MethodFetchAttestation, Sub: SubPending})
	}
	if got := tracker.Current(); got != StepWaitingAttestation {
		t.Fatalf("pending polls must hold the step, got %s", got)
	}
	if len(tracker.Log()) != 2 {
		t.Fatalf("pending polls must not log, log length = %d", len(tracker.Log()))
	}

	tracker.HandleEvent(Event{Method: MethodFetchAttestation, Sub: SubSuccess})
	if got := tracker.Current(); got != StepMinting {
		t.Fatalf("step = %s, want %s", got, StepMinting)
	}
}

func TestTrackerIgnoresMethodlessEvents(t *testing.T) {
	tracker := newTestTracker()
	tracker.HandleEvent(Event{Sub: SubError})
	tracker.HandleEvent(Event{Sub: SubSuccess, TxHash: "0xstray"})

	if got := tracker.Current(); got != StepIdle {
		t.Fatalf("methodless events must not transition, got %s", got)
	}
	if len(tracker.Log()) != 0 {
		t.Fatal("methodless events must not log")
	}
}

func TestTrackerCompletedIsTerminal(t *testing.T) {
	tracker := newTestTracker()
	for _, method := range []string{MethodApprove, MethodBurn, MethodFetchAttestation, MethodMint} {
		tracker.HandleEvent(Event{Method: method, Sub: SubSuccess})
	}
	if got := tracker.Current(); got != StepCompleted {
		t.Fatalf("step = %s, want %s", got, StepCompleted)
	}

	tracker.HandleEvent(Event{Method: MethodApprove, Sub: SubError})
	if got := tracker.Current(); got != StepCompleted {
		t.Fatalf("completed must be terminal, got %s", got)
	}
}
