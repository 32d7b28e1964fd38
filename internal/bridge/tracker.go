// Package bridge tracks the progress of a cross-chain transfer for display.
// The tracker is a pure state machine over the transfer library's event
// stream; it never talks to a chain itself.
package bridge

import (
	"fmt"
	"sync"
	"time"
)

// Step is the tracker's current position in the transfer.
type Step string

const (
	StepIdle               Step = "idle"
	StepApproving          Step = "approving"
	StepBurning            Step = "burning"
	StepWaitingAttestation Step = "waiting-attestation"
	StepMinting            Step = "minting"
	StepCompleted          Step = "completed"
	StepError              Step = "error"
)

// Transfer methods reported by the event stream.
const (
	MethodApprove          = "approve"
	MethodBurn             = "burn"
	MethodFetchAttestation = "fetchAttestation"
	MethodMint             = "mint"
)

// Sub-states a method event can carry.
const (
	SubSuccess = "success"
	SubError   = "error"
	SubPending = "pending"
)

// Event is one progress notification from the transfer process.
type Event struct {
	Method string
	Sub    string
	TxHash string
}

// Line is one timestamped entry of the progress log.
type Line struct {
	At   time.Time
	Text string
}

// Tracker folds transfer events into a single current step and an
// append-only log. Completed and error are terminal; Reset is the only way
// out of either.
type Tracker struct {
	mu   sync.Mutex
	step Step
	log  []Line
	now  func() time.Time
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{step: StepIdle, now: time.Now}
}

// Current returns the tracker's current step.
func (t *Tracker) Current() Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step
}

// Log returns a copy of the progress log, oldest first.
func (t *Tracker) Log() []Line {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Line(nil), t.log...)
}

// HandleEvent applies one transfer event. Events without a method are
// ignored entirely, as are events arriving in a terminal step. An error
// sub-state on any method moves to the error step and stays there.
func (t *Tracker) HandleEvent(event Event) {
	if event.Method == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.step == StepCompleted || t.step == StepError {
		return
	}

	if event.Sub == SubError {
		t.step = StepError
		t.append(fmt.Sprintf("%s failed", event.Method), event.TxHash)
		return
	}

	switch event.Method {
	case MethodApprove:
		if event.Sub == SubSuccess {
			t.step = StepBurning
			t.append("approval confirmed, burning", event.TxHash)
		}
	case MethodBurn:
		if event.Sub == SubSuccess {
			t.step = StepWaitingAttestation
			t.append("burn confirmed, waiting for attestation", event.TxHash)
		}
	case MethodFetchAttestation:
		// Pending attestation polls keep the step where it is; only the
		// successful fetch advances.
		if event.Sub == SubSuccess {
			t.step = StepMinting
			t.append("attestation received, minting", event.TxHash)
		}
	case MethodMint:
		if event.Sub == SubSuccess {
			t.step = StepCompleted
			t.append("mint confirmed, transfer complete", event.TxHash)
		}
	}
}

// Reset returns the tracker to idle and clears the log. It is the only exit
// from the completed and error steps.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.step = StepIdle
	t.log = nil
}

// append records a log line under the held lock.
func (t *Tracker) append(text, txHash string) {
	if txHash != "" {
		text = fmt.Sprintf("%s (tx %s)", text, txHash)
	}
	t.log = append(t.log, Line{At: t.now().UTC(), Text: text})
}
