package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/croftland/croftland/internal/storage"
)

type fakeTelemetryStore struct {
	events []storage.TelemetryEvent
	err    error
}

func (f *fakeTelemetryStore) AppendTelemetryEvent(_ context.Context, event storage.TelemetryEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestEmitRecordsEvent(t *testing.T) {
	store := &fakeTelemetryStore{}
	emitter := NewEmitter("settler", store)
	fixed := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)
	emitter.clock = func() time.Time { return fixed }

	if err := emitter.Emitf(context.Background(), SeverityWarn, "leg %s failed", "quickswap"); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	event := store.events[0]
	if event.Source != "settler" || event.Severity != "WARN" {
		t.Fatalf("event attribution mismatch: %+v", event)
	}
	if event.Message != "leg quickswap failed" {
		t.Fatalf("message = %q", event.Message)
	}
	if !event.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp = %v, want %v", event.Timestamp, fixed)
	}
}

func TestEmitNoopWithoutStore(t *testing.T) {
	var emitter *Emitter
	if err := emitter.Emit(context.Background(), SeverityInfo, "ignored"); err != nil {
		t.Fatalf("nil emitter must be a no-op, got %v", err)
	}
	if err := NewEmitter("settler", nil).Emit(context.Background(), SeverityInfo, "ignored"); err != nil {
		t.Fatalf("nil store must be a no-op, got %v", err)
	}
}
