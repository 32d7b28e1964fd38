// Package telemetry records operational events for later inspection.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/croftland/croftland/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events.
type Emitter struct {
	source string
	store  storage.TelemetryStore
	clock  func() time.Time
}

// NewEmitter creates a telemetry emitter attributed to source.
func NewEmitter(source string, store storage.TelemetryStore) *Emitter {
	return &Emitter{source: source, store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, severity Severity, message string) error {
	if e == nil || e.store == nil {
		return nil
	}
	now := time.Now
	if e.clock != nil {
		now = e.clock
	}
	return e.store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{
		Source:    e.source,
		Severity:  string(severity),
		Message:   message,
		Timestamp: now().UTC(),
	})
}

// Emitf records a formatted telemetry event.
func (e *Emitter) Emitf(ctx context.Context, severity Severity, format string, args ...any) error {
	return e.Emit(ctx, severity, fmt.Sprintf(format, args...))
}
