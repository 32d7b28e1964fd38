// Package storage defines the persistence contracts for session history,
// settlement results, and operational telemetry. Records use plain string
// and integer fields so stores stay free of domain imports.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ActionRecord journals one acknowledged off-chain action.
type ActionRecord struct {
	SessionID string
	EntityID  string
	Kind      string
	AmountUSD string
	At        time.Time
}

// SettlementLeg is the persisted form of one protocol leg outcome.
type SettlementLeg struct {
	Protocol string
	Status   string
	TxHash   string
	Error    string
}

// SettlementRecord is the persisted form of one settlement attempt.
type SettlementRecord struct {
	SessionID   string
	ActionCount int
	SavingsUSD  string
	SettledAt   time.Time
	Legs        []SettlementLeg
}

// TelemetryEvent captures one operational event.
type TelemetryEvent struct {
	Source    string
	Severity  string
	Message   string
	Timestamp time.Time
}

// ActionJournal appends acknowledged session actions.
type ActionJournal interface {
	AppendAction(ctx context.Context, record ActionRecord) error
}

// SettlementStore persists settlement attempts and their legs.
type SettlementStore interface {
	PutSettlement(ctx context.Context, record SettlementRecord) error
	ListSettlements(ctx context.Context, limit int) ([]SettlementRecord, error)
}

// TelemetryStore appends operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}
