package settle

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
	"github.com/croftland/croftland/internal/storage"
)

// LegStatus is the outcome of one protocol leg.
type LegStatus string

const (
	// LegConfirmed indicates the leg's deposit transaction was mined.
	LegConfirmed LegStatus = "confirmed"
	// LegFailed indicates the leg failed; Error carries the reason.
	LegFailed LegStatus = "failed"
)

// TransactionRecord captures one protocol leg of a settlement.
type TransactionRecord struct {
	Protocol game.Protocol
	Status   LegStatus
	TxHash   chain.Hash
	Error    string
}

// Result is the immutable record of one settlement attempt. The session
// figures are the snapshot captured when the off-chain session closed.
type Result struct {
	SessionID   string
	ActionCount int
	SavingsUSD  decimal.Decimal
	SettledAt   time.Time
	Records     []TransactionRecord
}

// storageRecord converts the result into its persisted form.
func (r Result) storageRecord() storage.SettlementRecord {
	legs := make([]storage.SettlementLeg, 0, len(r.Records))
	for _, record := range r.Records {
		legs = append(legs, storage.SettlementLeg{
			Protocol: record.Protocol.String(),
			Status:   string(record.Status),
			TxHash:   string(record.TxHash),
			Error:    record.Error,
		})
	}
	return storage.SettlementRecord{
		SessionID:   r.SessionID,
		ActionCount: r.ActionCount,
		SavingsUSD:  r.SavingsUSD.String(),
		SettledAt:   r.SettledAt,
		Legs:        legs,
	}
}
