package game

import "github.com/shopspring/decimal"

// ActionKind identifies a micro-action applied inside an off-chain session.
type ActionKind string

const (
	// ActionDeposit adds USD to an entity's working balance.
	ActionDeposit ActionKind = "deposit"
	// ActionUpgrade raises an entity's level.
	ActionUpgrade ActionKind = "upgrade"
	// ActionCompound folds accrued yield back into the deposit.
	ActionCompound ActionKind = "compound"
	// ActionHarvest books accrued yield without touching the deposit.
	ActionHarvest ActionKind = "harvest"
)

// IsValid reports whether the action kind is supported.
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionDeposit, ActionUpgrade, ActionCompound, ActionHarvest:
		return true
	default:
		return false
	}
}

// Action is one off-chain state update submitted against a session.
type Action struct {
	Kind     ActionKind
	EntityID string
	Amount   decimal.Decimal
}
