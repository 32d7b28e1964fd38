package session

import (
	"github.com/shopspring/decimal"

	"github.com/croftland/croftland/internal/game"
)

// State is an immutable snapshot of the session manager. The manager is the
// only writer; observers receive copies and read them freely.
type State struct {
	Connected     bool
	SessionActive bool
	SessionID     string
	ActionCount   int
	SavingsUSD    decimal.Decimal
	ActionsByKind map[game.ActionKind]int
}

// clone returns a deep copy safe to hand to observers.
func (s State) clone() State {
	out := s
	if s.ActionsByKind != nil {
		out.ActionsByKind = make(map[game.ActionKind]int, len(s.ActionsByKind))
		for kind, count := range s.ActionsByKind {
			out.ActionsByKind[kind] = count
		}
	}
	return out
}

// Allocation is one final asset allocation submitted with a session close.
type Allocation struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}
