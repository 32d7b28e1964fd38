package game

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/croftland/croftland/internal/platform/id"
)

var (
	// ErrUnknownProtocol indicates an entity references an unknown venue.
	ErrUnknownProtocol = errors.New("unknown protocol")
	// ErrNegativeAmount indicates a deposit below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrEntityNotFound indicates an action targets a missing entity.
	ErrEntityNotFound = errors.New("entity not found")
)

// Entity is a player-owned productive unit on the farm board.
//
// Deposited is denominated in USD and never negative. Entities with a zero
// deposit or a simulated protocol are inert for settlement purposes. Row and
// Col are presentation-only placement.
type Entity struct {
	ID           string
	Protocol     Protocol
	Level        int
	YieldRatePct decimal.Decimal
	Deposited    decimal.Decimal
	Row          int
	Col          int
}

// Productive reports whether the entity holds settleable value.
func (e Entity) Productive() bool {
	return e.Deposited.IsPositive()
}

// NewEntity creates a level-1 entity with a generated identifier.
func NewEntity(protocol Protocol, yieldRatePct decimal.Decimal, row, col int) (Entity, error) {
	if !protocol.IsValid() {
		return Entity{}, fmt.Errorf("%w: %d", ErrUnknownProtocol, protocol)
	}
	entityID, err := id.NewID()
	if err != nil {
		return Entity{}, fmt.Errorf("generate entity id: %w", err)
	}
	return Entity{
		ID:           entityID,
		Protocol:     protocol,
		Level:        1,
		YieldRatePct: yieldRatePct,
		Row:          row,
		Col:          col,
	}, nil
}

// Snapshot returns a defensive copy of entities. Callers that hand entity
// lists across a boundary (UI to orchestrator) pass a snapshot so the
// receiver cannot mutate live game state.
func Snapshot(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	return out
}

// Apply mutates the targeted entity in place according to the action.
// Deposits add to the entity balance, upgrades bump the level, compounds
// fold accrued yield back into the deposit.
func Apply(entities []Entity, action Action) error {
	if action.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	for i := range entities {
		if entities[i].ID != action.EntityID {
			continue
		}
		switch action.Kind {
		case ActionDeposit:
			entities[i].Deposited = entities[i].Deposited.Add(action.Amount)
		case ActionUpgrade:
			entities[i].Level++
		case ActionCompound:
			yield := entities[i].Deposited.
				Mul(entities[i].YieldRatePct).
				Div(decimal.NewFromInt(100))
			entities[i].Deposited = entities[i].Deposited.Add(yield)
		case ActionHarvest:
			// Harvest books yield off the entity; balance is unchanged.
		default:
			return fmt.Errorf("unsupported action kind %q", action.Kind)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEntityNotFound, action.EntityID)
}
