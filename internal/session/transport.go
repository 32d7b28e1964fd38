package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
)

// ActionUpdate is one off-chain state update sent to the clearnode. The
// board snapshot rides along so the service can validate the mutation
// against the state it last acknowledged.
type ActionUpdate struct {
	Owner    chain.Address
	Kind     game.ActionKind
	EntityID string
	Amount   decimal.Decimal
	Board    []game.Entity
}

// Transport is the clearnode connection the manager drives. Implementations
// own exactly one underlying connection: Connect while connected must reuse
// it, and Close must be safe to call repeatedly.
type Transport interface {
	// Connect dials the clearnode and completes the challenge/response
	// identity proof with the signer.
	Connect(ctx context.Context, signer chain.Signer) error
	// OpenSession opens one application session scoped to owner and returns
	// its identifier.
	OpenSession(ctx context.Context, owner chain.Address) (string, error)
	// SubmitAction sends one off-chain state update.
	SubmitAction(ctx context.Context, update ActionUpdate) error
	// CloseSession closes the session with the final allocation set.
	CloseSession(ctx context.Context, owner chain.Address, allocations []Allocation) error
	// Close tears the connection down unconditionally.
	Close() error
}
