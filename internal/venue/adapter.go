// Package venue implements the protocol adapters settlement legs run
// through. Every adapter exposes the same Supply contract over a fixed,
// statically configured contract address and chain.
package venue

import (
	"context"
	"errors"
	"math/big"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
)

var (
	// ErrNoSigner indicates an adapter was invoked without a wallet signer.
	ErrNoSigner = errors.New("signer is required")
	// ErrNoClient indicates an adapter was invoked without a chain client.
	ErrNoClient = errors.New("chain client is required")
	// ErrZeroAmount indicates a supply of zero minor units.
	ErrZeroAmount = errors.New("amount must be positive")
)

// Adapter deposits a minor-unit amount into one on-chain venue and returns
// the transaction hash that carried the deposit.
type Adapter interface {
	// Protocol returns the venue this adapter settles.
	Protocol() game.Protocol
	// Chain returns the chain the venue's contracts live on.
	Chain() chain.ID
	// Supply deposits amountMinor (6-decimal minor units) for the signer.
	Supply(ctx context.Context, signer chain.Signer, client chain.Client, amountMinor *big.Int) (chain.Hash, error)
}

// Registry holds the configured adapter per protocol.
type Registry struct {
	aave       *AaveV3
	quickswap  *Quickswap
	hyperdrive *HyperdriveRelay
}

// NewRegistry wires the fixed protocol-to-adapter dispatch table.
func NewRegistry(aave *AaveV3, quickswap *Quickswap, hyperdrive *HyperdriveRelay) *Registry {
	return &Registry{aave: aave, quickswap: quickswap, hyperdrive: hyperdrive}
}

// ForProtocol resolves the adapter settling the given protocol. The GHO
// market shares its underlying pool with the USDC market, so both protocols
// dispatch to the same Aave adapter; the aliasing is deliberate, not a
// fallback. Simulated entities have no adapter and return false.
func (r *Registry) ForProtocol(protocol game.Protocol) (Adapter, bool) {
	if r == nil {
		return nil, false
	}
	switch protocol {
	case game.ProtocolAaveUSDC:
		return r.aave, r.aave != nil
	case game.ProtocolAaveGHO:
		// Alias: GHO settles through the shared Aave v3 pool.
		return r.aave, r.aave != nil
	case game.ProtocolQuickswap:
		return r.quickswap, r.quickswap != nil
	case game.ProtocolHyperdrive:
		return r.hyperdrive, r.hyperdrive != nil
	case game.ProtocolSimulated, game.ProtocolUnspecified:
		return nil, false
	default:
		return nil, false
	}
}
