package venue

import (
	"context"
	"fmt"
	"math/big"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
)

// Quickswap stakes USDC into a QuickSwap farm pool on Polygon. Like the
// lending adapter it approves the farm as spender, waits for the approval to
// mine, then issues the staking deposit.
type Quickswap struct {
	ChainID chain.ID
	Farm    chain.Address
	Asset   chain.Address
	PoolID  uint64
}

// NewQuickswap builds the Polygon farm adapter.
func NewQuickswap(farm, asset chain.Address, poolID uint64) *Quickswap {
	return &Quickswap{ChainID: chain.Polygon, Farm: farm, Asset: asset, PoolID: poolID}
}

// Protocol returns the venue this adapter settles.
func (q *Quickswap) Protocol() game.Protocol { return game.ProtocolQuickswap }

// Chain returns the chain the farm lives on.
func (q *Quickswap) Chain() chain.ID { return q.ChainID }

// Supply approves the farm for amountMinor and stakes it into the pool.
func (q *Quickswap) Supply(ctx context.Context, signer chain.Signer, client chain.Client, amountMinor *big.Int) (chain.Hash, error) {
	if signer == nil {
		return "", ErrNoSigner
	}
	if client == nil {
		return "", ErrNoClient
	}
	if amountMinor == nil || amountMinor.Sign() <= 0 {
		return "", ErrZeroAmount
	}

	amountArg, err := uintWord(amountMinor)
	if err != nil {
		return "", fmt.Errorf("encode amount: %w", err)
	}
	farmArg, err := addressWord(q.Farm)
	if err != nil {
		return "", fmt.Errorf("encode farm address: %w", err)
	}
	poolArg, err := uintWord(new(big.Int).SetUint64(q.PoolID))
	if err != nil {
		return "", fmt.Errorf("encode pool id: %w", err)
	}

	approveHash, err := client.SendTransaction(ctx, signer, chain.TxRequest{
		ChainID: q.ChainID,
		To:      q.Asset,
		Data:    encodeCall(selectorApprove, farmArg, amountArg),
	})
	if err != nil {
		return "", fmt.Errorf("approve %s spend: %w", q.Farm, err)
	}
	if err := client.WaitMined(ctx, approveHash); err != nil {
		return "", fmt.Errorf("approval %s not mined: %w", approveHash, err)
	}

	depositHash, err := client.SendTransaction(ctx, signer, chain.TxRequest{
		ChainID: q.ChainID,
		To:      q.Farm,
		Data:    encodeCall(selectorDeposit, poolArg, amountArg),
	})
	if err != nil {
		return "", fmt.Errorf("deposit to farm %s: %w", q.Farm, err)
	}
	if err := client.WaitMined(ctx, depositHash); err != nil {
		return "", fmt.Errorf("deposit %s reverted: %w", depositHash, err)
	}
	return depositHash, nil
}
