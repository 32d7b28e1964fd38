package venue

import (
	"context"
	"fmt"
	"math/big"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
)

// AaveV3 deposits USDC into the Aave v3 pool on Polygon. Supply runs two
// sequential sub-steps: an ERC-20 approve of the pool as spender, observed
// mined, then the pool supply call. The deposit depends on the allowance
// being final on-chain, so there is no speculative pipelining.
type AaveV3 struct {
	ChainID chain.ID
	Pool    chain.Address
	Asset   chain.Address
}

// NewAaveV3 builds the Polygon USDC pool adapter.
func NewAaveV3(pool, asset chain.Address) *AaveV3 {
	return &AaveV3{ChainID: chain.Polygon, Pool: pool, Asset: asset}
}

// Protocol returns the primary protocol this adapter settles. The GHO market
// aliases to this adapter through the registry.
func (a *AaveV3) Protocol() game.Protocol { return game.ProtocolAaveUSDC }

// Chain returns the chain the pool lives on.
func (a *AaveV3) Chain() chain.ID { return a.ChainID }

// Supply approves the pool for amountMinor and then supplies it on behalf of
// the signer.
func (a *AaveV3) Supply(ctx context.Context, signer chain.Signer, client chain.Client, amountMinor *big.Int) (chain.Hash, error) {
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
	poolArg, err := addressWord(a.Pool)
	if err != nil {
		return "", fmt.Errorf("encode pool address: %w", err)
	}
	ownerArg, err := addressWord(signer.Address())
	if err != nil {
		return "", fmt.Errorf("encode owner address: %w", err)
	}
	assetArg, err := addressWord(a.Asset)
	if err != nil {
		return "", fmt.Errorf("encode asset address: %w", err)
	}

	approveHash, err := client.SendTransaction(ctx, signer, chain.TxRequest{
		ChainID: a.ChainID,
		To:      a.Asset,
		Data:    encodeCall(selectorApprove, poolArg, amountArg),
	})
	if err != nil {
		return "", fmt.Errorf("approve %s spend: %w", a.Pool, err)
	}
	if err := client.WaitMined(ctx, approveHash); err != nil {
		return "", fmt.Errorf("approval %s not mined: %w", approveHash, err)
	}

	var referral [32]byte // referral code 0
	supplyHash, err := client.SendTransaction(ctx, signer, chain.TxRequest{
		ChainID: a.ChainID,
		To:      a.Pool,
		Data:    encodeCall(selectorSupply, assetArg, amountArg, ownerArg, referral),
	})
	if err != nil {
		return "", fmt.Errorf("supply to pool %s: %w", a.Pool, err)
	}
	if err := client.WaitMined(ctx, supplyHash); err != nil {
		return "", fmt.Errorf("supply %s reverted: %w", supplyHash, err)
	}
	return supplyHash, nil
}
