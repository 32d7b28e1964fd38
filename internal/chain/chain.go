// Package chain defines the narrow contracts the settlement core consumes
// from wallet and RPC infrastructure. The real signer and chain clients live
// in the host application; everything here is interface-only so the core
// never links an EVM SDK.
package chain

import (
	"context"
	"errors"
	"math/big"
)

// ID is an EVM chain identifier.
type ID uint64

// Chains the venues settle on.
const (
	Polygon ID = 137
	Base    ID = 8453
)

// Address is a 0x-prefixed, hex-encoded account or contract address.
type Address string

// Hash is a 0x-prefixed transaction hash.
type Hash string

// ErrNoClient indicates no client is configured for a required chain.
var ErrNoClient = errors.New("no chain client configured")

// Signer provides the active account and its signing capabilities.
type Signer interface {
	// Address returns the active account address.
	Address() Address
	// SignMessage signs an arbitrary message for challenge/response auth.
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

// TxRequest describes a contract call to be signed and broadcast.
type TxRequest struct {
	ChainID ID
	To      Address
	Data    []byte
	Value   *big.Int
}

// Client is the per-chain read/write capability settlement legs run against.
type Client interface {
	// ChainID returns the chain this client talks to.
	ChainID() ID
	// Call executes a read-only contract call.
	Call(ctx context.Context, to Address, data []byte) ([]byte, error)
	// SendTransaction signs tx with signer and broadcasts it.
	SendTransaction(ctx context.Context, signer Signer, tx TxRequest) (Hash, error)
	// WaitMined blocks until the transaction is mined, returning an error if
	// it reverted.
	WaitMined(ctx context.Context, hash Hash) error
	// SwitchChain asks the wallet to activate the given chain before
	// signature requests are issued.
	SwitchChain(ctx context.Context, chainID ID) error
}

// Clients maps chain IDs to their configured clients.
type Clients map[ID]Client

// For returns the client for chainID.
func (c Clients) For(chainID ID) (Client, bool) {
	client, ok := c[chainID]
	return client, ok
}
