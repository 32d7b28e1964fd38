// Package chaintest provides scripted signer and client fakes for tests.
package chaintest

import (
	"context"
	"fmt"
	"sync"

	"github.com/croftland/croftland/internal/chain"
)

// Signer is a fake wallet signer.
type Signer struct {
	Addr    chain.Address
	SignErr error

	mu     sync.Mutex
	signed [][]byte
}

// Address returns the configured address.
func (s *Signer) Address() chain.Address { return s.Addr }

// SignMessage records the message and returns a deterministic signature.
func (s *Signer) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	if s.SignErr != nil {
		return nil, s.SignErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signed = append(s.signed, append([]byte(nil), msg...))
	return []byte("signed:" + string(msg)), nil
}

// SignedMessages returns every message passed to SignMessage.
func (s *Signer) SignedMessages() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.signed...)
}

// SentTx records one broadcast transaction.
type SentTx struct {
	Tx   chain.TxRequest
	Hash chain.Hash
}

// Client is a scripted fake chain client. Each broadcast returns a hash of
// the form 0xtx-<n>; errors can be injected per call index or globally.
type Client struct {
	Chain chain.ID

	// SendErrAt maps a zero-based SendTransaction call index to an error.
	SendErrAt map[int]error
	// WaitErrFor fails WaitMined for the given hash.
	WaitErrFor map[chain.Hash]error
	// SwitchErr fails every SwitchChain call.
	SwitchErr error
	// CallFn scripts read-only calls; nil returns empty bytes.
	CallFn func(to chain.Address, data []byte) ([]byte, error)

	mu       sync.Mutex
	sent     []SentTx
	mined    []chain.Hash
	switches []chain.ID
}

// ChainID returns the configured chain.
func (c *Client) ChainID() chain.ID { return c.Chain }

// Call delegates to CallFn when set.
func (c *Client) Call(_ context.Context, to chain.Address, data []byte) ([]byte, error) {
	if c.CallFn != nil {
		return c.CallFn(to, data)
	}
	return nil, nil
}

// SendTransaction records the request and returns a sequential fake hash.
func (c *Client) SendTransaction(_ context.Context, signer chain.Signer, tx chain.TxRequest) (chain.Hash, error) {
	if signer == nil {
		return "", fmt.Errorf("signer is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := len(c.sent)
	if err, ok := c.SendErrAt[idx]; ok {
		return "", err
	}
	hash := chain.Hash(fmt.Sprintf("0xtx-%d", idx))
	c.sent = append(c.sent, SentTx{Tx: tx, Hash: hash})
	return hash, nil
}

// WaitMined records the wait and honors injected errors.
func (c *Client) WaitMined(_ context.Context, hash chain.Hash) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.WaitErrFor[hash]; ok {
		return err
	}
	c.mined = append(c.mined, hash)
	return nil
}

// SwitchChain records the requested chain.
func (c *Client) SwitchChain(_ context.Context, chainID chain.ID) error {
	if c.SwitchErr != nil {
		return c.SwitchErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.switches = append(c.switches, chainID)
	return nil
}

// Sent returns every broadcast transaction in order.
func (c *Client) Sent() []SentTx {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentTx(nil), c.sent...)
}

// Mined returns every hash WaitMined observed, in order.
func (c *Client) Mined() []chain.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chain.Hash(nil), c.mined...)
}

// Switches returns every chain activation request, in order.
func (c *Client) Switches() []chain.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chain.ID(nil), c.switches...)
}
