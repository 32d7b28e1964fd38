package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
)

// HyperdriveRelay settles the Hyperdrive leg through a custodial relay. The
// venue's accounting asset cannot be acquired by ordinary wallets, so a
// server-held signer executes the on-chain deposit and this adapter only
// translates the relay's response into the common Supply contract.
//
// The single trusted relay signer is a deliberate trust boundary for this
// one leg, not a gap to be hardened here.
type HyperdriveRelay struct {
	ChainID    chain.ID
	Endpoint   string
	HTTPClient *http.Client
}

// NewHyperdriveRelay builds the relay adapter for the Base market.
func NewHyperdriveRelay(endpoint string, httpClient *http.Client) *HyperdriveRelay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HyperdriveRelay{ChainID: chain.Base, Endpoint: endpoint, HTTPClient: httpClient}
}

// Protocol returns the venue this adapter settles.
func (h *HyperdriveRelay) Protocol() game.Protocol { return game.ProtocolHyperdrive }

// Chain returns the chain the relay executes on.
func (h *HyperdriveRelay) Chain() chain.ID { return h.ChainID }

type relayRequest struct {
	Player string `json:"player"`
	Amount string `json:"amount"`
}

type relayResponse struct {
	Status     string `json:"status"`
	SettleHash string `json:"settleHash"`
	Message    string `json:"message"`
}

// Supply asks the relay to execute the deposit and waits for its verdict.
// The chain client is unused on this path; the relay holds its own.
func (h *HyperdriveRelay) Supply(ctx context.Context, signer chain.Signer, _ chain.Client, amountMinor *big.Int) (chain.Hash, error) {
	if signer == nil {
		return "", ErrNoSigner
	}
	if amountMinor == nil || amountMinor.Sign() <= 0 {
		return "", ErrZeroAmount
	}

	body, err := json.Marshal(relayRequest{
		Player: string(signer.Address()),
		Amount: amountMinor.String(),
	})
	if err != nil {
		return "", fmt.Errorf("encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call settlement relay: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read relay response: %w", err)
	}

	var decoded relayResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("decode relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decoded.Message != "" {
			return "", fmt.Errorf("relay rejected settlement: %s", decoded.Message)
		}
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	if decoded.Status != "confirmed" {
		return "", fmt.Errorf("relay settlement not confirmed: status %q", decoded.Status)
	}
	if decoded.SettleHash == "" {
		return "", fmt.Errorf("relay confirmed without a settle hash")
	}
	return chain.Hash(decoded.SettleHash), nil
}
