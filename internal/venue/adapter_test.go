package venue

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/chain/chaintest"
	"github.com/croftland/croftland/internal/game"
)

const (
	testPool  = chain.Address("0x794a61358D6845594F94dc1DB02A252b5b4814aD")
	testAsset = chain.Address("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359")
	testFarm  = chain.Address("0x20ec0d06F447d550fC6edee42121bc8C1817b97D")
	testOwner = chain.Address("0x1111111111111111111111111111111111111111")
)

func newAave() *AaveV3 {
	return NewAaveV3(testPool, testAsset)
}

func TestAaveSupplyRequiresSigner(t *testing.T) {
	_, err := newAave().Supply(context.Background(), nil, &chaintest.Client{Chain: chain.Polygon}, big.NewInt(1))
	if !errors.Is(err, ErrNoSigner) {
		t.Fatalf("expected ErrNoSigner, got %v", err)
	}
}

func TestAaveSupplyRejectsZeroAmount(t *testing.T) {
	signer := &chaintest.Signer{Addr: testOwner}
	_, err := newAave().Supply(context.Background(), signer, &chaintest.Client{Chain: chain.Polygon}, big.NewInt(0))
	if !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
}

func TestAaveSupplyApprovesBeforeDeposit(t *testing.T) {
	signer := &chaintest.Signer{Addr: testOwner}
	client := &chaintest.Client{Chain: chain.Polygon}

	hash, err := newAave().Supply(context.Background(), signer, client, big.NewInt(10_000))
	if err != nil {
		t.Fatalf("supply: %v", err)
	}

	sent := client.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected approve + supply, got %d transactions", len(sent))
	}
	if sent[0].Tx.To != testAsset {
		t.Fatalf("first tx to %s, want asset %s", sent[0].Tx.To, testAsset)
	}
	if !bytes.Equal(sent[0].Tx.Data[:4], selectorApprove[:]) {
		t.Fatalf("first tx selector = %x, want approve", sent[0].Tx.Data[:4])
	}
	if sent[1].Tx.To != testPool {
		t.Fatalf("second tx to %s, want pool %s", sent[1].Tx.To, testPool)
	}
	if !bytes.Equal(sent[1].Tx.Data[:4], selectorSupply[:]) {
		t.Fatalf("second tx selector = %x, want supply", sent[1].Tx.Data[:4])
	}
	if hash != sent[1].Hash {
		t.Fatalf("returned hash %s, want supply hash %s", hash, sent[1].Hash)
	}

	// The approval must be observed mined before the supply is broadcast.
	mined := client.Mined()
	if len(mined) == 0 || mined[0] != sent[0].Hash {
		t.Fatalf("approval was not waited on before supply: mined %v", mined)
	}
}

func TestAaveSupplyStopsWhenApprovalFails(t *testing.T) {
	signer := &chaintest.Signer{Addr: testOwner}
	client := &chaintest.Client{
		Chain:      chain.Polygon,
		WaitErrFor: map[chain.Hash]error{"0xtx-0": errors.New("reorged out")},
	}

	_, err := newAave().Supply(context.Background(), signer, client, big.NewInt(1))
	if err == nil {
		t.Fatal("expected error when approval is not mined")
	}
	if got := len(client.Sent()); got != 1 {
		t.Fatalf("supply must not be broadcast after failed approval, sent %d", got)
	}
}

func TestQuickswapSupplyStakesIntoPool(t *testing.T) {
	signer := &chaintest.Signer{Addr: testOwner}
	client := &chaintest.Client{Chain: chain.Polygon}
	adapter := NewQuickswap(testFarm, testAsset, 7)

	hash, err := adapter.Supply(context.Background(), signer, client, big.NewInt(5_000_000))
	if err != nil {
		t.Fatalf("supply: %v", err)
	}

	sent := client.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected approve + deposit, got %d transactions", len(sent))
	}
	if !bytes.Equal(sent[1].Tx.Data[:4], selectorDeposit[:]) {
		t.Fatalf("second tx selector = %x, want deposit", sent[1].Tx.Data[:4])
	}
	// deposit(poolID, amount): pool id occupies the first argument word.
	poolWord := sent[1].Tx.Data[4:36]
	if poolWord[31] != 7 {
		t.Fatalf("pool id word = %x, want 7 in the low byte", poolWord)
	}
	if hash != sent[1].Hash {
		t.Fatalf("returned hash %s, want deposit hash %s", hash, sent[1].Hash)
	}
}

func TestRegistryAliasesGHOToAave(t *testing.T) {
	aave := newAave()
	registry := NewRegistry(aave, NewQuickswap(testFarm, testAsset, 7), NewHyperdriveRelay("http://relay", nil))

	usdc, ok := registry.ForProtocol(game.ProtocolAaveUSDC)
	if !ok {
		t.Fatal("expected adapter for aave-usdc")
	}
	gho, ok := registry.ForProtocol(game.ProtocolAaveGHO)
	if !ok {
		t.Fatal("expected adapter for aave-gho")
	}
	if usdc != gho {
		t.Fatal("gho must alias the shared aave pool adapter")
	}
}

func TestRegistrySkipsSimulated(t *testing.T) {
	registry := NewRegistry(newAave(), nil, nil)
	if _, ok := registry.ForProtocol(game.ProtocolSimulated); ok {
		t.Fatal("simulated protocol must have no adapter")
	}
	if _, ok := registry.ForProtocol(game.ProtocolQuickswap); ok {
		t.Fatal("unconfigured venue must report absent")
	}
}

func TestAddressWordRejectsMalformed(t *testing.T) {
	if _, err := addressWord("0x1234"); err == nil {
		t.Fatal("expected error for short address")
	}
	if _, err := addressWord("not-hex"); err == nil {
		t.Fatal("expected error for non-hex address")
	}
}

func TestUintWordEncoding(t *testing.T) {
	word, err := uintWord(big.NewInt(10_000))
	if err != nil {
		t.Fatalf("uint word: %v", err)
	}
	if word[30] != 0x27 || word[31] != 0x10 {
		t.Fatalf("word tail = %x, want 2710", word[30:])
	}
	if _, err := uintWord(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative value")
	}
	if _, err := uintWord(nil); err == nil {
		t.Fatal("expected error for nil value")
	}
}
