package game

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func TestNewEntityRejectsUnknownProtocol(t *testing.T) {
	_, err := NewEntity(Protocol(99), decimal.Zero, 0, 0)
	if !errors.Is(err, ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
}

func TestNewEntityStartsAtLevelOne(t *testing.T) {
	entity, err := NewEntity(ProtocolAaveUSDC, mustDecimal(t, "4.2"), 1, 2)
	if err != nil {
		t.Fatalf("new entity: %v", err)
	}
	if entity.Level != 1 {
		t.Fatalf("level = %d, want 1", entity.Level)
	}
	if entity.ID == "" {
		t.Fatal("expected generated id")
	}
	if entity.Productive() {
		t.Fatal("fresh entity must not be productive")
	}
}

func TestSnapshotIsDefensive(t *testing.T) {
	entities := []Entity{{ID: "a", Deposited: mustDecimal(t, "10")}}
	snap := Snapshot(entities)
	snap[0].Deposited = mustDecimal(t, "999")

	if !entities[0].Deposited.Equal(mustDecimal(t, "10")) {
		t.Fatalf("snapshot mutation leaked into source: %s", entities[0].Deposited)
	}
}

func TestApplyDeposit(t *testing.T) {
	entities := []Entity{{ID: "a", Protocol: ProtocolAaveUSDC, Level: 1}}
	err := Apply(entities, Action{Kind: ActionDeposit, EntityID: "a", Amount: mustDecimal(t, "25.50")})
	if err != nil {
		t.Fatalf("apply deposit: %v", err)
	}
	if !entities[0].Deposited.Equal(mustDecimal(t, "25.50")) {
		t.Fatalf("deposited = %s, want 25.50", entities[0].Deposited)
	}
}

func TestApplyUpgradeBumpsLevel(t *testing.T) {
	entities := []Entity{{ID: "a", Protocol: ProtocolQuickswap, Level: 3}}
	if err := Apply(entities, Action{Kind: ActionUpgrade, EntityID: "a"}); err != nil {
		t.Fatalf("apply upgrade: %v", err)
	}
	if entities[0].Level != 4 {
		t.Fatalf("level = %d, want 4", entities[0].Level)
	}
}

func TestApplyCompoundFoldsYield(t *testing.T) {
	entities := []Entity{{
		ID:           "a",
		Protocol:     ProtocolAaveUSDC,
		Level:        1,
		YieldRatePct: mustDecimal(t, "10"),
		Deposited:    mustDecimal(t, "100"),
	}}
	if err := Apply(entities, Action{Kind: ActionCompound, EntityID: "a"}); err != nil {
		t.Fatalf("apply compound: %v", err)
	}
	if !entities[0].Deposited.Equal(mustDecimal(t, "110")) {
		t.Fatalf("deposited = %s, want 110", entities[0].Deposited)
	}
}

func TestApplyRejectsNegativeAmount(t *testing.T) {
	entities := []Entity{{ID: "a"}}
	err := Apply(entities, Action{Kind: ActionDeposit, EntityID: "a", Amount: mustDecimal(t, "-1")})
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestApplyMissingEntity(t *testing.T) {
	err := Apply(nil, Action{Kind: ActionDeposit, EntityID: "ghost", Amount: decimal.Zero})
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestStarterFarmBoots(t *testing.T) {
	entities, err := StarterFarm()
	if err != nil {
		t.Fatalf("starter farm: %v", err)
	}
	if len(entities) != 5 {
		t.Fatalf("expected 5 starter plots, got %d", len(entities))
	}
	for _, entity := range entities {
		if !entity.Protocol.IsValid() {
			t.Fatalf("invalid protocol on starter plot %s", entity.ID)
		}
		if entity.Level != 1 {
			t.Fatalf("starter plot %s level = %d, want 1", entity.ID, entity.Level)
		}
	}
}

func TestProtocolStrings(t *testing.T) {
	cases := map[Protocol]string{
		ProtocolAaveUSDC:    "aave-usdc",
		ProtocolAaveGHO:     "aave-gho",
		ProtocolQuickswap:   "quickswap",
		ProtocolHyperdrive:  "hyperdrive",
		ProtocolSimulated:   "simulated",
		ProtocolUnspecified: "unspecified",
	}
	for protocol, want := range cases {
		if got := protocol.String(); got != want {
			t.Fatalf("Protocol(%d).String() = %q, want %q", protocol, got, want)
		}
	}
}
