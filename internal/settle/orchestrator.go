// Package settle converts a batch of off-chain accruals into on-chain fact,
// one venue leg at a time, with per-leg failure isolation.
package settle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
	"github.com/croftland/croftland/internal/session"
	"github.com/croftland/croftland/internal/storage"
	"github.com/croftland/croftland/internal/telemetry"
	"github.com/croftland/croftland/internal/venue"
)

const tracerName = "github.com/croftland/croftland/internal/settle"

// SessionCloser closes the off-chain session and returns its closing
// snapshot. *session.Manager satisfies it.
type SessionCloser interface {
	SettleSession(ctx context.Context, owner chain.Address, final []session.Allocation) (session.State, error)
}

// AdapterSource resolves the adapter settling a protocol. *venue.Registry
// satisfies it.
type AdapterSource interface {
	ForProtocol(protocol game.Protocol) (venue.Adapter, bool)
}

// Deps carries the orchestrator's collaborators.
type Deps struct {
	// Signer returns the active wallet signer, or nil when no wallet is
	// connected. Settlement is invoked opportunistically from idle UI
	// state, so a nil signer is a silent no-op, not an error.
	Signer func() chain.Signer
	// Clients holds one chain client per settlement chain.
	Clients chain.Clients
	// Sessions closes the off-chain session before any leg runs.
	Sessions SessionCloser
	// Venues resolves protocol adapters.
	Venues AdapterSource
	// Store persists settlement results; optional.
	Store storage.SettlementStore
	// Telemetry records operational events; optional.
	Telemetry *telemetry.Emitter
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// Orchestrator drives one settlement at a time. The settling flag and the
// last result are its only mutable state; both are written exclusively on
// its own call stack.
type Orchestrator struct {
	deps   Deps
	tracer trace.Tracer

	settling atomic.Bool

	mu         sync.Mutex
	lastResult *Result
}

// NewOrchestrator builds an orchestrator over deps.
func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{
		deps:   deps,
		tracer: otel.Tracer(tracerName),
	}
}

// Settling reports whether a settlement call is in flight.
func (o *Orchestrator) Settling() bool {
	return o.settling.Load()
}

// LastResult returns the most recent settlement result, if any.
func (o *Orchestrator) LastResult() (Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastResult == nil {
		return Result{}, false
	}
	return *o.lastResult, true
}

// leg is one eligible entity bound to its chain and adapter.
type leg struct {
	entity  game.Entity
	chainID chain.ID
	adapter venue.Adapter
}

// SettleSession closes the off-chain session and settles every eligible
// entity on-chain, leg by leg.
//
// Preconditions: an active signer and a chain client for every chain the
// eligible entities require. When any is absent the call is a silent no-op
// and the last result is left unchanged; the session stays open because a
// close is irreversible and a leg that could never run must not consume it.
// If the off-chain close fails the whole operation fails before any leg runs
// and nothing is stored. Leg failures are isolated: each is recorded on its
// TransactionRecord and never aborts the remaining legs. Callers inspect
// LastResult, not a return value, for per-leg outcomes.
func (o *Orchestrator) SettleSession(ctx context.Context, entities []game.Entity) error {
	signer := o.activeSigner()
	if signer == nil || len(o.deps.Clients) == 0 {
		return nil
	}

	legs := o.eligibleLegs(entities)
	for _, l := range legs {
		if _, ok := o.deps.Clients.For(l.chainID); !ok {
			return nil
		}
	}

	o.settling.Store(true)
	defer o.settling.Store(false)

	ctx, span := o.tracer.Start(ctx, "settle.session")
	defer span.End()

	closing, err := o.deps.Sessions.SettleSession(ctx, signer.Address(), nil)
	if err != nil {
		_ = o.deps.Telemetry.Emitf(ctx, telemetry.SeverityError, "session close failed: %v", err)
		return fmt.Errorf("close off-chain session: %w", err)
	}

	records := make([]TransactionRecord, 0, len(legs))
	for _, l := range legs {
		records = append(records, o.settleLeg(ctx, signer, l.chainID, l.adapter, l.entity))
	}

	result := Result{
		SessionID:   closing.SessionID,
		ActionCount: closing.ActionCount,
		SavingsUSD:  closing.SavingsUSD,
		SettledAt:   o.deps.Now().UTC(),
		Records:     records,
	}

	o.mu.Lock()
	o.lastResult = &result
	o.mu.Unlock()

	o.persist(ctx, result)
	return nil
}

func (o *Orchestrator) activeSigner() chain.Signer {
	if o.deps.Signer == nil {
		return nil
	}
	return o.deps.Signer()
}

// eligibleLegs filters entities down to the legs that will run: a productive
// deposit, a chain mapping, and a configured adapter.
func (o *Orchestrator) eligibleLegs(entities []game.Entity) []leg {
	legs := make([]leg, 0, len(entities))
	for _, entity := range entities {
		if !entity.Productive() {
			continue
		}
		chainID, ok := chain.ChainFor(entity.Protocol)
		if !ok {
			continue
		}
		adapter, ok := o.deps.Venues.ForProtocol(entity.Protocol)
		if !ok {
			continue
		}
		legs = append(legs, leg{entity: entity, chainID: chainID, adapter: adapter})
	}
	return legs
}

// settleLeg runs one protocol leg. Every failure mode lands in the returned
// record; nothing escapes to the caller.
func (o *Orchestrator) settleLeg(ctx context.Context, signer chain.Signer, chainID chain.ID, adapter venue.Adapter, entity game.Entity) TransactionRecord {
	ctx, span := o.tracer.Start(ctx, "settle.leg", trace.WithAttributes(
		attribute.String("protocol", entity.Protocol.String()),
		attribute.Int64("chain_id", int64(chainID)),
	))
	defer span.End()

	record := TransactionRecord{Protocol: entity.Protocol}

	fail := func(err error) TransactionRecord {
		record.Status = LegFailed
		record.Error = err.Error()
		span.RecordError(err)
		_ = o.deps.Telemetry.Emitf(ctx, telemetry.SeverityWarn, "leg %s failed: %v", entity.Protocol, err)
		return record
	}

	// SettleSession checks required clients before closing the session; this
	// backstop keeps a directly-invoked leg failing closed.
	client, ok := o.deps.Clients.For(chainID)
	if !ok {
		return fail(fmt.Errorf("%w for chain %d", chain.ErrNoClient, chainID))
	}
	// The wallet's active chain is shared state; it must be switched before
	// this leg's signature request, which is why legs run sequentially.
	if err := client.SwitchChain(ctx, chainID); err != nil {
		return fail(fmt.Errorf("switch to chain %d: %w", chainID, err))
	}

	amountMinor := ScaleToMinor(entity.Deposited)
	hash, err := adapter.Supply(ctx, signer, client, amountMinor)
	if err != nil {
		return fail(err)
	}

	record.Status = LegConfirmed
	record.TxHash = hash
	return record
}

// persist stores the result. History is best-effort: a storage failure is
// reported to telemetry, never to the caller.
func (o *Orchestrator) persist(ctx context.Context, result Result) {
	if o.deps.Store == nil {
		return
	}
	if err := o.deps.Store.PutSettlement(ctx, result.storageRecord()); err != nil {
		_ = o.deps.Telemetry.Emitf(ctx, telemetry.SeverityWarn, "persist settlement: %v", err)
	}
}
