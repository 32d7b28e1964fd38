package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
	"github.com/croftland/croftland/internal/storage"
	"github.com/croftland/croftland/internal/telemetry"
)

// phase tracks the manager's position in the session lifecycle.
type phase int

const (
	phaseDisconnected phase = iota
	phaseConnecting
	phaseConnected
	phaseSessionOpen
	phaseSettling
)

var (
	// ErrNotConnected indicates an operation that requires a connection.
	ErrNotConnected = errors.New("not connected")
	// ErrNoSession indicates an operation that requires an open session.
	ErrNoSession = errors.New("no open session")
	// ErrNoSigner indicates Connect was called without a signer.
	ErrNoSigner = errors.New("signer is required")
)

// Config tunes a Manager.
type Config struct {
	// SavingsPerAction is the estimated on-chain gas cost each batched
	// action avoids, in USD. Zero falls back to the default estimate.
	SavingsPerAction decimal.Decimal
	// ActionsPerSecond bounds the off-chain submit rate. Zero falls back to
	// the default limit.
	ActionsPerSecond rate.Limit
	// ActionBurst is the submit burst size. Zero falls back to the default.
	ActionBurst int
	// Journal receives acknowledged actions; optional.
	Journal storage.ActionJournal
	// Telemetry records journaling failures; optional.
	Telemetry *telemetry.Emitter
}

const (
	defaultSavingsPerAction = "0.05"
	defaultActionsPerSecond = rate.Limit(10)
	defaultActionBurst      = 20
)

// Manager owns one logical off-chain session per connected wallet.
//
// All lifecycle operations are driven from a single caller; the mutex exists
// so observers registered from other goroutines always read consistent
// snapshots.
type Manager struct {
	transport        Transport
	journal          storage.ActionJournal
	telemetry        *telemetry.Emitter
	limiter          *rate.Limiter
	savingsPerAction decimal.Decimal

	mu        sync.Mutex
	phase     phase
	state     State
	observers []func(State)
}

// NewManager builds a Manager over the given clearnode transport.
func NewManager(transport Transport, cfg Config) *Manager {
	savings := cfg.SavingsPerAction
	if savings.IsZero() {
		savings = decimal.RequireFromString(defaultSavingsPerAction)
	}
	limit := cfg.ActionsPerSecond
	if limit <= 0 {
		limit = defaultActionsPerSecond
	}
	burst := cfg.ActionBurst
	if burst <= 0 {
		burst = defaultActionBurst
	}
	return &Manager{
		transport:        transport,
		journal:          cfg.Journal,
		telemetry:        cfg.Telemetry,
		limiter:          rate.NewLimiter(limit, burst),
		savingsPerAction: savings,
	}
}

// Subscribe registers an observer and immediately pushes the current state.
func (m *Manager) Subscribe(observer func(State)) {
	if observer == nil {
		return
	}
	m.mu.Lock()
	m.observers = append(m.observers, observer)
	snapshot := m.state.clone()
	m.mu.Unlock()
	observer(snapshot)
}

// State returns the current state snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *Manager) emit() {
	m.mu.Lock()
	observers := append(([]func(State))(nil), m.observers...)
	snapshot := m.state.clone()
	m.mu.Unlock()
	for _, observer := range observers {
		observer(snapshot)
	}
}

// Connect establishes the clearnode transport and performs the
// challenge/response identity proof with the signer. It is idempotent while
// connected: subsequent calls reuse the live connection instead of dialing a
// second one.
func (m *Manager) Connect(ctx context.Context, signer chain.Signer) error {
	if signer == nil {
		return &AuthError{Err: ErrNoSigner}
	}

	m.mu.Lock()
	if m.phase >= phaseConnecting {
		m.mu.Unlock()
		return nil
	}
	m.phase = phaseConnecting
	m.mu.Unlock()

	if err := m.transport.Connect(ctx, signer); err != nil {
		m.mu.Lock()
		m.phase = phaseDisconnected
		m.state = State{}
		m.mu.Unlock()
		m.emit()
		return &AuthError{Err: err}
	}

	m.mu.Lock()
	m.phase = phaseConnected
	m.state.Connected = true
	m.mu.Unlock()
	m.emit()
	return nil
}

// CreateGameSession opens one application session scoped to owner. The
// session starts with zeroed counters.
func (m *Manager) CreateGameSession(ctx context.Context, owner chain.Address) error {
	m.mu.Lock()
	if m.phase < phaseConnected {
		m.mu.Unlock()
		return &SessionError{Err: ErrNotConnected}
	}
	m.mu.Unlock()

	sessionID, err := m.transport.OpenSession(ctx, owner)
	if err != nil {
		return &SessionError{Err: fmt.Errorf("open session: %w", err)}
	}

	m.mu.Lock()
	m.phase = phaseSessionOpen
	m.state.SessionActive = true
	m.state.SessionID = sessionID
	m.state.ActionCount = 0
	m.state.SavingsUSD = decimal.Zero
	m.state.ActionsByKind = make(map[game.ActionKind]int)
	m.mu.Unlock()
	m.emit()
	return nil
}

// SubmitGameAction sends one off-chain state update. Counters only move
// after the clearnode acknowledges the action: a transport failure surfaces
// an error and leaves ActionCount and SavingsUSD untouched.
func (m *Manager) SubmitGameAction(ctx context.Context, action game.Action, board []game.Entity, owner chain.Address) error {
	m.mu.Lock()
	if m.phase != phaseSessionOpen {
		m.mu.Unlock()
		return &SessionError{Err: ErrNoSession}
	}
	sessionID := m.state.SessionID
	m.mu.Unlock()

	if !action.Kind.IsValid() {
		return &SessionError{Err: fmt.Errorf("unsupported action kind %q", action.Kind)}
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return &SessionError{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	update := ActionUpdate{
		Owner:    owner,
		Kind:     action.Kind,
		EntityID: action.EntityID,
		Amount:   action.Amount,
		Board:    board,
	}
	if err := m.transport.SubmitAction(ctx, update); err != nil {
		return &SessionError{Err: fmt.Errorf("submit action: %w", err)}
	}

	m.mu.Lock()
	m.state.ActionCount++
	m.state.SavingsUSD = m.state.SavingsUSD.Add(m.savingsPerAction)
	if m.state.ActionsByKind == nil {
		m.state.ActionsByKind = make(map[game.ActionKind]int)
	}
	m.state.ActionsByKind[action.Kind]++
	m.mu.Unlock()
	m.emit()

	m.journalAction(ctx, sessionID, action)
	return nil
}

// journalAction records the acknowledged action. History is best-effort: a
// journaling failure is reported to telemetry, never to the caller.
func (m *Manager) journalAction(ctx context.Context, sessionID string, action game.Action) {
	if m.journal == nil {
		return
	}
	err := m.journal.AppendAction(ctx, storage.ActionRecord{
		SessionID: sessionID,
		EntityID:  action.EntityID,
		Kind:      string(action.Kind),
		AmountUSD: action.Amount.String(),
	})
	if err != nil {
		_ = m.telemetry.Emitf(ctx, telemetry.SeverityWarn, "journal action: %v", err)
	}
}

// SettleSession asks the clearnode to close the session with the final
// allocation set. On success it returns the closing snapshot (session id,
// action count, savings) and the session becomes terminal: no further
// SubmitGameAction calls are valid until a new session is created.
func (m *Manager) SettleSession(ctx context.Context, owner chain.Address, final []Allocation) (State, error) {
	m.mu.Lock()
	if m.phase != phaseSessionOpen {
		m.mu.Unlock()
		return State{}, &SettlementError{Err: ErrNoSession}
	}
	m.phase = phaseSettling
	m.mu.Unlock()

	if err := m.transport.CloseSession(ctx, owner, final); err != nil {
		m.mu.Lock()
		m.phase = phaseSessionOpen
		m.mu.Unlock()
		return State{}, &SettlementError{Err: fmt.Errorf("close session: %w", err)}
	}

	m.mu.Lock()
	closing := m.state.clone()
	m.phase = phaseConnected
	m.state.SessionActive = false
	m.state.SessionID = ""
	m.state.ActionCount = 0
	m.state.SavingsUSD = decimal.Zero
	m.state.ActionsByKind = nil
	m.mu.Unlock()
	m.emit()
	return closing, nil
}

// Disconnect tears down the transport unconditionally and resets state to
// disconnected with no session. It is safe to call multiple times and from a
// torn-down state.
func (m *Manager) Disconnect() {
	if m.transport != nil {
		_ = m.transport.Close()
	}
	m.mu.Lock()
	m.phase = phaseDisconnected
	m.state = State{}
	m.mu.Unlock()
	m.emit()
}
