package session

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/croftland/croftland/internal/chain"
	"github.com/croftland/croftland/internal/game"
)

// Message types exchanged with the clearnode.
const (
	msgAuthRequest   = "auth.request"
	msgAuthChallenge = "auth.challenge"
	msgAuthVerify    = "auth.verify"
	msgAuthOK        = "auth.ok"
	msgSessionOpen   = "session.open"
	msgSessionGrant  = "session.grant"
	msgSessionAction = "session.action"
	msgSessionClose  = "session.close"
	msgAck           = "ack"
)

// envelope is the JSON frame exchanged over the websocket. Responses echo
// the request id; frames with other ids are server pushes and are skipped by
// the request/response loop.
type envelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// sessionGrantClaims is the claims shape of the clearnode session grant.
type sessionGrantClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// WSTransport is the production clearnode transport: a single websocket
// connection carrying JSON envelopes, authenticated by a challenge/response
// signature and a server-issued session grant.
type WSTransport struct {
	url      string
	grantKey ed25519.PublicKey
	dialer   *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSTransport builds a transport for the clearnode at url. grantKey is
// the clearnode's published ed25519 key used to verify session grants.
func NewWSTransport(url string, grantKey ed25519.PublicKey) *WSTransport {
	return &WSTransport{url: url, grantKey: grantKey, dialer: websocket.DefaultDialer}
}

// Connect dials the clearnode and runs the challenge/response proof. While a
// connection is live, Connect is a no-op; it never dials a second socket.
func (t *WSTransport) Connect(ctx context.Context, signer chain.Signer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return nil
	}

	conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("dial clearnode: %w", err)
	}
	t.conn = conn

	if err := t.handshakeLocked(ctx, signer); err != nil {
		_ = conn.Close()
		t.conn = nil
		return err
	}
	return nil
}

func (t *WSTransport) handshakeLocked(ctx context.Context, signer chain.Signer) error {
	address := signer.Address()

	challengeResp, err := t.callLocked(ctx, msgAuthRequest, map[string]any{
		"address": address,
	})
	if err != nil {
		return fmt.Errorf("request challenge: %w", err)
	}
	if challengeResp.Type != msgAuthChallenge {
		return fmt.Errorf("unexpected frame %q during auth", challengeResp.Type)
	}
	var challenge struct {
		Challenge string `json:"challenge"`
	}
	if err := json.Unmarshal(challengeResp.Payload, &challenge); err != nil {
		return fmt.Errorf("decode challenge: %w", err)
	}
	if challenge.Challenge == "" {
		return fmt.Errorf("clearnode sent an empty challenge")
	}

	signature, err := signer.SignMessage(ctx, []byte(challenge.Challenge))
	if err != nil {
		return fmt.Errorf("sign challenge: %w", err)
	}

	verifyResp, err := t.callLocked(ctx, msgAuthVerify, map[string]any{
		"address":   address,
		"signature": hex.EncodeToString(signature),
	})
	if err != nil {
		return fmt.Errorf("verify challenge: %w", err)
	}
	if verifyResp.Type != msgAuthOK {
		return fmt.Errorf("clearnode rejected identity proof: frame %q", verifyResp.Type)
	}
	return nil
}

// OpenSession opens a session for owner and returns the session id extracted
// from the verified session grant.
func (t *WSTransport) OpenSession(ctx context.Context, owner chain.Address) (string, error) {
	resp, err := t.call(ctx, msgSessionOpen, map[string]any{
		"owner": owner,
	})
	if err != nil {
		return "", err
	}
	if resp.Type != msgSessionGrant {
		return "", fmt.Errorf("unexpected frame %q opening session", resp.Type)
	}
	var payload struct {
		Grant string `json:"grant"`
	}
	if err := json.Unmarshal(resp.Payload, &payload); err != nil {
		return "", fmt.Errorf("decode session grant: %w", err)
	}
	return t.verifyGrant(payload.Grant, owner)
}

// verifyGrant checks the ed25519 signature on the session grant and returns
// the sid claim.
func (t *WSTransport) verifyGrant(grant string, owner chain.Address) (string, error) {
	if grant == "" {
		return "", fmt.Errorf("clearnode sent an empty session grant")
	}
	var claims sessionGrantClaims
	_, err := jwt.ParseWithClaims(grant, &claims, func(*jwt.Token) (any, error) {
		return t.grantKey, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}))
	if err != nil {
		return "", fmt.Errorf("verify session grant: %w", err)
	}
	if claims.Subject != string(owner) {
		return "", fmt.Errorf("session grant subject %q does not match owner %q", claims.Subject, owner)
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("session grant is missing a session id")
	}
	return claims.SessionID, nil
}

// SubmitAction sends one state update and waits for the acknowledgment.
func (t *WSTransport) SubmitAction(ctx context.Context, update ActionUpdate) error {
	resp, err := t.call(ctx, msgSessionAction, map[string]any{
		"owner":    update.Owner,
		"kind":     update.Kind,
		"entityId": update.EntityID,
		"amount":   update.Amount,
		"board":    boardWire(update.Board),
	})
	if err != nil {
		return err
	}
	if resp.Type != msgAck {
		return fmt.Errorf("unexpected frame %q submitting action", resp.Type)
	}
	return nil
}

// CloseSession requests the session close with the final allocation set.
func (t *WSTransport) CloseSession(ctx context.Context, owner chain.Address, allocations []Allocation) error {
	if allocations == nil {
		allocations = []Allocation{}
	}
	resp, err := t.call(ctx, msgSessionClose, map[string]any{
		"owner":       owner,
		"allocations": allocations,
	})
	if err != nil {
		return err
	}
	if resp.Type != msgAck {
		return fmt.Errorf("unexpected frame %q closing session", resp.Type)
	}
	return nil
}

// Close tears down the connection. Safe to call repeatedly.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

type wireEntity struct {
	ID        string          `json:"id"`
	Protocol  string          `json:"protocol"`
	Level     int             `json:"level"`
	Deposited decimal.Decimal `json:"deposited"`
}

func boardWire(board []game.Entity) []wireEntity {
	out := make([]wireEntity, 0, len(board))
	for _, entity := range board {
		out = append(out, wireEntity{
			ID:        entity.ID,
			Protocol:  entity.Protocol.String(),
			Level:     entity.Level,
			Deposited: entity.Deposited,
		})
	}
	return out
}

func (t *WSTransport) call(ctx context.Context, msgType string, payload any) (envelope, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.callLocked(ctx, msgType, payload)
}

// callLocked writes one request frame and reads until the response echoing
// its id arrives. Frames with other ids are server pushes and are dropped.
func (t *WSTransport) callLocked(ctx context.Context, msgType string, payload any) (envelope, error) {
	if t.conn == nil {
		return envelope{}, fmt.Errorf("transport is not connected")
	}

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return envelope{}, fmt.Errorf("set write deadline: %w", err)
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return envelope{}, fmt.Errorf("set read deadline: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return envelope{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	request := envelope{ID: uuid.NewString(), Type: msgType, Payload: raw}
	if err := t.conn.WriteJSON(request); err != nil {
		return envelope{}, fmt.Errorf("write %s: %w", msgType, err)
	}

	for {
		var response envelope
		if err := t.conn.ReadJSON(&response); err != nil {
			return envelope{}, fmt.Errorf("read %s response: %w", msgType, err)
		}
		if response.ID != request.ID {
			continue
		}
		if response.Error != "" {
			return envelope{}, fmt.Errorf("clearnode error: %s", response.Error)
		}
		return response, nil
	}
}
