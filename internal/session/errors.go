package session

import "fmt"

// AuthError indicates the signer rejected the identity proof or transport
// setup failed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SessionError indicates an off-chain session open or submit failure.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// SettlementError indicates the off-chain session close failed. It is fatal
// to the settlement attempt that requested the close.
type SettlementError struct {
	Err error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement: %v", e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }
