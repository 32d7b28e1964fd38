// Package session manages the off-chain session a player batches
// micro-actions into between settlements.
//
// The Manager owns exactly one logical session per connected wallet and
// reports its state through immutable snapshots pushed to registered
// observers. The websocket transport to the clearnode, the challenge/response
// identity proof, and the session grant verification all live here; callers
// only see the five lifecycle operations and the snapshot stream.
package session
