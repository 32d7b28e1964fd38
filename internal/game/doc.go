// Package game defines the farm entities players manage between settlements.
//
// Entities are the player-owned productive units on the board. They are
// created from static configuration when a session starts, mutated in place
// by off-chain actions, and read (never mutated) by the settlement
// orchestrator.
package game
