package game

// Protocol identifies the on-chain venue an entity accrues yield against.
//
// The set is closed on purpose: settlement dispatch switches over it
// exhaustively, so adding a venue is a compile-time-checked update rather
// than a silently-skipped default case.
type Protocol int

const (
	// ProtocolUnspecified represents an invalid protocol value.
	ProtocolUnspecified Protocol = iota
	// ProtocolAaveUSDC is the Aave v3 USDC lending market on Polygon.
	ProtocolAaveUSDC
	// ProtocolAaveGHO is the GHO facilitator market. It shares the Aave v3
	// pool with ProtocolAaveUSDC and settles through the same adapter.
	ProtocolAaveGHO
	// ProtocolQuickswap is the QuickSwap farm on Polygon.
	ProtocolQuickswap
	// ProtocolHyperdrive is the Hyperdrive market on Base, settled through
	// the custodial relay because its accounting asset is not obtainable by
	// ordinary wallets.
	ProtocolHyperdrive
	// ProtocolSimulated marks entities whose yield is estimated only and
	// never settled on-chain.
	ProtocolSimulated
)

// String returns the canonical lowercase protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolAaveUSDC:
		return "aave-usdc"
	case ProtocolAaveGHO:
		return "aave-gho"
	case ProtocolQuickswap:
		return "quickswap"
	case ProtocolHyperdrive:
		return "hyperdrive"
	case ProtocolSimulated:
		return "simulated"
	default:
		return "unspecified"
	}
}

// IsValid reports whether the protocol is a known venue.
func (p Protocol) IsValid() bool {
	switch p {
	case ProtocolAaveUSDC, ProtocolAaveGHO, ProtocolQuickswap, ProtocolHyperdrive, ProtocolSimulated:
		return true
	default:
		return false
	}
}
