package chain

import "github.com/croftland/croftland/internal/game"

// ChainFor maps a protocol to the chain it settles on. The second return is
// false for protocols that never settle on-chain; callers skip those rather
// than treating them as errors.
func ChainFor(protocol game.Protocol) (ID, bool) {
	switch protocol {
	case game.ProtocolAaveUSDC, game.ProtocolAaveGHO, game.ProtocolQuickswap:
		return Polygon, true
	case game.ProtocolHyperdrive:
		return Base, true
	case game.ProtocolSimulated, game.ProtocolUnspecified:
		return 0, false
	default:
		return 0, false
	}
}
