package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// starterPlots is the static board configuration every new session boots
// from. Yield rates are display estimates; the venues quote live rates.
var starterPlots = []struct {
	protocol Protocol
	yieldPct string
	row, col int
}{
	{ProtocolAaveUSDC, "4.2", 0, 0},
	{ProtocolAaveGHO, "6.1", 0, 1},
	{ProtocolQuickswap, "11.5", 1, 0},
	{ProtocolHyperdrive, "8.4", 1, 1},
	{ProtocolSimulated, "15.0", 2, 0},
}

// StarterFarm builds the initial entity list for a fresh session.
func StarterFarm() ([]Entity, error) {
	entities := make([]Entity, 0, len(starterPlots))
	for _, plot := range starterPlots {
		rate, err := decimal.NewFromString(plot.yieldPct)
		if err != nil {
			return nil, fmt.Errorf("parse yield rate %q: %w", plot.yieldPct, err)
		}
		entity, err := NewEntity(plot.protocol, rate, plot.row, plot.col)
		if err != nil {
			return nil, fmt.Errorf("create %s plot: %w", plot.protocol, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
