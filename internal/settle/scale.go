package settle

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the base-10 scaling of the 6-decimal stable tokens
// every venue settles in.
const minorUnitExponent = 6

// ScaleToMinor converts a decimal USD amount into minor units, flooring any
// precision beyond the 6th decimal so a player is never over-credited. The
// conversion is exact integer arithmetic end to end; no float ever touches
// the amount.
func ScaleToMinor(amount decimal.Decimal) *big.Int {
	return amount.Shift(minorUnitExponent).Floor().BigInt()
}
