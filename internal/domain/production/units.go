package production

import "github.com/shopspring/decimal"

// Project rule: raw materials are tracked in grams. Other units exist only so
// legacy rows keep their tag; new rows always get UnitGram.
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitMilliliter = "mL"
	UnitLiter      = "L"
	UnitPiece      = "un"
)

var (
	// KgToG converts operator input (kg) to the stored unit (g).
	KgToG = decimal.NewFromInt(1000)
	// TolerancePct is the fixed +/- 5% band applied to the required
	// quantity snapshotted at order generation time.
	TolerancePct = decimal.RequireFromString("0.05")
)
