package types

import (
	"cosmossdk.io/math"
)

// MaxHealthFactor is the sentinel health factor for a position with no debt.
// A debt-free position carries no liquidation risk, so its health is reported
// as this maximal value rather than a division by zero.
var MaxHealthFactor = math.LegacyNewDec(1_000_000_000)

// HealthFactor computes how far a position sits from its liquidation boundary:
//
//	(collateral * price) / (debt * liquidationRatio)
//
// A value >= 1.0 is safe; below 1.0 the position is eligible for liquidation.
// The same formula serves both current health (actual collateral and debt) and
// projected post-operation health (projected debt against current collateral).
// Division truncates toward zero, which understates health and therefore errs
// on the protocol's side.
func HealthFactor(collateral, debt, price, liquidationRatio math.LegacyDec) (math.LegacyDec, error) {
	if !ValidAmount(collateral) || !ValidAmount(debt) || !ValidAmount(price) {
		return math.LegacyDec{}, ErrInvalidAmount
	}
	if !ValidAmount(liquidationRatio) || liquidationRatio.IsZero() {
		return math.LegacyDec{}, ErrInvalidCollateralConfig
	}
	if debt.IsZero() {
		return MaxHealthFactor, nil
	}

	value, err := MulRateFloor(collateral, price)
	if err != nil {
		return math.LegacyDec{}, err
	}
	boundary, err := MulRateFloor(debt, liquidationRatio)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return QuoFloor(value, boundary)
}
