package types

import (
	"cosmossdk.io/math"
)

// NextState maps a position's old state plus its post-operation figures to the
// next lifecycle state. Frozen is never entered here; it is set only by the
// external emergency-shutdown trigger. Closed and Frozen are one-way: the
// function refuses to transition out of either.
func NextState(old CDPState, newHealthFactor, remainingDebt math.LegacyDec, autoClose bool) (CDPState, error) {
	switch old {
	case CDPStateClosed:
		return old, ErrCDPClosed
	case CDPStateFrozen:
		return old, ErrCDPFrozen
	}
	if autoClose && remainingDebt.IsZero() {
		return CDPStateClosed, nil
	}
	if newHealthFactor.LT(math.LegacyOneDec()) {
		return CDPStateLiquidatable, nil
	}
	return CDPStateActive, nil
}
