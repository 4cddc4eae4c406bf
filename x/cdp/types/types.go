package types

import (
	"cosmossdk.io/math"
)

// CDPState represents the lifecycle state of a position
type CDPState int

const (
	CDPStateUnspecified CDPState = iota
	CDPStateActive
	CDPStateLiquidatable
	CDPStateFrozen
	CDPStateClosed
)

func (s CDPState) String() string {
	switch s {
	case CDPStateActive:
		return "active"
	case CDPStateLiquidatable:
		return "liquidatable"
	case CDPStateFrozen:
		return "frozen"
	case CDPStateClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// IsTerminal reports whether the state accepts no further mint or burn.
// Closed is fully terminal; Frozen is terminal for mutation but still readable.
func (s CDPState) IsTerminal() bool {
	return s == CDPStateClosed || s == CDPStateFrozen
}

// CDP is a collateralized debt position: locked collateral backing stablecoin
// debt. Every engine operation treats a CDP as an immutable snapshot and
// returns a new value; nothing in this package mutates a caller's CDP.
type CDP struct {
	Owner           string
	CollateralClass string         // e.g. "ETH", "WBTC"
	Collateral      math.LegacyDec // locked collateral, in collateral units
	Debt            math.LegacyDec // principal debt, in stablecoin units
	AccruedFees     math.LegacyDec // accrued but unpaid stability fees
	HealthFactor    math.LegacyDec // cached, refreshed on every operation
	State           CDPState
	Config          CollateralConfig // parameter snapshot for this collateral class
	CreatedAt       int64            // unix seconds
	UpdatedAt       int64            // unix seconds, monotonically non-decreasing
}

// NewCDP creates a position in Active state with zero debt.
func NewCDP(owner, collateralClass string, collateral math.LegacyDec, config CollateralConfig, now int64) CDP {
	return CDP{
		Owner:           owner,
		CollateralClass: collateralClass,
		Collateral:      collateral,
		Debt:            math.LegacyZeroDec(),
		AccruedFees:     math.LegacyZeroDec(),
		HealthFactor:    MaxHealthFactor,
		State:           CDPStateActive,
		Config:          config,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TotalOwed returns principal debt plus fees already accrued, before any new
// accrual for elapsed time.
func (c CDP) TotalOwed() (math.LegacyDec, error) {
	return SafeAdd(c.Debt, c.AccruedFees)
}
