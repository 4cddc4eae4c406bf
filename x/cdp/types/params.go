package types

import (
	"cosmossdk.io/math"
)

// CollateralConfig holds the risk parameters for one collateral class. A CDP
// carries a snapshot of its class config; parameter changes apply to positions
// only when the keeper refreshes the snapshot.
type CollateralConfig struct {
	CollateralClass     string
	LiquidationRatio    math.LegacyDec // collateral-to-debt ratio at the liquidation boundary, e.g. 1.30
	MinCollateralRatio  math.LegacyDec // required ratio at position creation, e.g. 1.50
	DebtCeiling         math.LegacyDec // maximum debt a single position may carry
	DebtFloor           math.LegacyDec // minimum nonzero debt (dust threshold)
	StabilityFeeRate    math.LegacyDec // annual rate, e.g. 0.05 = 5%
	MaxMintPerOperation math.LegacyDec // per-call mint cap
	MaxBurnPerOperation math.LegacyDec // per-call burn cap
}

// Validate checks internal consistency of the configuration.
func (c CollateralConfig) Validate() error {
	if c.CollateralClass == "" {
		return ErrInvalidCollateralConfig
	}
	if !ValidAmount(c.LiquidationRatio) || !c.LiquidationRatio.GTE(math.LegacyOneDec()) {
		return ErrInvalidCollateralConfig
	}
	if !ValidAmount(c.MinCollateralRatio) || c.MinCollateralRatio.LT(c.LiquidationRatio) {
		return ErrInvalidCollateralConfig
	}
	if !ValidAmount(c.DebtCeiling) || !ValidAmount(c.DebtFloor) {
		return ErrInvalidCollateralConfig
	}
	if c.DebtFloor.GT(c.DebtCeiling) {
		return ErrInvalidCollateralConfig
	}
	if !ValidAmount(c.StabilityFeeRate) {
		return ErrInvalidCollateralConfig
	}
	if !ValidAmount(c.MaxMintPerOperation) || !ValidAmount(c.MaxBurnPerOperation) {
		return ErrInvalidCollateralConfig
	}
	return nil
}

// DefaultCollateralConfigs returns the initial collateral class registry.
func DefaultCollateralConfigs() map[string]CollateralConfig {
	return map[string]CollateralConfig{
		"ETH": {
			CollateralClass:     "ETH",
			LiquidationRatio:    math.LegacyNewDecWithPrec(130, 2), // 1.30
			MinCollateralRatio:  math.LegacyNewDecWithPrec(150, 2), // 1.50
			DebtCeiling:         math.LegacyNewDec(5_000_000),
			DebtFloor:           math.LegacyNewDec(100),
			StabilityFeeRate:    math.LegacyNewDecWithPrec(5, 2), // 5%
			MaxMintPerOperation: math.LegacyNewDec(250_000),
			MaxBurnPerOperation: math.LegacyNewDec(250_000),
		},
		"WBTC": {
			CollateralClass:     "WBTC",
			LiquidationRatio:    math.LegacyNewDecWithPrec(140, 2), // 1.40
			MinCollateralRatio:  math.LegacyNewDecWithPrec(165, 2), // 1.65
			DebtCeiling:         math.LegacyNewDec(3_000_000),
			DebtFloor:           math.LegacyNewDec(100),
			StabilityFeeRate:    math.LegacyNewDecWithPrec(4, 2), // 4%
			MaxMintPerOperation: math.LegacyNewDec(150_000),
			MaxBurnPerOperation: math.LegacyNewDec(150_000),
		},
		"ATOM": {
			CollateralClass:     "ATOM",
			LiquidationRatio:    math.LegacyNewDecWithPrec(160, 2), // 1.60
			MinCollateralRatio:  math.LegacyNewDecWithPrec(185, 2), // 1.85
			DebtCeiling:         math.LegacyNewDec(1_000_000),
			DebtFloor:           math.LegacyNewDec(50),
			StabilityFeeRate:    math.LegacyNewDecWithPrec(75, 3), // 7.5%
			MaxMintPerOperation: math.LegacyNewDec(50_000),
			MaxBurnPerOperation: math.LegacyNewDec(50_000),
		},
	}
}
