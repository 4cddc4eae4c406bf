package types

import (
	"cosmossdk.io/math"
)

// The validation pipeline is the single origin of business-rule errors.
// ValidateMint and ValidateBurn are pure: they inspect a position snapshot and
// a context and either accept or return one of the registered errors. The
// batch processor relies on this purity for its dry-run pass.

// validateConfigAmounts rejects config snapshots carrying unset decs. The
// pipeline dereferences these fields directly and LegacyDec's zero value is
// nil, so an unset field must surface as a typed error, not a panic.
func validateConfigAmounts(config CollateralConfig) error {
	if !ValidAmount(config.LiquidationRatio) || !ValidAmount(config.DebtCeiling) || !ValidAmount(config.DebtFloor) {
		return ErrInvalidCollateralConfig
	}
	return nil
}

// validateOperation runs the checks shared by mint and burn.
func validateOperation(cdp CDP, initiator string, amount, maxAmount math.LegacyDec, shutdown bool, currentTime int64) error {
	if shutdown {
		return ErrEmergencyShutdown
	}
	switch cdp.State {
	case CDPStateClosed:
		return ErrCDPClosed
	case CDPStateFrozen:
		return ErrCDPFrozen
	}
	if initiator == "" || initiator != cdp.Owner {
		return ErrUnauthorized
	}
	if !ValidAmount(amount) || amount.IsZero() {
		return ErrInvalidAmount
	}
	// The per-operation cap applies to the requested amount before fee
	// accrual; a zero cap disables the check.
	if ValidAmount(maxAmount) && maxAmount.IsPositive() && amount.GT(maxAmount) {
		return ErrInvalidAmount
	}
	if currentTime < cdp.UpdatedAt {
		return ErrInvalidTimestamp
	}
	return nil
}

// ValidateMint checks a proposed mint against authorization, bounds, ceilings,
// the debt floor, and post-mint health. The ceiling, floor and health checks
// project debt as principal + accrued fees + mint amount, so a mint cannot
// sneak past a limit that fee accrual alone would breach.
func ValidateMint(cdp CDP, params MintParams, mctx MintContext) error {
	if err := validateOperation(cdp, params.Initiator, params.Amount, mctx.MaxMintAmount, mctx.EmergencyShutdown, mctx.CurrentTime); err != nil {
		return err
	}
	if err := validateConfigAmounts(cdp.Config); err != nil {
		return err
	}
	// GlobalDebtCeiling at zero disables the check, but it and the running
	// total must still be set.
	if !ValidAmount(mctx.GlobalDebtCeiling) || !ValidAmount(mctx.TotalSystemDebt) {
		return ErrInvalidAmount
	}
	if mctx.ElapsedSeconds < 0 {
		return ErrInvalidTimestamp
	}

	fee, err := AccrueStabilityFee(cdp.Debt, mctx.StabilityFeeAnnualRate, mctx.ElapsedSeconds)
	if err != nil {
		return err
	}
	owed, err := cdp.TotalOwed()
	if err != nil {
		return err
	}
	projected, err := SafeAdd(owed, fee)
	if err != nil {
		return err
	}
	projected, err = SafeAdd(projected, params.Amount)
	if err != nil {
		return err
	}

	if cdp.Config.DebtCeiling.IsPositive() && projected.GT(cdp.Config.DebtCeiling) {
		return ErrDebtCeilingExceeded
	}
	if mctx.GlobalDebtCeiling.IsPositive() {
		newSystemDebt, err := SafeAdd(mctx.TotalSystemDebt, fee)
		if err != nil {
			return err
		}
		newSystemDebt, err = SafeAdd(newSystemDebt, params.Amount)
		if err != nil {
			return err
		}
		if newSystemDebt.GT(mctx.GlobalDebtCeiling) {
			return ErrDebtCeilingExceeded
		}
	}
	if projected.IsPositive() && projected.LT(cdp.Config.DebtFloor) {
		return ErrBelowDebtFloor
	}

	hf, err := HealthFactor(cdp.Collateral, projected, mctx.CollateralPrice, cdp.Config.LiquidationRatio)
	if err != nil {
		return err
	}
	if hf.LT(math.LegacyOneDec()) {
		return ErrInsufficientHealthFactor
	}
	return nil
}

// ValidateBurn checks a proposed burn. Repaying toward zero is always safe, so
// there is no health check; the burn must not exceed total owed, and a burn
// leaving a nonzero remainder below the debt floor is rejected (the dust rule
// from the other direction).
func ValidateBurn(cdp CDP, params BurnParams, bctx BurnContext) error {
	if err := validateOperation(cdp, params.Initiator, params.Amount, bctx.MaxBurnAmount, bctx.EmergencyShutdown, bctx.CurrentTime); err != nil {
		return err
	}
	if err := validateConfigAmounts(cdp.Config); err != nil {
		return err
	}
	if !ValidAmount(bctx.TotalSystemDebt) {
		return ErrInvalidAmount
	}
	if bctx.ElapsedSeconds < 0 {
		return ErrInvalidTimestamp
	}

	fee, err := AccrueStabilityFee(cdp.Debt, bctx.StabilityFeeAnnualRate, bctx.ElapsedSeconds)
	if err != nil {
		return err
	}
	owed, err := cdp.TotalOwed()
	if err != nil {
		return err
	}
	totalOwed, err := SafeAdd(owed, fee)
	if err != nil {
		return err
	}

	if params.Amount.GT(totalOwed) {
		return ErrOverRepayment
	}
	remaining, err := SafeSub(totalOwed, params.Amount)
	if err != nil {
		return err
	}
	if remaining.IsPositive() && remaining.LT(cdp.Config.DebtFloor) {
		return ErrBelowDebtFloor
	}
	return nil
}
