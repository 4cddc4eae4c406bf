package types

import (
	"cosmossdk.io/math"
)

// Mint increases a position's debt by params.Amount after accruing stability
// fees for the elapsed interval and folding them into principal. It is a pure
// function: the input CDP is never modified, and the only observable effect is
// the returned result. Persistence and serialization of concurrent requests
// for the same position are the caller's responsibility.
func Mint(cdp CDP, params MintParams, mctx MintContext) (*MintResult, error) {
	if err := ValidateMint(cdp, params, mctx); err != nil {
		return nil, err
	}

	owedBefore, err := cdp.TotalOwed()
	if err != nil {
		return nil, err
	}
	prevHF, err := HealthFactor(cdp.Collateral, owedBefore, mctx.CollateralPrice, cdp.Config.LiquidationRatio)
	if err != nil {
		return nil, err
	}

	fee, err := AccrueStabilityFee(cdp.Debt, mctx.StabilityFeeAnnualRate, mctx.ElapsedSeconds)
	if err != nil {
		return nil, err
	}
	// Capitalize carried and newly accrued fees into principal.
	totalFees, err := SafeAdd(cdp.AccruedFees, fee)
	if err != nil {
		return nil, err
	}
	newDebt, err := SafeAdd(cdp.Debt, totalFees)
	if err != nil {
		return nil, err
	}
	newDebt, err = SafeAdd(newDebt, params.Amount)
	if err != nil {
		return nil, err
	}

	newHF, err := HealthFactor(cdp.Collateral, newDebt, mctx.CollateralPrice, cdp.Config.LiquidationRatio)
	if err != nil {
		return nil, err
	}
	nextState, err := NextState(cdp.State, newHF, newDebt, false)
	if err != nil {
		return nil, err
	}

	newSystemDebt, err := SafeAdd(mctx.TotalSystemDebt, fee)
	if err != nil {
		return nil, err
	}
	newSystemDebt, err = SafeAdd(newSystemDebt, params.Amount)
	if err != nil {
		return nil, err
	}

	updated := cdp
	updated.Debt = newDebt
	updated.AccruedFees = math.LegacyZeroDec()
	updated.HealthFactor = newHF
	updated.State = nextState
	updated.UpdatedAt = mctx.CurrentTime

	return &MintResult{
		CDP:                  updated,
		Minted:               params.Amount,
		FeesAccrued:          totalFees,
		PreviousHealthFactor: prevHF,
		NewHealthFactor:      newHF,
		NewDebt:              newDebt,
		NewSystemDebt:        newSystemDebt,
	}, nil
}
