package types

// Burn decreases a position's debt by params.Amount. Fees are always paid
// before principal: the burn amount is allocated first to accrued fees, and
// only the remainder reduces principal. A burn equal to principal plus all
// accrued fees is a full repayment and, with AutoCloseCDP set, closes the
// position. Like Mint, this is a pure function over snapshots.
func Burn(cdp CDP, params BurnParams, bctx BurnContext) (*BurnResult, error) {
	if err := ValidateBurn(cdp, params, bctx); err != nil {
		return nil, err
	}

	owedBefore, err := cdp.TotalOwed()
	if err != nil {
		return nil, err
	}
	prevHF, err := HealthFactor(cdp.Collateral, owedBefore, bctx.CollateralPrice, cdp.Config.LiquidationRatio)
	if err != nil {
		return nil, err
	}

	fee, err := AccrueStabilityFee(cdp.Debt, bctx.StabilityFeeAnnualRate, bctx.ElapsedSeconds)
	if err != nil {
		return nil, err
	}
	totalFees, err := SafeAdd(cdp.AccruedFees, fee)
	if err != nil {
		return nil, err
	}

	// Fee-first allocation. Principal payment is capped by current principal;
	// validation already guarantees the burn does not exceed total owed.
	feesPayment := MinAmount(params.Amount, totalFees)
	principalPayment, err := SafeSub(params.Amount, feesPayment)
	if err != nil {
		return nil, err
	}
	principalPayment = MinAmount(principalPayment, cdp.Debt)

	remainingPrincipal, err := SafeSub(cdp.Debt, principalPayment)
	if err != nil {
		return nil, err
	}
	remainingFees, err := SafeSub(totalFees, feesPayment)
	if err != nil {
		return nil, err
	}
	remainingOwed, err := SafeAdd(remainingPrincipal, remainingFees)
	if err != nil {
		return nil, err
	}

	newHF, err := HealthFactor(cdp.Collateral, remainingOwed, bctx.CollateralPrice, cdp.Config.LiquidationRatio)
	if err != nil {
		return nil, err
	}
	nextState, err := NextState(cdp.State, newHF, remainingOwed, bctx.AutoCloseCDP)
	if err != nil {
		return nil, err
	}

	// System debt grows by the newly accrued fee and shrinks by the burn.
	newSystemDebt, err := SafeAdd(bctx.TotalSystemDebt, fee)
	if err != nil {
		return nil, err
	}
	newSystemDebt, err = SafeSub(newSystemDebt, params.Amount)
	if err != nil {
		return nil, err
	}

	updated := cdp
	updated.Debt = remainingPrincipal
	updated.AccruedFees = remainingFees
	updated.HealthFactor = newHF
	updated.State = nextState
	updated.UpdatedAt = bctx.CurrentTime

	return &BurnResult{
		CDP:                  updated,
		Burned:               params.Amount,
		FeesPaid:             feesPayment,
		PrincipalRepaid:      principalPayment,
		PreviousHealthFactor: prevHF,
		NewHealthFactor:      newHF,
		RemainingDebt:        remainingOwed,
		NewSystemDebt:        newSystemDebt,
		CDPClosed:            nextState == CDPStateClosed,
	}, nil
}
