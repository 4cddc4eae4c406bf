package types

import (
	"cosmossdk.io/math"
)

// MintParams describes a single mint request.
type MintParams struct {
	Initiator string         // address requesting the mint
	Amount    math.LegacyDec // stablecoin amount to mint
	Timestamp int64          // unix seconds of the request
}

// BurnParams describes a single burn request.
type BurnParams struct {
	Initiator string
	Amount    math.LegacyDec
	Timestamp int64
}

// MintContext is a read-only snapshot of everything external to the position
// that a mint depends on. The engine never refreshes it; the caller is
// responsible for sourcing the price and system totals from the same instant.
type MintContext struct {
	CollateralPrice        math.LegacyDec // stablecoin units per collateral unit
	GlobalDebtCeiling      math.LegacyDec // system-wide debt cap; LegacyZeroDec disables the check, unset is rejected
	TotalSystemDebt        math.LegacyDec // outstanding system debt at snapshot time
	StabilityFeeAnnualRate math.LegacyDec // annual rate, e.g. 0.05
	ElapsedSeconds         int64          // seconds since the position's last accrual
	EmergencyShutdown      bool
	CurrentTime            int64          // unix seconds
	MaxMintAmount          math.LegacyDec // per-operation cap; zero disables the check
}

// BurnContext is the burn-side analogue of MintContext.
type BurnContext struct {
	CollateralPrice        math.LegacyDec
	TotalSystemDebt        math.LegacyDec
	StabilityFeeAnnualRate math.LegacyDec
	ElapsedSeconds         int64
	EmergencyShutdown      bool
	CurrentTime            int64
	MaxBurnAmount          math.LegacyDec
	AutoCloseCDP           bool // close the position when a burn clears all debt
}

// MintResult is the outcome of a successful mint.
type MintResult struct {
	CDP                  CDP            // updated position; the input is untouched
	Minted               math.LegacyDec // amount actually minted
	FeesAccrued          math.LegacyDec // stability fees folded into debt by this operation
	PreviousHealthFactor math.LegacyDec
	NewHealthFactor      math.LegacyDec
	NewDebt              math.LegacyDec // position debt after the mint
	NewSystemDebt        math.LegacyDec // projected system debt after the mint
}

// BurnResult is the outcome of a successful burn.
type BurnResult struct {
	CDP                  CDP
	Burned               math.LegacyDec // amount actually burned
	FeesPaid             math.LegacyDec // portion allocated to accrued fees
	PrincipalRepaid      math.LegacyDec // portion allocated to principal
	PreviousHealthFactor math.LegacyDec
	NewHealthFactor      math.LegacyDec
	RemainingDebt        math.LegacyDec // principal plus unpaid fees after the burn
	NewSystemDebt        math.LegacyDec
	CDPClosed            bool
}
