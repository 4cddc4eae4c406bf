package types

import (
	"cosmossdk.io/math"
)

// SecondsPerYear is the accrual year length (365 days).
const SecondsPerYear = 31536000

// AccrueStabilityFee computes the simple interest owed on debt over
// elapsedSeconds at the given annual rate:
//
//	fee = debt * annualRate * elapsedSeconds / SecondsPerYear
//
// Every step truncates toward zero: the debt*rate product where it re-scales
// to 18 decimals, and the final division. The integer multiply by elapsed
// seconds is exact. The fee never exceeds the floored exact value, so rounding
// always favors the debtor. The fee does not compound within a single call;
// capitalization of fees into principal happens in Mint.
func AccrueStabilityFee(debt, annualRate math.LegacyDec, elapsedSeconds int64) (fee math.LegacyDec, err error) {
	defer guardOverflow(&err)

	if elapsedSeconds < 0 {
		return math.LegacyDec{}, ErrInvalidTimestamp
	}
	if !ValidAmount(debt) || !ValidAmount(annualRate) {
		return math.LegacyDec{}, ErrInvalidAmount
	}
	if debt.IsZero() || annualRate.IsZero() || elapsedSeconds == 0 {
		return math.LegacyZeroDec(), nil
	}

	numerator := debt.MulTruncate(annualRate).MulInt64(elapsedSeconds)
	return numerator.QuoTruncate(math.LegacyNewDec(SecondsPerYear)), nil
}
