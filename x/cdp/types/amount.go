package types

import (
	"cosmossdk.io/math"
)

// All monetary math in this module goes through the checked helpers below so
// that scale and rounding stay centralized. Amounts are non-negative 18-decimal
// fixed-point values (math.LegacyDec). Any division truncates toward zero,
// which rounds in the protocol's favour whenever the result is ambiguous.

// ValidAmount reports whether d is usable as a token amount: initialized and
// non-negative.
func ValidAmount(d math.LegacyDec) bool {
	return !d.IsNil() && !d.IsNegative()
}

// guardOverflow converts LegacyDec overflow panics into ErrArithmeticOverflow.
// LegacyDec panics once a result exceeds its 256-bit mantissa; callers supplied
// an internally inconsistent context when that happens, and the failure must
// surface as an error rather than unwind the stack.
func guardOverflow(err *error) {
	if r := recover(); r != nil {
		*err = ErrArithmeticOverflow
	}
}

// SafeAdd returns a+b, rejecting uninitialized or negative operands.
func SafeAdd(a, b math.LegacyDec) (sum math.LegacyDec, err error) {
	defer guardOverflow(&err)
	if !ValidAmount(a) || !ValidAmount(b) {
		return math.LegacyDec{}, ErrInvalidAmount
	}
	return a.Add(b), nil
}

// SafeSub returns a-b, failing with ErrAmountUnderflow when b exceeds a
// instead of producing a negative amount.
func SafeSub(a, b math.LegacyDec) (diff math.LegacyDec, err error) {
	defer guardOverflow(&err)
	if !ValidAmount(a) || !ValidAmount(b) {
		return math.LegacyDec{}, ErrInvalidAmount
	}
	if b.GT(a) {
		return math.LegacyDec{}, ErrAmountUnderflow
	}
	return a.Sub(b), nil
}

// MulRateFloor multiplies an amount by a non-negative rate, truncating the
// result toward zero at 18 decimals.
func MulRateFloor(a, rate math.LegacyDec) (out math.LegacyDec, err error) {
	defer guardOverflow(&err)
	if !ValidAmount(a) || !ValidAmount(rate) {
		return math.LegacyDec{}, ErrInvalidAmount
	}
	return a.MulTruncate(rate), nil
}

// QuoFloor divides a by b, truncating toward zero. Division by zero is an
// arithmetic contract violation, not a recoverable business error.
func QuoFloor(a, b math.LegacyDec) (out math.LegacyDec, err error) {
	defer guardOverflow(&err)
	if !ValidAmount(a) || !ValidAmount(b) {
		return math.LegacyDec{}, ErrInvalidAmount
	}
	if b.IsZero() {
		return math.LegacyDec{}, ErrArithmeticOverflow
	}
	return a.QuoTruncate(b), nil
}

// MinAmount returns the smaller of a and b.
func MinAmount(a, b math.LegacyDec) math.LegacyDec {
	if a.LT(b) {
		return a
	}
	return b
}
