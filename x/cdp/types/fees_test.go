package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// TestAccrueStabilityFee tests simple-interest accrual with floor rounding
func TestAccrueStabilityFee(t *testing.T) {
	tests := []struct {
		name     string
		debt     math.LegacyDec
		rate     math.LegacyDec
		elapsed  int64
		expected string
	}{
		{
			// 2000 debt at 5% over one day: 2000*0.05*86400/31536000
			name:     "one day at 5 percent",
			debt:     math.LegacyNewDec(2000),
			rate:     math.LegacyNewDecWithPrec(5, 2),
			elapsed:  86400,
			expected: "0.273972602739726027",
		},
		{
			// a full year accrues exactly debt*rate
			name:     "full year",
			debt:     math.LegacyNewDec(2000),
			rate:     math.LegacyNewDecWithPrec(5, 2),
			elapsed:  SecondsPerYear,
			expected: "100.000000000000000000",
		},
		{
			name:     "zero elapsed",
			debt:     math.LegacyNewDec(2000),
			rate:     math.LegacyNewDecWithPrec(5, 2),
			elapsed:  0,
			expected: "0.000000000000000000",
		},
		{
			name:     "zero debt",
			debt:     math.LegacyZeroDec(),
			rate:     math.LegacyNewDecWithPrec(5, 2),
			elapsed:  86400,
			expected: "0.000000000000000000",
		},
		{
			name:     "zero rate",
			debt:     math.LegacyNewDec(2000),
			rate:     math.LegacyZeroDec(),
			elapsed:  86400,
			expected: "0.000000000000000000",
		},
		{
			// truncation: 1 unit of debt for 1 second at 5% is below 18 decimals
			// of a year's fee but still representable
			name:     "one second on one unit",
			debt:     math.LegacyOneDec(),
			rate:     math.LegacyNewDecWithPrec(5, 2),
			elapsed:  1,
			expected: "0.000000001585489599",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := AccrueStabilityFee(tt.debt, tt.rate, tt.elapsed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fee.String() != tt.expected {
				t.Errorf("fee = %s, expected %s", fee.String(), tt.expected)
			}
		})
	}
}

// TestAccrueStabilityFeeNegativeElapsed tests the contract violation path
func TestAccrueStabilityFeeNegativeElapsed(t *testing.T) {
	_, err := AccrueStabilityFee(math.LegacyNewDec(2000), math.LegacyNewDecWithPrec(5, 2), -1)
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("expected ErrInvalidTimestamp, got %v", err)
	}
}

// TestAccrueStabilityFeeFloorRounding tests that accrual never rounds up
func TestAccrueStabilityFeeFloorRounding(t *testing.T) {
	// 3 units at 100% over 1 second: 3/31536000 = 0.0000000951293759512937...
	// the trailing digits beyond 18 decimals must be dropped, not rounded
	fee, err := AccrueStabilityFee(math.LegacyNewDec(3), math.LegacyOneDec(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee.String() != "0.000000095129375951" {
		t.Errorf("fee = %s, expected 0.000000095129375951", fee.String())
	}
}

// TestAccrueStabilityFeeProductTruncation tests that the debt*rate product
// truncates at 18 decimals instead of rounding half-up
func TestAccrueStabilityFeeProductTruncation(t *testing.T) {
	// 0.000000000000000003 * 0.5 is exactly 1.5e-18; a full year must pay
	// the floor 1e-18, never the rounded 2e-18
	fee, err := AccrueStabilityFee(math.LegacyNewDecWithPrec(3, 18), math.LegacyNewDecWithPrec(5, 1), SecondsPerYear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee.String() != "0.000000000000000001" {
		t.Errorf("fee = %s, expected 0.000000000000000001", fee.String())
	}

	// 0.000000000000000001 * 0.9 truncates to zero in the product, so no
	// fee accrues at all
	fee, err = AccrueStabilityFee(math.LegacyNewDecWithPrec(1, 18), math.LegacyNewDecWithPrec(9, 1), SecondsPerYear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.IsZero() {
		t.Errorf("fee = %s, expected zero", fee.String())
	}
}
