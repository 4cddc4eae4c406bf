package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// TestHealthFactor tests the collateralization health calculation
func TestHealthFactor(t *testing.T) {
	tests := []struct {
		name             string
		collateral       math.LegacyDec
		debt             math.LegacyDec
		price            math.LegacyDec
		liquidationRatio math.LegacyDec
		expected         string
	}{
		{
			// 2 ETH at 2000 against 2000 debt at 130%: 4000/2600
			name:             "reference position",
			collateral:       math.LegacyNewDec(2),
			debt:             math.LegacyNewDec(2000),
			price:            math.LegacyNewDec(2000),
			liquidationRatio: math.LegacyNewDecWithPrec(130, 2),
			expected:         "1.538461538461538461",
		},
		{
			name:             "exactly at the boundary",
			collateral:       math.LegacyNewDec(13),
			debt:             math.LegacyNewDec(1000),
			price:            math.LegacyNewDec(100),
			liquidationRatio: math.LegacyNewDecWithPrec(130, 2),
			expected:         "1.000000000000000000",
		},
		{
			name:             "underwater position",
			collateral:       math.LegacyNewDec(1),
			debt:             math.LegacyNewDec(2000),
			price:            math.LegacyNewDec(2000),
			liquidationRatio: math.LegacyNewDecWithPrec(130, 2),
			expected:         "0.769230769230769230",
		},
		{
			name:             "zero collateral with debt",
			collateral:       math.LegacyZeroDec(),
			debt:             math.LegacyNewDec(100),
			price:            math.LegacyNewDec(2000),
			liquidationRatio: math.LegacyNewDecWithPrec(130, 2),
			expected:         "0.000000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hf, err := HealthFactor(tt.collateral, tt.debt, tt.price, tt.liquidationRatio)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hf.String() != tt.expected {
				t.Errorf("health factor = %s, expected %s", hf.String(), tt.expected)
			}
		})
	}
}

// TestHealthFactorZeroDebtSentinel tests the infinitely-safe sentinel
func TestHealthFactorZeroDebtSentinel(t *testing.T) {
	hf, err := HealthFactor(math.LegacyNewDec(2), math.LegacyZeroDec(), math.LegacyNewDec(2000), math.LegacyNewDecWithPrec(130, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hf.Equal(MaxHealthFactor) {
		t.Errorf("expected MaxHealthFactor sentinel, got %s", hf.String())
	}
}

// TestHealthFactorInvalidRatio tests rejection of a zero liquidation ratio
func TestHealthFactorInvalidRatio(t *testing.T) {
	_, err := HealthFactor(math.LegacyNewDec(2), math.LegacyNewDec(100), math.LegacyNewDec(2000), math.LegacyZeroDec())
	if !errors.Is(err, ErrInvalidCollateralConfig) {
		t.Errorf("expected ErrInvalidCollateralConfig, got %v", err)
	}
}

// TestHealthFactorMonotonicity tests that more debt never improves health
func TestHealthFactorMonotonicity(t *testing.T) {
	collateral := math.LegacyNewDec(2)
	price := math.LegacyNewDec(2000)
	ratio := math.LegacyNewDecWithPrec(130, 2)

	prev := MaxHealthFactor
	for debt := int64(100); debt <= 5000; debt += 100 {
		hf, err := HealthFactor(collateral, math.LegacyNewDec(debt), price, ratio)
		if err != nil {
			t.Fatalf("debt %d: unexpected error: %v", debt, err)
		}
		if hf.GT(prev) {
			t.Errorf("debt %d: health factor increased from %s to %s", debt, prev.String(), hf.String())
		}
		prev = hf
	}
}
