package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// TestNextState tests the lifecycle transition mapping
func TestNextState(t *testing.T) {
	healthy := math.LegacyNewDecWithPrec(15, 1)  // 1.5
	unhealthy := math.LegacyNewDecWithPrec(9, 1) // 0.9
	someDebt := math.LegacyNewDec(500)

	tests := []struct {
		name          string
		old           CDPState
		healthFactor  math.LegacyDec
		remainingDebt math.LegacyDec
		autoClose     bool
		expected      CDPState
	}{
		{"healthy stays active", CDPStateActive, healthy, someDebt, false, CDPStateActive},
		{"unhealthy becomes liquidatable", CDPStateActive, unhealthy, someDebt, false, CDPStateLiquidatable},
		{"liquidatable recovers", CDPStateLiquidatable, healthy, someDebt, false, CDPStateActive},
		{"zero debt with auto close", CDPStateActive, MaxHealthFactor, math.LegacyZeroDec(), true, CDPStateClosed},
		{"zero debt without auto close", CDPStateActive, MaxHealthFactor, math.LegacyZeroDec(), false, CDPStateActive},
		{"liquidatable closes on full repayment", CDPStateLiquidatable, MaxHealthFactor, math.LegacyZeroDec(), true, CDPStateClosed},
		{"exactly 1.0 is safe", CDPStateActive, math.LegacyOneDec(), someDebt, false, CDPStateActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := NextState(tt.old, tt.healthFactor, tt.remainingDebt, tt.autoClose)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next != tt.expected {
				t.Errorf("next state = %s, expected %s", next.String(), tt.expected.String())
			}
		})
	}
}

// TestNextStateTerminal tests that Closed and Frozen are one-way
func TestNextStateTerminal(t *testing.T) {
	if _, err := NextState(CDPStateClosed, MaxHealthFactor, math.LegacyZeroDec(), true); !errors.Is(err, ErrCDPClosed) {
		t.Errorf("expected ErrCDPClosed, got %v", err)
	}
	if _, err := NextState(CDPStateFrozen, MaxHealthFactor, math.LegacyZeroDec(), true); !errors.Is(err, ErrCDPFrozen) {
		t.Errorf("expected ErrCDPFrozen, got %v", err)
	}
}

// TestCDPStateString tests state names
func TestCDPStateString(t *testing.T) {
	tests := []struct {
		state    CDPState
		expected string
	}{
		{CDPStateActive, "active"},
		{CDPStateLiquidatable, "liquidatable"},
		{CDPStateFrozen, "frozen"},
		{CDPStateClosed, "closed"},
		{CDPStateUnspecified, "unspecified"},
	}
	for _, tt := range tests {
		if tt.state.String() != tt.expected {
			t.Errorf("state %d: expected %q, got %q", tt.state, tt.expected, tt.state.String())
		}
	}
}
