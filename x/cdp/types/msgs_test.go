package types

import (
	"errors"
	"testing"
)

// TestMsgMintDebtValidateBasic tests stateless message validation
func TestMsgMintDebtValidateBasic(t *testing.T) {
	tests := []struct {
		name     string
		msg      MsgMintDebt
		expected error
	}{
		{"valid", MsgMintDebt{Owner: "cosmos1owner", CollateralClass: "ETH", Amount: "500"}, nil},
		{"missing owner", MsgMintDebt{CollateralClass: "ETH", Amount: "500"}, ErrUnauthorized},
		{"missing class", MsgMintDebt{Owner: "cosmos1owner", Amount: "500"}, ErrCollateralConfigNotFound},
		{"unparseable amount", MsgMintDebt{Owner: "cosmos1owner", CollateralClass: "ETH", Amount: "abc"}, ErrInvalidAmount},
		{"zero amount", MsgMintDebt{Owner: "cosmos1owner", CollateralClass: "ETH", Amount: "0"}, ErrInvalidAmount},
		{"negative amount", MsgMintDebt{Owner: "cosmos1owner", CollateralClass: "ETH", Amount: "-5"}, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateBasic()
			if tt.expected == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

// TestMsgMintDebtBatchValidateBasic tests batch message validation
func TestMsgMintDebtBatchValidateBasic(t *testing.T) {
	valid := &DebtBatchItem{CollateralClass: "ETH", Amount: "100"}

	msg := MsgMintDebtBatch{Owner: "cosmos1owner", Items: []*DebtBatchItem{valid}}
	if err := msg.ValidateBasic(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	empty := MsgMintDebtBatch{Owner: "cosmos1owner"}
	if err := empty.ValidateBasic(); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}

	oversized := MsgMintDebtBatch{Owner: "cosmos1owner"}
	for i := 0; i <= MaxBatchSize; i++ {
		oversized.Items = append(oversized.Items, valid)
	}
	if err := oversized.ValidateBasic(); !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}

	badItem := MsgMintDebtBatch{Owner: "cosmos1owner", Items: []*DebtBatchItem{{CollateralClass: "ETH", Amount: "0"}}}
	if err := badItem.ValidateBasic(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

// TestCollateralConfigValidate tests risk-parameter consistency checks
func TestCollateralConfigValidate(t *testing.T) {
	for class, cfg := range DefaultCollateralConfigs() {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: default config invalid: %v", class, err)
		}
	}

	bad := DefaultCollateralConfigs()["ETH"]
	bad.DebtFloor = bad.DebtCeiling.Add(bad.DebtFloor)
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCollateralConfig) {
		t.Errorf("expected ErrInvalidCollateralConfig, got %v", err)
	}
}
