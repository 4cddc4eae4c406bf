package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types for the cdp module
const (
	TypeMsgMintDebt      = "mint_debt"
	TypeMsgBurnDebt      = "burn_debt"
	TypeMsgMintDebtBatch = "mint_debt_batch"
	TypeMsgBurnDebtBatch = "burn_debt_batch"
)

// MsgServer defines the cdp module's message service
type MsgServer interface {
	MintDebt(context.Context, *MsgMintDebt) (*MsgMintDebtResponse, error)
	BurnDebt(context.Context, *MsgBurnDebt) (*MsgBurnDebtResponse, error)
	MintDebtBatch(context.Context, *MsgMintDebtBatch) (*MsgMintDebtBatchResponse, error)
	BurnDebtBatch(context.Context, *MsgBurnDebtBatch) (*MsgBurnDebtBatchResponse, error)
}

// MsgMintDebt requests minting stablecoin debt against a position
type MsgMintDebt struct {
	Owner           string `json:"owner"`
	CollateralClass string `json:"collateral_class"`
	Amount          string `json:"amount"`
}

// MsgMintDebtResponse is the response for MsgMintDebt
type MsgMintDebtResponse struct {
	Minted          string `json:"minted"`
	FeesAccrued     string `json:"fees_accrued"`
	NewDebt         string `json:"new_debt"`
	NewHealthFactor string `json:"new_health_factor"`
}

// MsgBurnDebt requests repaying stablecoin debt on a position
type MsgBurnDebt struct {
	Owner           string `json:"owner"`
	CollateralClass string `json:"collateral_class"`
	Amount          string `json:"amount"`
}

// MsgBurnDebtResponse is the response for MsgBurnDebt
type MsgBurnDebtResponse struct {
	Burned          string `json:"burned"`
	FeesPaid        string `json:"fees_paid"`
	PrincipalRepaid string `json:"principal_repaid"`
	RemainingDebt   string `json:"remaining_debt"`
	NewHealthFactor string `json:"new_health_factor"`
	Closed          bool   `json:"closed"`
}

// DebtBatchItem is a single operation inside a batch message
type DebtBatchItem struct {
	CollateralClass string `json:"collateral_class"`
	Amount          string `json:"amount"`
}

// MsgMintDebtBatch requests a batch of mints with all-or-nothing semantics
type MsgMintDebtBatch struct {
	Owner string           `json:"owner"`
	Items []*DebtBatchItem `json:"items"`
}

// MsgMintDebtBatchResponse carries per-operation results for a committed batch
type MsgMintDebtBatchResponse struct {
	Results []*MsgMintDebtResponse `json:"results"`
}

// MsgBurnDebtBatch requests a batch of burns with all-or-nothing semantics
type MsgBurnDebtBatch struct {
	Owner string           `json:"owner"`
	Items []*DebtBatchItem `json:"items"`
}

// MsgBurnDebtBatchResponse carries per-operation results for a committed batch
type MsgBurnDebtBatchResponse struct {
	Results []*MsgBurnDebtResponse `json:"results"`
}

// Proto interface implementations for MsgMintDebt
func (msg *MsgMintDebt) Reset()         { *msg = MsgMintDebt{} }
func (msg *MsgMintDebt) String() string { return msg.Owner }
func (msg *MsgMintDebt) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgMintDebt
func (msg *MsgMintDebt) XXX_MessageName() string {
	return "openalpha.cdp.v1.MsgMintDebt"
}

// Proto interface implementations for MsgBurnDebt
func (msg *MsgBurnDebt) Reset()         { *msg = MsgBurnDebt{} }
func (msg *MsgBurnDebt) String() string { return msg.Owner }
func (msg *MsgBurnDebt) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgBurnDebt
func (msg *MsgBurnDebt) XXX_MessageName() string {
	return "openalpha.cdp.v1.MsgBurnDebt"
}

// Proto interface implementations for MsgMintDebtBatch
func (msg *MsgMintDebtBatch) Reset()         { *msg = MsgMintDebtBatch{} }
func (msg *MsgMintDebtBatch) String() string { return msg.Owner }
func (msg *MsgMintDebtBatch) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgMintDebtBatch
func (msg *MsgMintDebtBatch) XXX_MessageName() string {
	return "openalpha.cdp.v1.MsgMintDebtBatch"
}

// Proto interface implementations for MsgBurnDebtBatch
func (msg *MsgBurnDebtBatch) Reset()         { *msg = MsgBurnDebtBatch{} }
func (msg *MsgBurnDebtBatch) String() string { return msg.Owner }
func (msg *MsgBurnDebtBatch) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgBurnDebtBatch
func (msg *MsgBurnDebtBatch) XXX_MessageName() string {
	return "openalpha.cdp.v1.MsgBurnDebtBatch"
}

// ValidateBasic for MsgMintDebt
func (msg *MsgMintDebt) ValidateBasic() error {
	return validateDebtMsg(msg.Owner, msg.CollateralClass, msg.Amount)
}

// GetSigners returns the signer addresses for MsgMintDebt
func (msg *MsgMintDebt) GetSigners() []sdk.AccAddress {
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{owner}
}

// ValidateBasic for MsgBurnDebt
func (msg *MsgBurnDebt) ValidateBasic() error {
	return validateDebtMsg(msg.Owner, msg.CollateralClass, msg.Amount)
}

// GetSigners returns the signer addresses for MsgBurnDebt
func (msg *MsgBurnDebt) GetSigners() []sdk.AccAddress {
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{owner}
}

// ValidateBasic for MsgMintDebtBatch
func (msg *MsgMintDebtBatch) ValidateBasic() error {
	return validateDebtBatchMsg(msg.Owner, msg.Items)
}

// GetSigners returns the signer addresses for MsgMintDebtBatch
func (msg *MsgMintDebtBatch) GetSigners() []sdk.AccAddress {
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{owner}
}

// ValidateBasic for MsgBurnDebtBatch
func (msg *MsgBurnDebtBatch) ValidateBasic() error {
	return validateDebtBatchMsg(msg.Owner, msg.Items)
}

// GetSigners returns the signer addresses for MsgBurnDebtBatch
func (msg *MsgBurnDebtBatch) GetSigners() []sdk.AccAddress {
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{owner}
}

func validateDebtMsg(owner, collateralClass, amount string) error {
	if owner == "" {
		return ErrUnauthorized
	}
	if collateralClass == "" {
		return ErrCollateralConfigNotFound
	}
	amt, err := math.LegacyNewDecFromStr(amount)
	if err != nil {
		return ErrInvalidAmount
	}
	if !amt.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func validateDebtBatchMsg(owner string, items []*DebtBatchItem) error {
	if owner == "" {
		return ErrUnauthorized
	}
	if len(items) == 0 {
		return ErrEmptyBatch
	}
	if len(items) > MaxBatchSize {
		return ErrBatchTooLarge
	}
	for _, item := range items {
		if err := validateDebtMsg(owner, item.CollateralClass, item.Amount); err != nil {
			return err
		}
	}
	return nil
}
