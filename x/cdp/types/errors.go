package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized             = errors.Register("cdp", 1, "initiator does not control this position")
	ErrInvalidAmount            = errors.Register("cdp", 2, "amount must be positive and within the per-operation maximum")
	ErrBelowDebtFloor           = errors.Register("cdp", 3, "resulting debt would be below the collateral class floor")
	ErrDebtCeilingExceeded      = errors.Register("cdp", 4, "debt ceiling exceeded")
	ErrInsufficientHealthFactor = errors.Register("cdp", 5, "position would fall below its liquidation boundary")
	ErrOverRepayment            = errors.Register("cdp", 6, "burn amount exceeds total owed")
	ErrCDPClosed                = errors.Register("cdp", 7, "position is closed")
	ErrCDPFrozen                = errors.Register("cdp", 8, "position is frozen")
	ErrEmergencyShutdown        = errors.Register("cdp", 9, "emergency shutdown is active")
	ErrArithmeticOverflow       = errors.Register("cdp", 10, "fixed-point arithmetic overflow")
	ErrAmountUnderflow          = errors.Register("cdp", 11, "fixed-point subtraction underflow")
	ErrInvalidTimestamp         = errors.Register("cdp", 12, "timestamp is negative or non-monotonic")

	// Batch errors
	ErrEmptyBatch    = errors.Register("cdp", 20, "batch contains no operations")
	ErrBatchTooLarge = errors.Register("cdp", 21, "batch exceeds maximum size")

	// Keeper errors
	ErrCDPNotFound              = errors.Register("cdp", 30, "position not found")
	ErrCDPExists                = errors.Register("cdp", 31, "position already exists")
	ErrCollateralConfigNotFound = errors.Register("cdp", 32, "collateral class not configured")
	ErrInvalidCollateralConfig  = errors.Register("cdp", 33, "invalid collateral configuration")
	ErrPriceUnavailable         = errors.Register("cdp", 34, "collateral price unavailable")
	ErrStalePrice               = errors.Register("cdp", 35, "collateral price is stale")
)
