package types

import (
	"cosmossdk.io/errors"
)

// MaxBatchSize caps the number of operations in a single batch.
const MaxBatchSize = 100

// MintBatchItem pairs a position snapshot with the mint requested against it.
type MintBatchItem struct {
	CDP    CDP
	Params MintParams
}

// BurnBatchItem pairs a position snapshot with the burn requested against it.
type BurnBatchItem struct {
	CDP    CDP
	Params BurnParams
}

// MintBatch applies a sequence of mints with all-or-nothing semantics: a
// dry-run validation pass covers every operation before any is applied, and
// the first validation failure aborts the batch with no results produced.
// The shared context's system debt advances cumulatively through the batch so
// the global ceiling holds for the batch as a whole, not just per operation.
// Duplicate positions in one batch are the caller's error: each item is a
// snapshot, and later items do not see earlier items' effects on the same CDP.
func MintBatch(items []MintBatchItem, mctx MintContext) ([]*MintResult, error) {
	if err := checkBatchSize(len(items)); err != nil {
		return nil, err
	}

	// Pass 1: validate all, mutating nothing.
	running := mctx.TotalSystemDebt
	for i, item := range items {
		opCtx := mctx
		opCtx.TotalSystemDebt = running
		if err := ValidateMint(item.CDP, item.Params, opCtx); err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
		fee, err := AccrueStabilityFee(item.CDP.Debt, mctx.StabilityFeeAnnualRate, mctx.ElapsedSeconds)
		if err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
		if running, err = SafeAdd(running, fee); err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
		if running, err = SafeAdd(running, item.Params.Amount); err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
	}

	// Pass 2: apply all. Validation already passed, so failures here are
	// arithmetic contract violations and still abort with no partial output.
	results := make([]*MintResult, len(items))
	running = mctx.TotalSystemDebt
	for i, item := range items {
		opCtx := mctx
		opCtx.TotalSystemDebt = running
		res, err := Mint(item.CDP, item.Params, opCtx)
		if err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
		results[i] = res
		running = res.NewSystemDebt
	}
	return results, nil
}

// BurnBatch applies a sequence of burns with the same two-phase,
// all-or-nothing contract as MintBatch.
func BurnBatch(items []BurnBatchItem, bctx BurnContext) ([]*BurnResult, error) {
	if err := checkBatchSize(len(items)); err != nil {
		return nil, err
	}

	for i, item := range items {
		if err := ValidateBurn(item.CDP, item.Params, bctx); err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
	}

	results := make([]*BurnResult, len(items))
	running := bctx.TotalSystemDebt
	for i, item := range items {
		opCtx := bctx
		opCtx.TotalSystemDebt = running
		res, err := Burn(item.CDP, item.Params, opCtx)
		if err != nil {
			return nil, errors.Wrapf(err, "batch operation %d", i)
		}
		results[i] = res
		running = res.NewSystemDebt
	}
	return results, nil
}

func checkBatchSize(n int) error {
	if n == 0 {
		return ErrEmptyBatch
	}
	if n > MaxBatchSize {
		return ErrBatchTooLarge
	}
	return nil
}
