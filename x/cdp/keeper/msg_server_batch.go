package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/cdp-engine/metrics"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

// MintDebtBatch handles a batch of mints with all-or-nothing semantics.
// The engine is pure, so the transactional contract reduces to compute-all-
// then-commit: every operation's result is derived in memory first, chaining
// updated position snapshots and the running system debt, and nothing is
// written unless every operation succeeds. The first failure aborts the batch
// with the store untouched.
func (m *msgServer) MintDebtBatch(ctx context.Context, msg *types.MsgMintDebtBatch) (*types.MsgMintDebtBatchResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	pending := make(map[string]*types.CDP) // chained snapshots, keyed owner/class
	systemDebt := m.Keeper.GetTotalSystemDebt(sdkCtx)
	results := make([]*types.MintResult, len(msg.Items))

	for i, item := range msg.Items {
		amount, err := math.LegacyNewDecFromStr(item.Amount)
		if err != nil {
			return nil, types.ErrInvalidAmount
		}
		cdp, err := m.Keeper.pendingCDP(sdkCtx, pending, msg.Owner, item.CollateralClass)
		if err != nil {
			return nil, err
		}
		mctx, err := m.Keeper.buildMintContext(sdkCtx, cdp)
		if err != nil {
			return nil, err
		}
		mctx.TotalSystemDebt = systemDebt

		res, err := types.Mint(*cdp, types.MintParams{
			Initiator: msg.Owner,
			Amount:    amount,
			Timestamp: mctx.CurrentTime,
		}, mctx)
		if err != nil {
			return nil, err
		}
		results[i] = res
		updated := res.CDP
		pending[item.CollateralClass] = &updated
		systemDebt = res.NewSystemDebt
	}

	// Commit phase: every operation succeeded.
	responses := make([]*types.MsgMintDebtResponse, len(results))
	for i, res := range results {
		m.Keeper.saveReceipt(sdkCtx, receipt{
			Kind:            "mint",
			Owner:           msg.Owner,
			CollateralClass: res.CDP.CollateralClass,
			Amount:          res.Minted.String(),
			Fees:            res.FeesAccrued.String(),
			Timestamp:       sdkCtx.BlockTime(),
		})
		responses[i] = &types.MsgMintDebtResponse{
			Minted:          res.Minted.String(),
			FeesAccrued:     res.FeesAccrued.String(),
			NewDebt:         res.NewDebt.String(),
			NewHealthFactor: res.NewHealthFactor.String(),
		}
	}
	for _, cdp := range pending {
		m.Keeper.SetCDP(sdkCtx, cdp)
	}
	m.Keeper.SetTotalSystemDebt(sdkCtx, systemDebt)

	metrics.GetCollector().RecordBatch("mint", len(results))
	metrics.GetCollector().SetSystemDebt(systemDebt.MustFloat64())
	m.Keeper.Logger().Info("minted debt batch",
		"owner", msg.Owner,
		"operations", len(results),
		"system_debt", systemDebt.String(),
	)

	return &types.MsgMintDebtBatchResponse{Results: responses}, nil
}

// BurnDebtBatch handles a batch of burns with the same compute-all-then-commit
// contract as MintDebtBatch.
func (m *msgServer) BurnDebtBatch(ctx context.Context, msg *types.MsgBurnDebtBatch) (*types.MsgBurnDebtBatchResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	pending := make(map[string]*types.CDP)
	systemDebt := m.Keeper.GetTotalSystemDebt(sdkCtx)
	results := make([]*types.BurnResult, len(msg.Items))

	for i, item := range msg.Items {
		amount, err := math.LegacyNewDecFromStr(item.Amount)
		if err != nil {
			return nil, types.ErrInvalidAmount
		}
		cdp, err := m.Keeper.pendingCDP(sdkCtx, pending, msg.Owner, item.CollateralClass)
		if err != nil {
			return nil, err
		}
		bctx, err := m.Keeper.buildBurnContext(sdkCtx, cdp)
		if err != nil {
			return nil, err
		}
		bctx.TotalSystemDebt = systemDebt

		res, err := types.Burn(*cdp, types.BurnParams{
			Initiator: msg.Owner,
			Amount:    amount,
			Timestamp: bctx.CurrentTime,
		}, bctx)
		if err != nil {
			return nil, err
		}
		results[i] = res
		updated := res.CDP
		pending[item.CollateralClass] = &updated
		systemDebt = res.NewSystemDebt
	}

	responses := make([]*types.MsgBurnDebtResponse, len(results))
	for i, res := range results {
		if res.CDPClosed {
			metrics.GetCollector().RecordClosure(res.CDP.CollateralClass)
		}
		m.Keeper.saveReceipt(sdkCtx, receipt{
			Kind:            "burn",
			Owner:           msg.Owner,
			CollateralClass: res.CDP.CollateralClass,
			Amount:          res.Burned.String(),
			Fees:            res.FeesPaid.String(),
			Timestamp:       sdkCtx.BlockTime(),
		})
		responses[i] = &types.MsgBurnDebtResponse{
			Burned:          res.Burned.String(),
			FeesPaid:        res.FeesPaid.String(),
			PrincipalRepaid: res.PrincipalRepaid.String(),
			RemainingDebt:   res.RemainingDebt.String(),
			NewHealthFactor: res.NewHealthFactor.String(),
			Closed:          res.CDPClosed,
		}
	}
	for _, cdp := range pending {
		m.Keeper.SetCDP(sdkCtx, cdp)
	}
	m.Keeper.SetTotalSystemDebt(sdkCtx, systemDebt)

	metrics.GetCollector().RecordBatch("burn", len(results))
	metrics.GetCollector().SetSystemDebt(systemDebt.MustFloat64())
	m.Keeper.Logger().Info("burned debt batch",
		"owner", msg.Owner,
		"operations", len(results),
		"system_debt", systemDebt.String(),
	)

	return &types.MsgBurnDebtBatchResponse{Results: responses}, nil
}

// pendingCDP returns the chained in-batch snapshot for a position, falling
// back to the store for the first touch.
func (k *Keeper) pendingCDP(ctx sdk.Context, pending map[string]*types.CDP, owner, collateralClass string) (*types.CDP, error) {
	if cdp, ok := pending[collateralClass]; ok {
		return cdp, nil
	}
	cdp := k.GetCDP(ctx, owner, collateralClass)
	if cdp == nil {
		return nil, types.ErrCDPNotFound
	}
	return cdp, nil
}
