package keeper

import (
	"context"
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/openalpha/cdp-engine/metrics"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

var _ types.MsgServer = (*msgServer)(nil)

type msgServer struct {
	Keeper *Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// MintDebt handles the MsgMintDebt message
func (m *msgServer) MintDebt(ctx context.Context, msg *types.MsgMintDebt) (*types.MsgMintDebtResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, err := math.LegacyNewDecFromStr(msg.Amount)
	if err != nil {
		return nil, types.ErrInvalidAmount
	}

	cdp := m.Keeper.GetCDP(sdkCtx, msg.Owner, msg.CollateralClass)
	if cdp == nil {
		return nil, types.ErrCDPNotFound
	}
	mctx, err := m.Keeper.buildMintContext(sdkCtx, cdp)
	if err != nil {
		return nil, err
	}
	params := types.MintParams{
		Initiator: msg.Owner,
		Amount:    amount,
		Timestamp: mctx.CurrentTime,
	}

	res, err := types.Mint(*cdp, params, mctx)
	if err != nil {
		metrics.GetCollector().RecordMint(msg.CollateralClass, "rejected", 0, 0)
		return nil, err
	}

	m.Keeper.SetCDP(sdkCtx, &res.CDP)
	m.Keeper.SetTotalSystemDebt(sdkCtx, res.NewSystemDebt)
	m.Keeper.saveReceipt(sdkCtx, receipt{
		Kind:            "mint",
		Owner:           msg.Owner,
		CollateralClass: msg.CollateralClass,
		Amount:          res.Minted.String(),
		Fees:            res.FeesAccrued.String(),
		Timestamp:       sdkCtx.BlockTime(),
	})

	metrics.GetCollector().RecordMint(msg.CollateralClass, "ok",
		res.Minted.MustFloat64(), res.FeesAccrued.MustFloat64())
	metrics.GetCollector().ObserveHealthFactor(msg.CollateralClass, res.NewHealthFactor.MustFloat64())
	metrics.GetCollector().SetSystemDebt(res.NewSystemDebt.MustFloat64())

	m.Keeper.Logger().Info("minted debt",
		"owner", msg.Owner,
		"collateral_class", msg.CollateralClass,
		"minted", res.Minted.String(),
		"fees_accrued", res.FeesAccrued.String(),
		"health_factor", res.NewHealthFactor.String(),
	)

	return &types.MsgMintDebtResponse{
		Minted:          res.Minted.String(),
		FeesAccrued:     res.FeesAccrued.String(),
		NewDebt:         res.NewDebt.String(),
		NewHealthFactor: res.NewHealthFactor.String(),
	}, nil
}

// BurnDebt handles the MsgBurnDebt message
func (m *msgServer) BurnDebt(ctx context.Context, msg *types.MsgBurnDebt) (*types.MsgBurnDebtResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, err := math.LegacyNewDecFromStr(msg.Amount)
	if err != nil {
		return nil, types.ErrInvalidAmount
	}

	cdp := m.Keeper.GetCDP(sdkCtx, msg.Owner, msg.CollateralClass)
	if cdp == nil {
		return nil, types.ErrCDPNotFound
	}
	bctx, err := m.Keeper.buildBurnContext(sdkCtx, cdp)
	if err != nil {
		return nil, err
	}
	params := types.BurnParams{
		Initiator: msg.Owner,
		Amount:    amount,
		Timestamp: bctx.CurrentTime,
	}

	res, err := types.Burn(*cdp, params, bctx)
	if err != nil {
		metrics.GetCollector().RecordBurn(msg.CollateralClass, "rejected", 0, 0, 0)
		return nil, err
	}

	m.Keeper.SetCDP(sdkCtx, &res.CDP)
	m.Keeper.SetTotalSystemDebt(sdkCtx, res.NewSystemDebt)
	m.Keeper.saveReceipt(sdkCtx, receipt{
		Kind:            "burn",
		Owner:           msg.Owner,
		CollateralClass: msg.CollateralClass,
		Amount:          res.Burned.String(),
		Fees:            res.FeesPaid.String(),
		Timestamp:       sdkCtx.BlockTime(),
	})

	metrics.GetCollector().RecordBurn(msg.CollateralClass, "ok",
		res.Burned.MustFloat64(), res.FeesPaid.MustFloat64(), res.PrincipalRepaid.MustFloat64())
	metrics.GetCollector().ObserveHealthFactor(msg.CollateralClass, res.NewHealthFactor.MustFloat64())
	metrics.GetCollector().SetSystemDebt(res.NewSystemDebt.MustFloat64())
	if res.CDPClosed {
		metrics.GetCollector().RecordClosure(msg.CollateralClass)
	}

	m.Keeper.Logger().Info("burned debt",
		"owner", msg.Owner,
		"collateral_class", msg.CollateralClass,
		"burned", res.Burned.String(),
		"fees_paid", res.FeesPaid.String(),
		"principal_repaid", res.PrincipalRepaid.String(),
		"closed", res.CDPClosed,
	)

	return &types.MsgBurnDebtResponse{
		Burned:          res.Burned.String(),
		FeesPaid:        res.FeesPaid.String(),
		PrincipalRepaid: res.PrincipalRepaid.String(),
		RemainingDebt:   res.RemainingDebt.String(),
		NewHealthFactor: res.NewHealthFactor.String(),
		Closed:          res.CDPClosed,
	}, nil
}

// ============ Context Construction ============

// buildMintContext assembles the pure engine's external snapshot from the
// store and oracle. Prices, totals and the shutdown flag are read at the same
// block, so the snapshot is internally consistent.
func (k *Keeper) buildMintContext(ctx sdk.Context, cdp *types.CDP) (types.MintContext, error) {
	price, err := k.CurrentPrice(ctx, cdp.CollateralClass, DefaultMaxPriceAge)
	if err != nil {
		return types.MintContext{}, err
	}
	now := ctx.BlockTime().Unix()
	return types.MintContext{
		CollateralPrice:        price,
		GlobalDebtCeiling:      k.GetGlobalDebtCeiling(ctx),
		TotalSystemDebt:        k.GetTotalSystemDebt(ctx),
		StabilityFeeAnnualRate: cdp.Config.StabilityFeeRate,
		ElapsedSeconds:         elapsedSince(cdp.UpdatedAt, now),
		EmergencyShutdown:      k.IsEmergencyShutdown(ctx),
		CurrentTime:            now,
		MaxMintAmount:          cdp.Config.MaxMintPerOperation,
	}, nil
}

// buildBurnContext is the burn-side analogue of buildMintContext.
func (k *Keeper) buildBurnContext(ctx sdk.Context, cdp *types.CDP) (types.BurnContext, error) {
	price, err := k.CurrentPrice(ctx, cdp.CollateralClass, DefaultMaxPriceAge)
	if err != nil {
		return types.BurnContext{}, err
	}
	now := ctx.BlockTime().Unix()
	return types.BurnContext{
		CollateralPrice:        price,
		TotalSystemDebt:        k.GetTotalSystemDebt(ctx),
		StabilityFeeAnnualRate: cdp.Config.StabilityFeeRate,
		ElapsedSeconds:         elapsedSince(cdp.UpdatedAt, now),
		EmergencyShutdown:      k.IsEmergencyShutdown(ctx),
		CurrentTime:            now,
		MaxBurnAmount:          cdp.Config.MaxBurnPerOperation,
		AutoCloseCDP:           true,
	}, nil
}

func elapsedSince(last, now int64) int64 {
	if now < last {
		return -1 // surfaces as ErrInvalidTimestamp in the engine
	}
	return now - last
}

// ============ Receipts ============

// receipt is an audit record for a committed operation
type receipt struct {
	ReceiptID       string    `json:"receipt_id"`
	Kind            string    `json:"kind"`
	Owner           string    `json:"owner"`
	CollateralClass string    `json:"collateral_class"`
	Amount          string    `json:"amount"`
	Fees            string    `json:"fees"`
	Timestamp       time.Time `json:"timestamp"`
}

func (k *Keeper) saveReceipt(ctx sdk.Context, r receipt) {
	r.ReceiptID = uuid.New().String()
	store := k.GetStore(ctx)
	key := append(ReceiptKeyPrefix, []byte(r.ReceiptID)...)
	bz, _ := json.Marshal(r)
	store.Set(key, bz)
}
