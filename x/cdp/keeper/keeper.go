package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/cdp-engine/metrics"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

// Store key prefixes
var (
	CDPKeyPrefix     = []byte{0x01}
	ConfigKeyPrefix  = []byte{0x02}
	PriceKeyPrefix   = []byte{0x03}
	ReceiptKeyPrefix = []byte{0x04}
	TotalDebtKey     = []byte{0x10}
	ShutdownKey      = []byte{0x11}
	GlobalCeilingKey = []byte{0x12}
)

// Keeper manages cdp module state. The debt engine itself lives in types and
// is pure; the keeper is the persistence-and-context collaborator around it.
type Keeper struct {
	cdc       codec.BinaryCodec
	storeKey  storetypes.StoreKey
	logger    log.Logger
	authority string // governance authority address

	riskIndex *RiskIndex
}

// NewKeeper creates a new cdp keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:       cdc,
		storeKey:  storeKey,
		authority: authority,
		logger:    logger.With("module", "x/cdp"),
		riskIndex: NewRiskIndex(),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// RiskIndex returns the in-memory liquidation-risk index
func (k *Keeper) RiskIndex() *RiskIndex {
	return k.riskIndex
}

// ============ CDP Operations ============

func cdpKey(owner, collateralClass string) []byte {
	key := append([]byte{}, CDPKeyPrefix...)
	key = append(key, []byte(owner)...)
	key = append(key, '/')
	return append(key, []byte(collateralClass)...)
}

// SetCDP saves a position to the store and refreshes the risk index
func (k *Keeper) SetCDP(ctx sdk.Context, cdp *types.CDP) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(cdp)
	store.Set(cdpKey(cdp.Owner, cdp.CollateralClass), bz)
	k.riskIndex.Update(cdp.Owner, cdp.CollateralClass, cdp.HealthFactor, cdp.State)
}

// GetCDP retrieves a position from the store
func (k *Keeper) GetCDP(ctx sdk.Context, owner, collateralClass string) *types.CDP {
	store := k.GetStore(ctx)
	bz := store.Get(cdpKey(owner, collateralClass))
	if bz == nil {
		return nil
	}
	var cdp types.CDP
	if err := json.Unmarshal(bz, &cdp); err != nil {
		return nil
	}
	return &cdp
}

// GetAllCDPs returns all positions
func (k *Keeper) GetAllCDPs(ctx sdk.Context) []*types.CDP {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, CDPKeyPrefix)
	defer iterator.Close()

	var cdps []*types.CDP
	for ; iterator.Valid(); iterator.Next() {
		var cdp types.CDP
		if err := json.Unmarshal(iterator.Value(), &cdp); err != nil {
			continue
		}
		cdps = append(cdps, &cdp)
	}
	return cdps
}

// OpenCDP creates a new position in Active state with zero debt. The opening
// collateral must satisfy the class's minimum collateral ratio trivially
// (zero debt), so only existence and configuration are checked here.
func (k *Keeper) OpenCDP(ctx sdk.Context, owner, collateralClass string, collateral math.LegacyDec) (*types.CDP, error) {
	if !types.ValidAmount(collateral) || collateral.IsZero() {
		return nil, types.ErrInvalidAmount
	}
	if existing := k.GetCDP(ctx, owner, collateralClass); existing != nil {
		return nil, types.ErrCDPExists
	}
	config, err := k.GetCollateralConfig(ctx, collateralClass)
	if err != nil {
		return nil, err
	}

	cdp := types.NewCDP(owner, collateralClass, collateral, config, ctx.BlockTime().Unix())
	k.SetCDP(ctx, &cdp)
	metrics.GetCollector().RecordOpen(collateralClass)
	k.logger.Info("opened position",
		"owner", owner,
		"collateral_class", collateralClass,
		"collateral", collateral.String(),
	)
	return &cdp, nil
}

// FreezeAllCDPs marks every open position Frozen. Called by the emergency
// shutdown trigger; only the authority may invoke it.
func (k *Keeper) FreezeAllCDPs(ctx sdk.Context, authority string) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}
	for _, cdp := range k.GetAllCDPs(ctx) {
		if cdp.State == types.CDPStateClosed {
			continue
		}
		cdp.State = types.CDPStateFrozen
		k.SetCDP(ctx, cdp)
	}
	k.SetEmergencyShutdown(ctx, true)
	k.logger.Info("emergency shutdown: all positions frozen")
	return nil
}

// ============ System Debt ============

// GetTotalSystemDebt returns the outstanding system-wide debt
func (k *Keeper) GetTotalSystemDebt(ctx sdk.Context) math.LegacyDec {
	store := k.GetStore(ctx)
	bz := store.Get(TotalDebtKey)
	if bz == nil {
		return math.LegacyZeroDec()
	}
	total, err := math.LegacyNewDecFromStr(string(bz))
	if err != nil {
		return math.LegacyZeroDec()
	}
	return total
}

// SetTotalSystemDebt stores the outstanding system-wide debt
func (k *Keeper) SetTotalSystemDebt(ctx sdk.Context, total math.LegacyDec) {
	store := k.GetStore(ctx)
	store.Set(TotalDebtKey, []byte(total.String()))
}

// GetGlobalDebtCeiling returns the system-wide debt cap; zero disables it
func (k *Keeper) GetGlobalDebtCeiling(ctx sdk.Context) math.LegacyDec {
	store := k.GetStore(ctx)
	bz := store.Get(GlobalCeilingKey)
	if bz == nil {
		return math.LegacyZeroDec()
	}
	ceiling, err := math.LegacyNewDecFromStr(string(bz))
	if err != nil {
		return math.LegacyZeroDec()
	}
	return ceiling
}

// SetGlobalDebtCeiling stores the system-wide debt cap. Authority-gated:
// ceiling changes are a governance action.
func (k *Keeper) SetGlobalDebtCeiling(ctx sdk.Context, authority string, ceiling math.LegacyDec) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}
	if !types.ValidAmount(ceiling) {
		return types.ErrInvalidAmount
	}
	store := k.GetStore(ctx)
	store.Set(GlobalCeilingKey, []byte(ceiling.String()))
	metrics.GetCollector().SetGlobalDebtCeiling(ceiling.MustFloat64())
	return nil
}

// ============ Emergency Shutdown ============

// IsEmergencyShutdown reports whether the system-wide halt is in effect
func (k *Keeper) IsEmergencyShutdown(ctx sdk.Context) bool {
	store := k.GetStore(ctx)
	bz := store.Get(ShutdownKey)
	return len(bz) == 1 && bz[0] == 1
}

// SetEmergencyShutdown stores the shutdown flag
func (k *Keeper) SetEmergencyShutdown(ctx sdk.Context, active bool) {
	store := k.GetStore(ctx)
	if active {
		store.Set(ShutdownKey, []byte{1})
	} else {
		store.Set(ShutdownKey, []byte{0})
	}
	metrics.GetCollector().SetEmergencyShutdown(active)
}

// ============ Collateral Configuration ============

// SetCollateralConfig saves a collateral class configuration
func (k *Keeper) SetCollateralConfig(ctx sdk.Context, config types.CollateralConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	store := k.GetStore(ctx)
	key := append(ConfigKeyPrefix, []byte(config.CollateralClass)...)
	bz, _ := json.Marshal(config)
	store.Set(key, bz)
	return nil
}

// GetCollateralConfig retrieves a collateral class configuration
func (k *Keeper) GetCollateralConfig(ctx sdk.Context, collateralClass string) (types.CollateralConfig, error) {
	store := k.GetStore(ctx)
	key := append(ConfigKeyPrefix, []byte(collateralClass)...)
	bz := store.Get(key)
	if bz == nil {
		return types.CollateralConfig{}, types.ErrCollateralConfigNotFound
	}
	var config types.CollateralConfig
	if err := json.Unmarshal(bz, &config); err != nil {
		return types.CollateralConfig{}, types.ErrCollateralConfigNotFound
	}
	return config, nil
}

// InitDefaultConfigs seeds the collateral class registry
func (k *Keeper) InitDefaultConfigs(ctx sdk.Context) {
	for _, config := range types.DefaultCollateralConfigs() {
		if err := k.SetCollateralConfig(ctx, config); err != nil {
			k.logger.Error("skipping invalid default config",
				"collateral_class", config.CollateralClass,
				"err", err,
			)
		}
	}
}
