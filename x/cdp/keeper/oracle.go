package keeper

import (
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/cdp-engine/metrics"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

// DefaultMaxPriceAge is how old a posted price may be before mint/burn
// context construction rejects it as stale.
const DefaultMaxPriceAge = 5 * time.Minute

// CollateralPrice is a posted oracle price for one collateral class
type CollateralPrice struct {
	CollateralClass string
	Price           math.LegacyDec // stablecoin units per collateral unit
	UpdatedAt       time.Time
}

// SetCollateralPrice stores a posted oracle price
func (k *Keeper) SetCollateralPrice(ctx sdk.Context, price CollateralPrice) error {
	if !types.ValidAmount(price.Price) || price.Price.IsZero() {
		return types.ErrInvalidAmount
	}
	store := k.GetStore(ctx)
	key := append(PriceKeyPrefix, []byte(price.CollateralClass)...)
	bz, _ := json.Marshal(price)
	store.Set(key, bz)
	metrics.GetCollector().SetOraclePrice(price.CollateralClass,
		price.Price.MustFloat64(), ctx.BlockTime().Sub(price.UpdatedAt).Seconds())
	return nil
}

// GetCollateralPrice retrieves the posted price for a collateral class
func (k *Keeper) GetCollateralPrice(ctx sdk.Context, collateralClass string) *CollateralPrice {
	store := k.GetStore(ctx)
	key := append(PriceKeyPrefix, []byte(collateralClass)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var price CollateralPrice
	if err := json.Unmarshal(bz, &price); err != nil {
		return nil
	}
	return &price
}

// CurrentPrice returns a fresh price for context construction. A missing
// price is ErrPriceUnavailable; one older than maxAge is ErrStalePrice.
func (k *Keeper) CurrentPrice(ctx sdk.Context, collateralClass string, maxAge time.Duration) (math.LegacyDec, error) {
	price := k.GetCollateralPrice(ctx, collateralClass)
	if price == nil {
		return math.LegacyDec{}, types.ErrPriceUnavailable
	}
	if maxAge > 0 && ctx.BlockTime().Sub(price.UpdatedAt) > maxAge {
		return math.LegacyDec{}, types.ErrStalePrice
	}
	return price.Price, nil
}
