package keeper

import (
	"sync"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/btree"
	"github.com/openalpha/cdp-engine/metrics"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

const riskTreeDegree = 32

// riskItem orders positions by health factor, least healthy first. The key
// breaks ties so distinct positions with equal health coexist in the tree.
type riskItem struct {
	healthFactor math.LegacyDec
	key          string
}

// Less implements btree.Item - ascending by health factor, then key
func (a *riskItem) Less(b btree.Item) bool {
	other := b.(*riskItem)
	if !a.healthFactor.Equal(other.healthFactor) {
		return a.healthFactor.LT(other.healthFactor)
	}
	return a.key < other.key
}

// RiskIndex is an in-memory index of open positions ordered by health factor.
// It exists for liquidation-risk detection only; liquidation execution is
// handled elsewhere. The index is advisory and rebuilt from the store on
// startup, so it never holds authoritative state.
type RiskIndex struct {
	mu    sync.RWMutex
	tree  *btree.BTree
	byKey map[string]*riskItem
}

// NewRiskIndex creates an empty risk index
func NewRiskIndex() *RiskIndex {
	return &RiskIndex{
		tree:  btree.New(riskTreeDegree),
		byKey: make(map[string]*riskItem),
	}
}

func riskKey(owner, collateralClass string) string {
	return owner + "/" + collateralClass
}

// Update inserts or refreshes a position's entry. Terminal states leave the
// index since they can no longer be liquidated.
func (r *RiskIndex) Update(owner, collateralClass string, healthFactor math.LegacyDec, state types.CDPState) {
	key := riskKey(owner, collateralClass)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byKey[key]; ok {
		r.tree.Delete(old)
		delete(r.byKey, key)
	}
	if state.IsTerminal() || healthFactor.IsNil() {
		return
	}
	item := &riskItem{healthFactor: healthFactor, key: key}
	r.tree.ReplaceOrInsert(item)
	r.byKey[key] = item
}

// Remove drops a position from the index
func (r *RiskIndex) Remove(owner, collateralClass string) {
	key := riskKey(owner, collateralClass)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byKey[key]; ok {
		r.tree.Delete(old)
		delete(r.byKey, key)
	}
}

// Liquidatable returns the keys of all indexed positions with health factor
// below 1.0, least healthy first.
func (r *RiskIndex) Liquidatable() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	one := math.LegacyOneDec()
	var keys []string
	r.tree.Ascend(func(i btree.Item) bool {
		item := i.(*riskItem)
		if !item.healthFactor.LT(one) {
			return false
		}
		keys = append(keys, item.key)
		return true
	})
	return keys
}

// Len returns the number of indexed positions
func (r *RiskIndex) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Len()
}

// RebuildRiskIndex repopulates the index from the store. Used on startup and
// after parameter changes that shift health factors wholesale.
func (k *Keeper) RebuildRiskIndex(ctx sdk.Context) {
	k.riskIndex = NewRiskIndex()
	for _, cdp := range k.GetAllCDPs(ctx) {
		k.riskIndex.Update(cdp.Owner, cdp.CollateralClass, cdp.HealthFactor, cdp.State)
	}
	k.logger.Info("rebuilt risk index", "positions", k.riskIndex.Len())
}

// ScanLiquidatable returns all stored positions currently eligible for
// liquidation, least healthy first. Detection only.
func (k *Keeper) ScanLiquidatable(ctx sdk.Context) []*types.CDP {
	var out []*types.CDP
	for _, key := range k.riskIndex.Liquidatable() {
		for i := 0; i < len(key); i++ {
			if key[i] == '/' {
				if cdp := k.GetCDP(ctx, key[:i], key[i+1:]); cdp != nil {
					out = append(out, cdp)
				}
				break
			}
		}
	}
	metrics.GetCollector().SetLiquidatablePositions(len(out))
	return out
}
