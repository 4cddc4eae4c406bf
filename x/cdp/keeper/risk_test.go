package keeper

import (
	"fmt"
	"sync"
	"testing"

	"cosmossdk.io/math"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

func hf(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

func TestRiskIndexOrdering(t *testing.T) {
	idx := NewRiskIndex()

	idx.Update("cosmos1aaa", "ETH", hf("1.50"), types.CDPStateActive)
	idx.Update("cosmos1bbb", "ETH", hf("0.85"), types.CDPStateLiquidatable)
	idx.Update("cosmos1ccc", "WBTC", hf("0.40"), types.CDPStateLiquidatable)
	idx.Update("cosmos1ddd", "ATOM", hf("0.99"), types.CDPStateLiquidatable)

	got := idx.Liquidatable()
	want := []string{"cosmos1ccc/WBTC", "cosmos1bbb/ETH", "cosmos1ddd/ATOM"}

	if len(got) != len(want) {
		t.Fatalf("Liquidatable() returned %d keys, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Liquidatable()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
}

func TestRiskIndexExcludesHealthy(t *testing.T) {
	idx := NewRiskIndex()

	idx.Update("cosmos1aaa", "ETH", hf("1.00"), types.CDPStateActive)
	idx.Update("cosmos1bbb", "ETH", hf("2.30"), types.CDPStateActive)

	if got := idx.Liquidatable(); len(got) != 0 {
		t.Errorf("Liquidatable() = %v, want empty for health factors at or above 1.0", got)
	}
}

func TestRiskIndexUpdateReplacesEntry(t *testing.T) {
	idx := NewRiskIndex()

	idx.Update("cosmos1aaa", "ETH", hf("1.50"), types.CDPStateActive)
	idx.Update("cosmos1aaa", "ETH", hf("0.70"), types.CDPStateLiquidatable)

	if idx.Len() != 1 {
		t.Fatalf("Len() = %d after re-update, want 1", idx.Len())
	}
	got := idx.Liquidatable()
	if len(got) != 1 || got[0] != "cosmos1aaa/ETH" {
		t.Errorf("Liquidatable() = %v, want [cosmos1aaa/ETH]", got)
	}
}

func TestRiskIndexTerminalStatesLeave(t *testing.T) {
	idx := NewRiskIndex()

	idx.Update("cosmos1aaa", "ETH", hf("0.50"), types.CDPStateLiquidatable)
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	idx.Update("cosmos1aaa", "ETH", hf("0.50"), types.CDPStateClosed)
	if idx.Len() != 0 {
		t.Errorf("Len() = %d after closing, want 0", idx.Len())
	}

	idx.Update("cosmos1bbb", "ETH", hf("0.50"), types.CDPStateFrozen)
	if idx.Len() != 0 {
		t.Errorf("Len() = %d after frozen update, want 0", idx.Len())
	}
}

func TestRiskIndexRemove(t *testing.T) {
	idx := NewRiskIndex()

	idx.Update("cosmos1aaa", "ETH", hf("0.50"), types.CDPStateLiquidatable)
	idx.Remove("cosmos1aaa", "ETH")

	if idx.Len() != 0 {
		t.Errorf("Len() = %d after Remove, want 0", idx.Len())
	}
	// removing an absent key is a no-op
	idx.Remove("cosmos1aaa", "ETH")
}

func TestRiskIndexEqualHealthFactors(t *testing.T) {
	idx := NewRiskIndex()

	idx.Update("cosmos1bbb", "ETH", hf("0.90"), types.CDPStateLiquidatable)
	idx.Update("cosmos1aaa", "ETH", hf("0.90"), types.CDPStateLiquidatable)

	got := idx.Liquidatable()
	if len(got) != 2 {
		t.Fatalf("Liquidatable() returned %d keys, want 2", len(got))
	}
	if got[0] != "cosmos1aaa/ETH" || got[1] != "cosmos1bbb/ETH" {
		t.Errorf("equal health factors should order by key, got %v", got)
	}
}

func TestRiskIndexConcurrentAccess(t *testing.T) {
	idx := NewRiskIndex()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			owner := fmt.Sprintf("cosmos1w%d", w)
			for i := 0; i < 100; i++ {
				idx.Update(owner, "ETH", hf("0.50"), types.CDPStateLiquidatable)
				idx.Liquidatable()
				idx.Remove(owner, "ETH")
			}
		}(w)
	}
	wg.Wait()

	if idx.Len() != 0 {
		t.Errorf("Len() = %d after concurrent churn, want 0", idx.Len())
	}
}
