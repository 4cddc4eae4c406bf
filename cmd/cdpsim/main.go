package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"cosmossdk.io/math"
	"github.com/openalpha/cdp-engine/metrics"
	"github.com/openalpha/cdp-engine/x/cdp/types"
)

// Config holds the simulator configuration
type Config struct {
	CollateralClass   string `json:"collateral_class"`
	Collateral        string `json:"collateral"`
	CollateralPrice   string `json:"collateral_price"`
	GlobalDebtCeiling string `json:"global_debt_ceiling"`
	ScenarioPath      string `json:"scenario_path"`
	MetricsAddr       string `json:"metrics_addr"` // empty disables the endpoint
	Demo              bool   `json:"demo"`         // run demo scenario
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CollateralClass:   "ETH",
		Collateral:        "10",
		CollateralPrice:   "2000",
		GlobalDebtCeiling: "10000000",
		MetricsAddr:       "",
		Demo:              false,
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Step is one scenario action replayed against the position
type Step struct {
	Op             string `json:"op"` // "mint", "burn" or "price"
	Amount         string `json:"amount,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds,omitempty"`
	Price          string `json:"price,omitempty"`
}

// LoadScenario loads a scenario file (a JSON array of steps)
func LoadScenario(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	return steps, nil
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	collateralClass := flag.String("class", "", "Collateral class (ETH, WBTC, ATOM)")
	collateral := flag.String("collateral", "", "Collateral locked in the position")
	price := flag.String("price", "", "Initial collateral price")
	scenarioPath := flag.String("scenario", "", "Path to scenario file")
	metricsAddr := flag.String("metrics", "", "Address for the Prometheus endpoint (empty disables)")
	demo := flag.Bool("demo", false, "Run the built-in demo scenario")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with command line flags
	if *collateralClass != "" {
		config.CollateralClass = *collateralClass
	}
	if *collateral != "" {
		config.Collateral = *collateral
	}
	if *price != "" {
		config.CollateralPrice = *price
	}
	if *scenarioPath != "" {
		config.ScenarioPath = *scenarioPath
	}
	if *metricsAddr != "" {
		config.MetricsAddr = *metricsAddr
	}
	if *demo {
		config.Demo = true
	}

	log.Println("=== CDP Engine Simulator ===")
	log.Printf("Collateral Class: %s", config.CollateralClass)
	log.Printf("Collateral: %s", config.Collateral)
	log.Printf("Price: %s", config.CollateralPrice)
	log.Printf("Global Debt Ceiling: %s", config.GlobalDebtCeiling)
	log.Println("============================")

	if config.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", metrics.Handler())
			log.Printf("Metrics listening on %s", config.MetricsAddr)
			if err := http.ListenAndServe(config.MetricsAddr, nil); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	sim, err := newSimulator(config)
	if err != nil {
		log.Fatalf("Failed to build simulator: %v", err)
	}

	var steps []Step
	switch {
	case config.Demo:
		steps = demoScenario()
	case config.ScenarioPath != "":
		steps, err = LoadScenario(config.ScenarioPath)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
	default:
		log.Fatal("Nothing to do: pass -scenario <file> or -demo")
	}

	if err := sim.run(steps); err != nil {
		log.Fatalf("Scenario aborted: %v", err)
	}
	sim.printSummary()
}

// simulator replays scenario steps against a single position using the pure
// engine, with the simulator itself standing in for the store and oracle.
type simulator struct {
	cdp        types.CDP
	price      math.LegacyDec
	ceiling    math.LegacyDec
	systemDebt math.LegacyDec
	now        int64
}

func newSimulator(config *Config) (*simulator, error) {
	var cfg *types.CollateralConfig
	for _, c := range types.DefaultCollateralConfigs() {
		if c.CollateralClass == config.CollateralClass {
			cc := c
			cfg = &cc
			break
		}
	}
	if cfg == nil {
		return nil, fmt.Errorf("unknown collateral class %q", config.CollateralClass)
	}

	collateral, err := math.LegacyNewDecFromStr(config.Collateral)
	if err != nil {
		return nil, fmt.Errorf("invalid collateral: %w", err)
	}
	price, err := math.LegacyNewDecFromStr(config.CollateralPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	ceiling, err := math.LegacyNewDecFromStr(config.GlobalDebtCeiling)
	if err != nil {
		return nil, fmt.Errorf("invalid global debt ceiling: %w", err)
	}

	now := int64(1_700_000_000)
	return &simulator{
		cdp:        types.NewCDP("simulator", cfg.CollateralClass, collateral, *cfg, now),
		price:      price,
		ceiling:    ceiling,
		systemDebt: math.LegacyZeroDec(),
		now:        now,
	}, nil
}

func (s *simulator) run(steps []Step) error {
	for i, step := range steps {
		s.now += step.ElapsedSeconds
		switch step.Op {
		case "price":
			price, err := math.LegacyNewDecFromStr(step.Price)
			if err != nil {
				return fmt.Errorf("step %d: invalid price: %w", i, err)
			}
			s.price = price
			log.Printf("[%d] price -> %s", i, s.price.String())
		case "mint":
			if err := s.mint(i, step); err != nil {
				return err
			}
		case "burn":
			if err := s.burn(i, step); err != nil {
				return err
			}
		default:
			return fmt.Errorf("step %d: unknown op %q", i, step.Op)
		}
	}
	return nil
}

func (s *simulator) mint(i int, step Step) error {
	amount, err := math.LegacyNewDecFromStr(step.Amount)
	if err != nil {
		return fmt.Errorf("step %d: invalid amount: %w", i, err)
	}
	mctx := types.MintContext{
		CollateralPrice:        s.price,
		GlobalDebtCeiling:      s.ceiling,
		TotalSystemDebt:        s.systemDebt,
		StabilityFeeAnnualRate: s.cdp.Config.StabilityFeeRate,
		ElapsedSeconds:         s.now - s.cdp.UpdatedAt,
		CurrentTime:            s.now,
		MaxMintAmount:          s.cdp.Config.MaxMintPerOperation,
	}
	res, err := types.Mint(s.cdp, types.MintParams{
		Initiator: s.cdp.Owner,
		Amount:    amount,
		Timestamp: s.now,
	}, mctx)
	if err != nil {
		return fmt.Errorf("step %d: mint %s rejected: %w", i, step.Amount, err)
	}
	s.cdp = res.CDP
	s.systemDebt = res.NewSystemDebt
	log.Printf("[%d] mint %s: fees=%s debt=%s hf=%s",
		i, res.Minted.String(), res.FeesAccrued.String(),
		res.NewDebt.String(), res.NewHealthFactor.String())
	return nil
}

func (s *simulator) burn(i int, step Step) error {
	var amount math.LegacyDec
	var err error
	if step.Amount == "all" {
		amount, err = s.fullRepayment()
	} else {
		amount, err = math.LegacyNewDecFromStr(step.Amount)
	}
	if err != nil {
		return fmt.Errorf("step %d: invalid amount: %w", i, err)
	}
	bctx := types.BurnContext{
		CollateralPrice:        s.price,
		TotalSystemDebt:        s.systemDebt,
		StabilityFeeAnnualRate: s.cdp.Config.StabilityFeeRate,
		ElapsedSeconds:         s.now - s.cdp.UpdatedAt,
		CurrentTime:            s.now,
		MaxBurnAmount:          s.cdp.Config.MaxBurnPerOperation,
		AutoCloseCDP:           true,
	}
	res, err := types.Burn(s.cdp, types.BurnParams{
		Initiator: s.cdp.Owner,
		Amount:    amount,
		Timestamp: s.now,
	}, bctx)
	if err != nil {
		return fmt.Errorf("step %d: burn %s rejected: %w", i, step.Amount, err)
	}
	s.cdp = res.CDP
	s.systemDebt = res.NewSystemDebt
	log.Printf("[%d] burn %s: fees_paid=%s principal=%s remaining=%s hf=%s closed=%v",
		i, res.Burned.String(), res.FeesPaid.String(), res.PrincipalRepaid.String(),
		res.RemainingDebt.String(), res.NewHealthFactor.String(), res.CDPClosed)
	return nil
}

// fullRepayment returns the amount that retires the position: debt plus fees
// already carried plus the fee that accrues for the elapsed time of this step.
func (s *simulator) fullRepayment() (math.LegacyDec, error) {
	owed, err := s.cdp.TotalOwed()
	if err != nil {
		return math.LegacyDec{}, err
	}
	fee, err := types.AccrueStabilityFee(s.cdp.Debt, s.cdp.Config.StabilityFeeRate, s.now-s.cdp.UpdatedAt)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return types.SafeAdd(owed, fee)
}

func (s *simulator) printSummary() {
	log.Println("=== Final Position ===")
	log.Printf("State: %s", s.cdp.State.String())
	log.Printf("Debt: %s", s.cdp.Debt.String())
	log.Printf("Accrued Fees: %s", s.cdp.AccruedFees.String())
	log.Printf("Health Factor: %s", s.cdp.HealthFactor.String())
	log.Printf("System Debt: %s", s.systemDebt.String())
}

// demoScenario exercises a full position lifecycle: open with a mint, accrue
// a month of fees, survive a price drop, then repay to closure.
func demoScenario() []Step {
	return []Step{
		{Op: "mint", Amount: "5000"},
		{Op: "mint", Amount: "2000", ElapsedSeconds: 30 * 86400},
		{Op: "price", Price: "1500", ElapsedSeconds: 86400},
		{Op: "burn", Amount: "3000", ElapsedSeconds: 86400},
		{Op: "price", Price: "2100"},
		{Op: "mint", Amount: "1000", ElapsedSeconds: 7 * 86400},
		{Op: "burn", Amount: "all", ElapsedSeconds: 86400},
	}
}
