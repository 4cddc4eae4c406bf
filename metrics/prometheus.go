package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CDP Engine Metrics Collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all CDP engine metrics
type Collector struct {
	// Debt operation metrics
	MintsTotal  *prometheus.CounterVec
	MintedValue *prometheus.CounterVec
	BurnsTotal  *prometheus.CounterVec
	BurnedValue *prometheus.CounterVec

	// Fee metrics
	FeesAccrued     *prometheus.CounterVec
	FeesPaid        *prometheus.CounterVec
	PrincipalRepaid *prometheus.CounterVec

	// Position metrics
	PositionsOpen    *prometheus.GaugeVec
	PositionClosures *prometheus.CounterVec
	HealthFactor     *prometheus.HistogramVec

	// System metrics
	SystemDebt        prometheus.Gauge
	GlobalDebtCeiling prometheus.Gauge
	EmergencyShutdown prometheus.Gauge

	// Batch metrics
	BatchesTotal *prometheus.CounterVec
	BatchSize    *prometheus.HistogramVec

	// Oracle metrics
	OraclePrice    *prometheus.GaugeVec
	OraclePriceAge *prometheus.GaugeVec

	// Liquidation risk metrics
	LiquidatablePositions prometheus.Gauge
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Debt operation metrics
	c.MintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "mints",
			Name:      "total",
			Help:      "Total number of mint operations",
		},
		[]string{"collateral_class", "result"},
	)

	c.MintedValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "mints",
			Name:      "value",
			Help:      "Total stablecoin value minted",
		},
		[]string{"collateral_class"},
	)

	c.BurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "burns",
			Name:      "total",
			Help:      "Total number of burn operations",
		},
		[]string{"collateral_class", "result"},
	)

	c.BurnedValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "burns",
			Name:      "value",
			Help:      "Total stablecoin value burned",
		},
		[]string{"collateral_class"},
	)

	// Fee metrics
	c.FeesAccrued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "fees",
			Name:      "accrued",
			Help:      "Total stability fees accrued",
		},
		[]string{"collateral_class"},
	)

	c.FeesPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "fees",
			Name:      "paid",
			Help:      "Total stability fees repaid",
		},
		[]string{"collateral_class"},
	)

	c.PrincipalRepaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "burns",
			Name:      "principal_repaid",
			Help:      "Total principal debt repaid",
		},
		[]string{"collateral_class"},
	)

	// Position metrics
	c.PositionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "positions",
			Name:      "open",
			Help:      "Number of open positions",
		},
		[]string{"collateral_class"},
	)

	c.PositionClosures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "positions",
			Name:      "closures_total",
			Help:      "Total positions closed by full repayment",
		},
		[]string{"collateral_class"},
	)

	c.HealthFactor = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cdp",
			Subsystem: "positions",
			Name:      "health_factor",
			Help:      "Post-operation health factor distribution",
			Buckets:   []float64{0.5, 0.8, 0.9, 1.0, 1.1, 1.25, 1.5, 2, 3, 5, 10},
		},
		[]string{"collateral_class"},
	)

	// System metrics
	c.SystemDebt = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "system",
			Name:      "total_debt",
			Help:      "Total outstanding stablecoin debt across all positions",
		},
	)

	c.GlobalDebtCeiling = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "system",
			Name:      "debt_ceiling",
			Help:      "Global debt ceiling",
		},
	)

	c.EmergencyShutdown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "system",
			Name:      "emergency_shutdown",
			Help:      "1 when the emergency shutdown flag is set",
		},
	)

	// Batch metrics
	c.BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdp",
			Subsystem: "batches",
			Name:      "total",
			Help:      "Total committed batch operations",
		},
		[]string{"kind"},
	)

	c.BatchSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cdp",
			Subsystem: "batches",
			Name:      "size",
			Help:      "Operations per committed batch",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)

	// Oracle metrics
	c.OraclePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "oracle",
			Name:      "price",
			Help:      "Current collateral price",
		},
		[]string{"collateral_class"},
	)

	c.OraclePriceAge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "oracle",
			Name:      "price_age_seconds",
			Help:      "Age of the latest collateral price",
		},
		[]string{"collateral_class"},
	)

	// Liquidation risk metrics
	c.LiquidatablePositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cdp",
			Subsystem: "risk",
			Name:      "liquidatable_positions",
			Help:      "Positions with health factor below 1.0",
		},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	prometheus.MustRegister(c.MintsTotal)
	prometheus.MustRegister(c.MintedValue)
	prometheus.MustRegister(c.BurnsTotal)
	prometheus.MustRegister(c.BurnedValue)

	prometheus.MustRegister(c.FeesAccrued)
	prometheus.MustRegister(c.FeesPaid)
	prometheus.MustRegister(c.PrincipalRepaid)

	prometheus.MustRegister(c.PositionsOpen)
	prometheus.MustRegister(c.PositionClosures)
	prometheus.MustRegister(c.HealthFactor)

	prometheus.MustRegister(c.SystemDebt)
	prometheus.MustRegister(c.GlobalDebtCeiling)
	prometheus.MustRegister(c.EmergencyShutdown)

	prometheus.MustRegister(c.BatchesTotal)
	prometheus.MustRegister(c.BatchSize)

	prometheus.MustRegister(c.OraclePrice)
	prometheus.MustRegister(c.OraclePriceAge)

	prometheus.MustRegister(c.LiquidatablePositions)
}

// ============ Recording Helpers ============

// RecordMint records a mint operation outcome
func (c *Collector) RecordMint(collateralClass, result string, amount, fees float64) {
	c.MintsTotal.WithLabelValues(collateralClass, result).Inc()
	if result == "ok" {
		c.MintedValue.WithLabelValues(collateralClass).Add(amount)
		c.FeesAccrued.WithLabelValues(collateralClass).Add(fees)
	}
}

// RecordBurn records a burn operation outcome
func (c *Collector) RecordBurn(collateralClass, result string, amount, feesPaid, principal float64) {
	c.BurnsTotal.WithLabelValues(collateralClass, result).Inc()
	if result == "ok" {
		c.BurnedValue.WithLabelValues(collateralClass).Add(amount)
		c.FeesPaid.WithLabelValues(collateralClass).Add(feesPaid)
		c.PrincipalRepaid.WithLabelValues(collateralClass).Add(principal)
	}
}

// ObserveHealthFactor records a post-operation health factor
func (c *Collector) ObserveHealthFactor(collateralClass string, healthFactor float64) {
	c.HealthFactor.WithLabelValues(collateralClass).Observe(healthFactor)
}

// RecordClosure records a position closed by full repayment
func (c *Collector) RecordClosure(collateralClass string) {
	c.PositionClosures.WithLabelValues(collateralClass).Inc()
	c.PositionsOpen.WithLabelValues(collateralClass).Dec()
}

// RecordOpen records a newly opened position
func (c *Collector) RecordOpen(collateralClass string) {
	c.PositionsOpen.WithLabelValues(collateralClass).Inc()
}

// RecordBatch records a committed batch
func (c *Collector) RecordBatch(kind string, size int) {
	c.BatchesTotal.WithLabelValues(kind).Inc()
	c.BatchSize.WithLabelValues(kind).Observe(float64(size))
}

// SetSystemDebt updates the total system debt gauge
func (c *Collector) SetSystemDebt(debt float64) {
	c.SystemDebt.Set(debt)
}

// SetGlobalDebtCeiling updates the global debt ceiling gauge
func (c *Collector) SetGlobalDebtCeiling(ceiling float64) {
	c.GlobalDebtCeiling.Set(ceiling)
}

// SetEmergencyShutdown updates the shutdown flag gauge
func (c *Collector) SetEmergencyShutdown(active bool) {
	if active {
		c.EmergencyShutdown.Set(1)
	} else {
		c.EmergencyShutdown.Set(0)
	}
}

// SetOraclePrice updates the collateral price gauge
func (c *Collector) SetOraclePrice(collateralClass string, price, ageSeconds float64) {
	c.OraclePrice.WithLabelValues(collateralClass).Set(price)
	c.OraclePriceAge.WithLabelValues(collateralClass).Set(ageSeconds)
}

// SetLiquidatablePositions updates the at-risk position count
func (c *Collector) SetLiquidatablePositions(n int) {
	c.LiquidatablePositions.Set(float64(n))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
