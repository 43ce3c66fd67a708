package application

import (
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

const metricsNamespace = "pmm"

// Metrics are the prometheus collectors updated by the pool service. Amounts
// are exported as float approximations of their decimal value.
type Metrics struct {
	Trades            *prometheus.CounterVec
	Volume            *prometheus.CounterVec
	Fees              *prometheus.CounterVec
	FlashLoans        *prometheus.CounterVec
	RejectedOps       *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg, if not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "trades_total",
			Help:      "Number of trades executed by pool and side.",
		}, []string{"pool", "side"}),
		Volume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "volume_total",
			Help:      "Amount of asset sold to pools.",
		}, []string{"pool", "asset"}),
		Fees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fees_total",
			Help:      "Fees collected by pool, asset and beneficiary.",
		}, []string{"pool", "asset", "kind"}),
		FlashLoans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "flash_loans_total",
			Help:      "Flash loans by pool and outcome.",
		}, []string{"pool", "outcome"}),
		RejectedOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_operations_total",
			Help:      "Operations rejected by the pools.",
		}, []string{"operation"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of pool operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Trades, m.Volume, m.Fees, m.FlashLoans, m.RejectedOps,
			m.OperationDuration,
		)
	}
	return m
}

func (m *Metrics) observeTrade(
	poolID, side, assetIn, assetOut string, amountIn, lpFee, mtFee *uint256.Int,
) {
	m.Trades.WithLabelValues(poolID, side).Inc()
	m.Volume.WithLabelValues(poolID, assetIn).Add(toFloat(amountIn))
	m.Fees.WithLabelValues(poolID, assetOut, "lp").Add(toFloat(lpFee))
	m.Fees.WithLabelValues(poolID, assetOut, "mt").Add(toFloat(mtFee))
}

func toFloat(amount *uint256.Int) float64 {
	if amount == nil {
		return 0
	}
	return mathutil.ToDecimal(amount).InexactFloat64()
}
