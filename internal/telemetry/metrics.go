// Package telemetry exposes the engine's Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradepulse_trades_total",
		Help: "Trade execution attempts by side and status.",
	}, []string{"side", "status"})

	TradeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradepulse_trade_rejections_total",
		Help: "Rejected trades by reason.",
	}, []string{"reason"})

	PriceRefreshErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradepulse_price_refresh_errors_total",
		Help: "Per-symbol failures during price cache refresh cycles.",
	})

	PriceRefreshCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradepulse_price_refresh_cycles_total",
		Help: "Completed price cache refresh cycles.",
	})

	CachedSymbols = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradepulse_cached_symbols",
		Help: "Symbols currently held in the price cache.",
	})

	ValuationsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradepulse_valuations_total",
		Help: "Valuation snapshots served.",
	})
)
