package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionValue is the per-symbol slice of a valuation snapshot.
type PositionValue struct {
	Symbol               string          `json:"symbol"`
	Quantity             int64           `json:"quantity"`
	AverageCost          decimal.Decimal `json:"average_cost"`
	CurrentPrice         decimal.Decimal `json:"current_price"`
	MarketValue          decimal.Decimal `json:"market_value"`
	CostBasis            decimal.Decimal `json:"cost_basis"`
	UnrealizedPnL        decimal.Decimal `json:"unrealized_pnl"`
	UnrealizedPnLPercent decimal.Decimal `json:"unrealized_pnl_percent"`
	DayChange            decimal.Decimal `json:"day_change"`
	PriceAsOf            time.Time       `json:"price_as_of"`
	Stale                bool            `json:"stale"`
}

// Snapshot is a point-in-time valuation of one ledger. It is derived state:
// nothing persists it, callers may cache it.
type Snapshot struct {
	LedgerID             string          `json:"ledger_id"`
	CashBalance          decimal.Decimal `json:"cash_balance"`
	MarketValue          decimal.Decimal `json:"market_value"`
	TotalValue           decimal.Decimal `json:"total_value"`
	UnrealizedPnL        decimal.Decimal `json:"unrealized_pnl"`
	UnrealizedPnLPercent decimal.Decimal `json:"unrealized_pnl_percent"`
	DayChange            decimal.Decimal `json:"day_change"`
	DayChangePercent     decimal.Decimal `json:"day_change_percent"`
	Positions            []PositionValue `json:"positions"`
	GeneratedAt          time.Time       `json:"generated_at"`
}
