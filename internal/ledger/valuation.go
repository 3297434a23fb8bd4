package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/position"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/telemetry"
)

var oneHundred = decimal.NewFromInt(100)

// Valuate produces a point-in-time snapshot of a ledger against the price
// cache. It never takes the ledger lock and never mutates state, so it is
// safe to call concurrently with trading.
//
// A stale cached price is used as-is and flagged per position; the only
// hard failure is a held symbol that has never been priced. previousTotal,
// when the caller has a prior day's total value, drives the day change
// figures; without it they are reported as zero.
func (s *Service) Valuate(ctx context.Context, userID, contextID string, previousTotal *decimal.Decimal) (model.Snapshot, error) {
	l, err := s.GetLedger(ctx, userID, contextID)
	if err != nil {
		return model.Snapshot{}, err
	}

	now := time.Now().UTC()
	snap := model.Snapshot{
		LedgerID:    l.ID,
		CashBalance: l.CashBalance,
		GeneratedAt: now,
	}

	symbols := make([]string, 0, len(l.Positions))
	for sym := range l.Positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var marketValue, unrealized, costBasisTotal decimal.Decimal
	for _, sym := range symbols {
		pos := l.Positions[sym]
		quote, ok := s.cache.GetPrice(sym)
		if !ok {
			return model.Snapshot{}, fmt.Errorf("%w: %s", ErrPriceUnavailable, sym)
		}
		qty := decimal.NewFromInt(pos.Quantity)
		value := quote.Price.Mul(qty)
		basis := pos.AverageCost.Mul(qty)
		pnl := value.Sub(basis)

		pv := model.PositionValue{
			Symbol:        sym,
			Quantity:      pos.Quantity,
			AverageCost:   pos.AverageCost,
			CurrentPrice:  quote.Price,
			MarketValue:   value,
			CostBasis:     basis,
			UnrealizedPnL: pnl,
			PriceAsOf:     quote.AsOf,
			Stale:         now.Sub(quote.AsOf) > s.staleAfter,
		}
		if basis.IsPositive() {
			pv.UnrealizedPnLPercent = pnl.Div(basis).Mul(oneHundred).RoundBank(position.CashPrecision)
		}
		if quote.PreviousClose.IsPositive() {
			pv.DayChange = quote.Price.Sub(quote.PreviousClose).Mul(qty)
		}
		snap.Positions = append(snap.Positions, pv)

		marketValue = marketValue.Add(value)
		unrealized = unrealized.Add(pnl)
		costBasisTotal = costBasisTotal.Add(basis)
	}

	snap.MarketValue = marketValue
	snap.TotalValue = l.CashBalance.Add(marketValue)
	snap.UnrealizedPnL = unrealized
	if costBasisTotal.IsPositive() {
		snap.UnrealizedPnLPercent = unrealized.Div(costBasisTotal).Mul(oneHundred).RoundBank(position.CashPrecision)
	}
	if previousTotal != nil && previousTotal.IsPositive() {
		snap.DayChange = snap.TotalValue.Sub(*previousTotal)
		snap.DayChangePercent = snap.DayChange.Div(*previousTotal).Mul(oneHundred).RoundBank(position.CashPrecision)
	}
	telemetry.ValuationsServed.Inc()
	return snap, nil
}
