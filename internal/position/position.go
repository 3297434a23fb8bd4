// Package position holds the pure cost-basis arithmetic for the trading
// engine. Nothing here touches storage or the price cache; the trade
// executor feeds it validated inputs and commits the results.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

// CashPrecision is the decimal precision of all money amounts. Rounding is
// half-even so repeated small trades do not drift in one direction.
const CashPrecision = 2

// DefaultFeeRate is the brokerage charge applied to both sides of a trade
// (0.05% of notional).
var DefaultFeeRate = decimal.NewFromFloat(0.0005)

// Fee computes the brokerage fee for a fill, rounded half-even to cash
// precision before it enters any balance math.
func Fee(price decimal.Decimal, qty int64, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty)).Mul(rate).RoundBank(CashPrecision)
}

// ApplyBuy folds a buy fill into an existing position and returns the
// updated position. A zero-quantity pos means no prior holding; the average
// cost is then the fill price. The fee never enters cost basis: it is a
// cash-flow deduction handled by the executor.
func ApplyBuy(pos model.Position, symbol string, qty int64, price decimal.Decimal) model.Position {
	if pos.Quantity <= 0 {
		return model.Position{
			Symbol:      symbol,
			Quantity:    qty,
			AverageCost: price.RoundBank(CashPrecision),
		}
	}
	oldQty := decimal.NewFromInt(pos.Quantity)
	addQty := decimal.NewFromInt(qty)
	newQty := pos.Quantity + qty
	totalCost := pos.AverageCost.Mul(oldQty).Add(price.Mul(addQty))
	return model.Position{
		Symbol:      pos.Symbol,
		Quantity:    newQty,
		AverageCost: totalCost.Div(decimal.NewFromInt(newQty)).RoundBank(CashPrecision),
	}
}

// ApplySell reduces a position by a sell fill and returns the updated
// position plus the realized profit or loss of the lot. Average cost is
// untouched by sells. The caller must have checked qty <= pos.Quantity;
// a fully closed position comes back with Quantity == 0 and the store
// removes the entry.
func ApplySell(pos model.Position, qty int64, price, fee decimal.Decimal) (model.Position, decimal.Decimal) {
	realized := price.Sub(pos.AverageCost).
		Mul(decimal.NewFromInt(qty)).
		Sub(fee).
		RoundBank(CashPrecision)
	pos.Quantity -= qty
	return pos, realized
}

// Notional is price*qty at cash precision. Prices are quoted at 2dp and
// quantities are whole shares, so this is exact in practice.
func Notional(price decimal.Decimal, qty int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty)).RoundBank(CashPrecision)
}
