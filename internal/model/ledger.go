package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/types"
)

// LedgerKey identifies one ledger: a user's personal portfolio or a single
// competition entry of that user.
type LedgerKey struct {
	UserID    string
	ContextID string
}

func (k LedgerKey) String() string {
	return k.UserID + "/" + k.ContextID
}

type Position struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

type Ledger struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	ContextID       string              `json:"context_id"`
	CashBalance     decimal.Decimal     `json:"cash_balance"`
	StartingBalance decimal.Decimal     `json:"starting_balance"`
	Positions       map[string]Position `json:"positions"`
	CreatedAt       time.Time           `json:"created_at"`
}

func (l Ledger) Key() LedgerKey {
	return LedgerKey{UserID: l.UserID, ContextID: l.ContextID}
}

// Clone returns a deep copy so callers can mutate without aliasing the
// stored position map.
func (l Ledger) Clone() Ledger {
	out := l
	out.Positions = make(map[string]Position, len(l.Positions))
	for sym, pos := range l.Positions {
		out.Positions[sym] = pos
	}
	return out
}

type Trade struct {
	ID          string            `json:"id"`
	LedgerID    string            `json:"ledger_id"`
	Symbol      string            `json:"symbol"`
	Side        types.TradeSide   `json:"side"`
	Quantity    int64             `json:"quantity"`
	FillPrice   decimal.Decimal   `json:"fill_price"`
	Fee         decimal.Decimal   `json:"fee"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	RealizedPnL decimal.Decimal   `json:"realized_pnl"`
	Status      types.TradeStatus `json:"status"`
	Reason      string            `json:"reason,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
