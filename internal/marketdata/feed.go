package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one price observation for a symbol. PreviousClose may be zero
// when the upstream feed does not report it.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	AsOf          time.Time       `json:"as_of"`
}

// PriceFeed is the upstream market data source. Implementations may be
// rate limited or temporarily down; the cache absorbs both.
type PriceFeed interface {
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}
