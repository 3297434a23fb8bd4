package ledger

import (
	"context"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

// Store owns durable ledger and trade state. Implementations must make
// CommitTrade atomic: the mutated ledger and its completed trade land
// together or not at all. Serialization of concurrent trades on one ledger
// is the Service's job; stores only guarantee atomic visibility.
type Store interface {
	// CreateLedger persists a new ledger. ErrAlreadyExists when the
	// (user, context) key is already taken; the existing ledger is untouched.
	CreateLedger(ctx context.Context, l model.Ledger) error

	// GetLedger loads the committed state for a key. ErrLedgerNotFound when absent.
	GetLedger(ctx context.Context, key model.LedgerKey) (model.Ledger, error)

	// CommitTrade atomically replaces the ledger's cash and positions and
	// appends the completed trade record.
	CommitTrade(ctx context.Context, l model.Ledger, t model.Trade) error

	// AppendTrade records a trade without touching ledger state. Used for
	// the rejected side of the audit trail.
	AppendTrade(ctx context.Context, t model.Trade) error

	// ListTrades returns the newest trades for a ledger, newest first.
	ListTrades(ctx context.Context, key model.LedgerKey, limit int) ([]model.Trade, error)

	// HeldSymbols lists every symbol with an open position across all
	// ledgers, for the price cache refresher.
	HeldSymbols(ctx context.Context) ([]string, error)
}
