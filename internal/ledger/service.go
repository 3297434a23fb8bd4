package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/marketdata"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/position"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/telemetry"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/types"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Service is the ledger facade: it creates ledgers, executes trades,
// values portfolios and serves trade history. Personal portfolios and
// competition entries run through the same code paths, isolated only by
// their (user, context) key.
type Service struct {
	store       Store
	cache       *marketdata.Cache
	feeRate     decimal.Decimal
	lockTimeout time.Duration
	staleAfter  time.Duration
	locks       *ledgerLocks
}

type ServiceConfig struct {
	FeeRate     decimal.Decimal
	LockTimeout time.Duration
	StaleAfter  time.Duration
}

func NewService(store Store, cache *marketdata.Cache, cfg ServiceConfig) *Service {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Minute
	}
	return &Service{
		store:       store,
		cache:       cache,
		feeRate:     cfg.FeeRate,
		lockTimeout: cfg.LockTimeout,
		staleAfter:  cfg.StaleAfter,
		locks:       newLedgerLocks(),
	}
}

// CreateLedger opens a new ledger funded with startingBalance. Creating the
// same (user, context) twice fails with ErrAlreadyExists and leaves the
// original untouched.
func (s *Service) CreateLedger(ctx context.Context, userID, contextID string, startingBalance decimal.Decimal) (model.Ledger, error) {
	contextID = normalizeContext(contextID)
	if userID == "" {
		return model.Ledger{}, errors.New("user id required")
	}
	if startingBalance.IsNegative() {
		return model.Ledger{}, errors.New("starting balance must not be negative")
	}
	l := model.Ledger{
		ID:              uuid.NewString(),
		UserID:          userID,
		ContextID:       contextID,
		CashBalance:     startingBalance.RoundBank(position.CashPrecision),
		StartingBalance: startingBalance.RoundBank(position.CashPrecision),
		Positions:       make(map[string]model.Position),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.CreateLedger(ctx, l); err != nil {
		return model.Ledger{}, err
	}
	log.Info().Str("user", userID).Str("context", contextID).Str("balance", l.StartingBalance.StringFixed(2)).Msg("ledger created")
	return l, nil
}

func (s *Service) GetLedger(ctx context.Context, userID, contextID string) (model.Ledger, error) {
	return s.store.GetLedger(ctx, model.LedgerKey{UserID: userID, ContextID: normalizeContext(contextID)})
}

// Execute validates and applies one market order against the ledger's
// committed state and the cached price. Exactly one trade record is
// appended per call: completed on success, rejected on any precondition
// failure (except a missing ledger, which has no log to attach to).
func (s *Service) Execute(ctx context.Context, userID, contextID, symbol string, side types.TradeSide, qty int64) (model.Trade, error) {
	key := model.LedgerKey{UserID: userID, ContextID: normalizeContext(contextID)}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Trade{}, errors.New("symbol required")
	}
	if side != types.TradeSideBuy && side != types.TradeSideSell {
		return model.Trade{}, errors.New("invalid side")
	}

	if err := s.locks.acquire(ctx, key, s.lockTimeout); err != nil {
		if errors.Is(err, ErrBusy) {
			telemetry.TradeRejections.WithLabelValues("busy").Inc()
		}
		return model.Trade{}, err
	}
	defer s.locks.release(key)

	l, err := s.store.GetLedger(ctx, key)
	if err != nil {
		return model.Trade{}, err
	}

	t := model.Trade{
		ID:        uuid.NewString(),
		LedgerID:  l.ID,
		Symbol:    symbol,
		Side:      side,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	}

	if qty <= 0 {
		return s.rejectTrade(ctx, t, ErrInvalidQuantity)
	}
	quote, ok := s.cache.GetPrice(symbol)
	if !ok {
		return s.rejectTrade(ctx, t, ErrPriceUnavailable)
	}
	price := quote.Price
	fee := position.Fee(price, qty, s.feeRate)
	notional := position.Notional(price, qty)
	t.FillPrice = price
	t.Fee = fee

	switch side {
	case types.TradeSideBuy:
		total := notional.Add(fee)
		t.TotalAmount = total
		if l.CashBalance.LessThan(total) {
			return s.rejectTrade(ctx, t, reject(ErrInsufficientFunds, total, l.CashBalance))
		}
		l.Positions[symbol] = position.ApplyBuy(l.Positions[symbol], symbol, qty, price)
		l.CashBalance = l.CashBalance.Sub(total)

	case types.TradeSideSell:
		pos, held := l.Positions[symbol]
		if !held || pos.Quantity < qty {
			return s.rejectTrade(ctx, t, reject(ErrInsufficientShares, decimal.NewFromInt(qty), decimal.NewFromInt(pos.Quantity)))
		}
		updated, realized := position.ApplySell(pos, qty, price, fee)
		if updated.Quantity == 0 {
			delete(l.Positions, symbol)
		} else {
			l.Positions[symbol] = updated
		}
		proceeds := notional.Sub(fee)
		t.TotalAmount = proceeds
		t.RealizedPnL = realized
		l.CashBalance = l.CashBalance.Add(proceeds)
	}

	t.Status = types.TradeStatusCompleted
	if err := s.store.CommitTrade(ctx, l, t); err != nil {
		return model.Trade{}, err
	}
	telemetry.TradesExecuted.WithLabelValues(string(side), string(types.TradeStatusCompleted)).Inc()
	log.Info().
		Str("ledger", l.ID).
		Str("symbol", symbol).
		Str("side", string(side)).
		Int64("qty", qty).
		Str("price", price.StringFixed(2)).
		Str("cash", l.CashBalance.StringFixed(2)).
		Msg("trade executed")
	return t, nil
}

// rejectTrade appends the rejected audit record and returns the typed
// error. Ledger state is never mutated on this path.
func (s *Service) rejectTrade(ctx context.Context, t model.Trade, cause error) (model.Trade, error) {
	t.Status = types.TradeStatusRejected
	t.Reason = cause.Error()
	if err := s.store.AppendTrade(ctx, t); err != nil {
		log.Error().Err(err).Str("ledger", t.LedgerID).Msg("could not append rejected trade")
	}
	sentinel := cause
	var rej *RejectionError
	if errors.As(cause, &rej) {
		sentinel = rej.Sentinel
	}
	telemetry.TradesExecuted.WithLabelValues(string(t.Side), string(types.TradeStatusRejected)).Inc()
	telemetry.TradeRejections.WithLabelValues(rejectionLabel(sentinel)).Inc()
	return t, cause
}

func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, ErrPriceUnavailable):
		return "price_unavailable"
	default:
		return "other"
	}
}

// History returns the ledger's newest trades, completed and rejected alike.
func (s *Service) History(ctx context.Context, userID, contextID string, limit int) ([]model.Trade, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.store.ListTrades(ctx, model.LedgerKey{UserID: userID, ContextID: normalizeContext(contextID)}, limit)
}

func normalizeContext(contextID string) string {
	contextID = strings.TrimSpace(contextID)
	if contextID == "" {
		return types.ContextPersonal
	}
	return contextID
}
