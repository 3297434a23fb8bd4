package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/types"
)

const pgUniqueViolation = "23505"

// PostgresStore persists ledgers, positions and the trade log in Postgres.
// CommitTrade runs in a serializable transaction with the ledger row locked
// for update, so a crashed commit never leaves a half-applied trade.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateLedger(ctx context.Context, l model.Ledger) error {
	_, err := s.pool.Exec(ctx,
		"insert into ledgers (id, user_id, context_id, cash_balance, starting_balance, created_at) values ($1, $2, $3, $4, $5, $6)",
		l.ID, l.UserID, l.ContextID, l.CashBalance, l.StartingBalance, l.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (s *PostgresStore) GetLedger(ctx context.Context, key model.LedgerKey) (model.Ledger, error) {
	var l model.Ledger
	err := s.pool.QueryRow(ctx,
		"select id, user_id, context_id, cash_balance, starting_balance, created_at from ledgers where user_id = $1 and context_id = $2",
		key.UserID, key.ContextID).
		Scan(&l.ID, &l.UserID, &l.ContextID, &l.CashBalance, &l.StartingBalance, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ledger{}, ErrLedgerNotFound
		}
		return model.Ledger{}, err
	}
	l.Positions = make(map[string]model.Position)
	rows, err := s.pool.Query(ctx,
		"select symbol, quantity, average_cost from positions where ledger_id = $1", l.ID)
	if err != nil {
		return model.Ledger{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.AverageCost); err != nil {
			return model.Ledger{}, err
		}
		l.Positions[p.Symbol] = p
	}
	return l, rows.Err()
}

func (s *PostgresStore) CommitTrade(ctx context.Context, l model.Ledger, t model.Trade) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, "select id from ledgers where id = $1 for update", l.ID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLedgerNotFound
		}
		return err
	}
	_, err = tx.Exec(ctx, "update ledgers set cash_balance = $1 where id = $2", l.CashBalance, l.ID)
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(l.Positions))
	for sym, p := range l.Positions {
		symbols = append(symbols, sym)
		_, err = tx.Exec(ctx, `
			insert into positions (ledger_id, symbol, quantity, average_cost)
			values ($1, $2, $3, $4)
			on conflict (ledger_id, symbol)
			do update set quantity = excluded.quantity, average_cost = excluded.average_cost
		`, l.ID, sym, p.Quantity, p.AverageCost)
		if err != nil {
			return err
		}
	}
	// Positions absent from the map were fully sold; drop their rows.
	_, err = tx.Exec(ctx, "delete from positions where ledger_id = $1 and symbol <> all($2)", l.ID, symbols)
	if err != nil {
		return err
	}

	if err := insertTrade(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) AppendTrade(ctx context.Context, t model.Trade) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := insertTrade(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertTrade(ctx context.Context, tx pgx.Tx, t model.Trade) error {
	_, err := tx.Exec(ctx, `
		insert into trades (id, ledger_id, symbol, side, quantity, fill_price, fee, total_amount, realized_pnl, status, reason, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, t.ID, t.LedgerID, t.Symbol, string(t.Side), t.Quantity, t.FillPrice, t.Fee, t.TotalAmount, t.RealizedPnL, string(t.Status), t.Reason, t.CreatedAt)
	return err
}

func (s *PostgresStore) ListTrades(ctx context.Context, key model.LedgerKey, limit int) ([]model.Trade, error) {
	var ledgerID string
	err := s.pool.QueryRow(ctx,
		"select id from ledgers where user_id = $1 and context_id = $2", key.UserID, key.ContextID).Scan(&ledgerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		select id, ledger_id, symbol, side, quantity, fill_price, fee, total_amount, realized_pnl, status, reason, created_at
		from trades
		where ledger_id = $1
		order by created_at desc
		limit $2
	`, ledgerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Trade
	for rows.Next() {
		var t model.Trade
		var side, status string
		if err := rows.Scan(&t.ID, &t.LedgerID, &t.Symbol, &side, &t.Quantity, &t.FillPrice, &t.Fee, &t.TotalAmount, &t.RealizedPnL, &status, &t.Reason, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Side = types.TradeSide(side)
		t.Status = types.TradeStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) HeldSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "select distinct symbol from positions where quantity > 0 order by symbol")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
