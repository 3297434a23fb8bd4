package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the engine's tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		create table if not exists ledgers (
			id uuid primary key,
			user_id text not null,
			context_id text not null,
			cash_balance numeric(15,2) not null check (cash_balance >= 0),
			starting_balance numeric(15,2) not null,
			created_at timestamptz not null,
			unique (user_id, context_id)
		);
		create table if not exists positions (
			ledger_id uuid not null references ledgers(id),
			symbol text not null,
			quantity bigint not null check (quantity > 0),
			average_cost numeric(15,2) not null,
			primary key (ledger_id, symbol)
		);
		create table if not exists trades (
			id uuid primary key,
			ledger_id uuid not null references ledgers(id),
			symbol text not null,
			side text not null,
			quantity bigint not null,
			fill_price numeric(15,2) not null default 0,
			fee numeric(15,2) not null default 0,
			total_amount numeric(15,2) not null default 0,
			realized_pnl numeric(15,2) not null default 0,
			status text not null,
			reason text not null default '',
			created_at timestamptz not null
		);
		create index if not exists trades_ledger_created_idx on trades (ledger_id, created_at desc);
	`)
	return err
}
