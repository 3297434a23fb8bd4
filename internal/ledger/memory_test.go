package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

func TestMemoryStoreCloneIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := model.Ledger{
		ID: "led-1", UserID: "u1", ContextID: "personal",
		CashBalance: dec(t, "1000.00"),
		Positions: map[string]model.Position{
			"AAPL": {Symbol: "AAPL", Quantity: 5, AverageCost: dec(t, "150.00")},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateLedger(ctx, l))

	got, err := store.GetLedger(ctx, l.Key())
	require.NoError(t, err)
	delete(got.Positions, "AAPL")

	again, err := store.GetLedger(ctx, l.Key())
	require.NoError(t, err)
	assert.Contains(t, again.Positions, "AAPL", "reads must not alias stored state")
}

func TestMemoryStoreHeldSymbols(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mk := func(id, user, contextID string, symbols ...string) {
		l := model.Ledger{
			ID: id, UserID: user, ContextID: contextID,
			CashBalance: dec(t, "0"),
			Positions:   make(map[string]model.Position),
			CreatedAt:   time.Now().UTC(),
		}
		for _, s := range symbols {
			l.Positions[s] = model.Position{Symbol: s, Quantity: 1, AverageCost: dec(t, "1.00")}
		}
		require.NoError(t, store.CreateLedger(ctx, l))
	}
	mk("led-1", "u1", "personal", "MSFT", "AAPL")
	mk("led-2", "u2", "personal", "AAPL", "TSLA")

	held, err := store.HeldSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, held)
}

func TestMemoryStoreCommitRequiresLedger(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := model.Ledger{ID: "ghost", UserID: "u1", ContextID: "personal", Positions: map[string]model.Position{}}
	err := store.CommitTrade(ctx, l, model.Trade{ID: "t1", LedgerID: "ghost"})
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}
