package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

func TestLedgerLocksAcquireRelease(t *testing.T) {
	locks := newLedgerLocks()
	key := model.LedgerKey{UserID: "u1", ContextID: "personal"}

	require.NoError(t, locks.acquire(context.Background(), key, time.Second))
	locks.release(key)
	require.NoError(t, locks.acquire(context.Background(), key, time.Second))
	locks.release(key)
}

func TestLedgerLocksBusyOnTimeout(t *testing.T) {
	locks := newLedgerLocks()
	key := model.LedgerKey{UserID: "u1", ContextID: "personal"}

	require.NoError(t, locks.acquire(context.Background(), key, time.Second))
	err := locks.acquire(context.Background(), key, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrBusy)
	locks.release(key)
}

func TestLedgerLocksIndependentKeys(t *testing.T) {
	locks := newLedgerLocks()
	a := model.LedgerKey{UserID: "u1", ContextID: "personal"}
	b := model.LedgerKey{UserID: "u1", ContextID: "comp-1"}

	require.NoError(t, locks.acquire(context.Background(), a, time.Second))
	require.NoError(t, locks.acquire(context.Background(), b, 20*time.Millisecond), "different ledgers must not contend")
	locks.release(a)
	locks.release(b)
}

func TestLedgerLocksContextCanceled(t *testing.T) {
	locks := newLedgerLocks()
	key := model.LedgerKey{UserID: "u1", ContextID: "personal"}

	require.NoError(t, locks.acquire(context.Background(), key, time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := locks.acquire(ctx, key, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	locks.release(key)
}
