package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

// ledgerLocks serializes trade execution per ledger. Each key owns a
// one-slot semaphore; different ledgers never contend. Acquisition is
// bounded so a stuck order surfaces as ErrBusy instead of queueing forever.
type ledgerLocks struct {
	mu   sync.Mutex
	sems map[model.LedgerKey]chan struct{}
}

func newLedgerLocks() *ledgerLocks {
	return &ledgerLocks{sems: make(map[model.LedgerKey]chan struct{})}
}

func (l *ledgerLocks) sem(key model.LedgerKey) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.sems[key]
	if !ok {
		sem = make(chan struct{}, 1)
		l.sems[key] = sem
	}
	return sem
}

func (l *ledgerLocks) acquire(ctx context.Context, key model.LedgerKey, timeout time.Duration) error {
	sem := l.sem(key)
	select {
	case sem <- struct{}{}:
		return nil
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
}

func (l *ledgerLocks) release(key model.LedgerKey) {
	<-l.sem(key)
}
