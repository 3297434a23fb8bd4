package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

// MemoryStore is an in-process Store. It backs tests and single-node
// deployments that do not need durability.
type MemoryStore struct {
	mu      sync.RWMutex
	ledgers map[model.LedgerKey]model.Ledger
	trades  map[string][]model.Trade
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ledgers: make(map[model.LedgerKey]model.Ledger),
		trades:  make(map[string][]model.Trade),
	}
}

func (s *MemoryStore) CreateLedger(ctx context.Context, l model.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := l.Key()
	if _, ok := s.ledgers[key]; ok {
		return ErrAlreadyExists
	}
	s.ledgers[key] = l.Clone()
	return nil
}

func (s *MemoryStore) GetLedger(ctx context.Context, key model.LedgerKey) (model.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[key]
	if !ok {
		return model.Ledger{}, ErrLedgerNotFound
	}
	return l.Clone(), nil
}

func (s *MemoryStore) CommitTrade(ctx context.Context, l model.Ledger, t model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := l.Key()
	if _, ok := s.ledgers[key]; !ok {
		return ErrLedgerNotFound
	}
	s.ledgers[key] = l.Clone()
	s.trades[l.ID] = append(s.trades[l.ID], t)
	return nil
}

func (s *MemoryStore) AppendTrade(ctx context.Context, t model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[t.LedgerID] = append(s.trades[t.LedgerID], t)
	return nil
}

func (s *MemoryStore) ListTrades(ctx context.Context, key model.LedgerKey, limit int) ([]model.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[key]
	if !ok {
		return nil, ErrLedgerNotFound
	}
	all := s.trades[l.ID]
	out := make([]model.Trade, len(all))
	// Append order is commit order; callers get newest first.
	for i, t := range all {
		out[len(all)-1-i] = t
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) HeldSymbols(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, l := range s.ledgers {
		for sym := range l.Positions {
			set[sym] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for sym := range set {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out, nil
}
