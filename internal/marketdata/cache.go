package marketdata

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/telemetry"
)

// SymbolSource reports the symbols currently held across all ledgers so a
// refresh cycle covers every priced position.
type SymbolSource interface {
	HeldSymbols(ctx context.Context) ([]string, error)
}

// Cache is the process-wide last-known-price store. The refresher goroutine
// is the only writer; trade execution and valuation only read. A feed
// failure for a symbol keeps the prior entry, so consumers may see a stale
// AsOf but never lose a price they once had.
type Cache struct {
	feed   PriceFeed
	source SymbolSource
	bus    *Bus

	mu      sync.RWMutex
	quotes  map[string]Quote
	tracked map[string]struct{}
}

func NewCache(feed PriceFeed, source SymbolSource, bus *Bus) *Cache {
	return &Cache{
		feed:    feed,
		source:  source,
		bus:     bus,
		quotes:  make(map[string]Quote),
		tracked: make(map[string]struct{}),
	}
}

// Track adds symbols to every refresh cycle regardless of holdings.
func (c *Cache) Track(symbols ...string) {
	c.mu.Lock()
	for _, s := range symbols {
		if s != "" {
			c.tracked[s] = struct{}{}
		}
	}
	c.mu.Unlock()
}

// GetPrice returns the cached quote for a symbol. ok is false only when no
// price has ever been cached.
func (c *Cache) GetPrice(symbol string) (Quote, bool) {
	c.mu.RLock()
	q, ok := c.quotes[symbol]
	c.mu.RUnlock()
	return q, ok
}

// Put stores a quote directly, bypassing the feed. The executor uses it to
// keep the cache warm for a symbol it just traded; tests seed with it.
func (c *Cache) Put(q Quote) {
	if q.Symbol == "" || !q.Price.IsPositive() {
		return
	}
	c.mu.Lock()
	c.quotes[q.Symbol] = q
	telemetry.CachedSymbols.Set(float64(len(c.quotes)))
	c.mu.Unlock()
	c.publish(q)
}

// Refresh polls the feed once for every tracked and held symbol. Individual
// symbol failures are logged and counted but never abort the cycle.
func (c *Cache) Refresh(ctx context.Context) {
	symbols := c.refreshSet(ctx)
	for _, symbol := range symbols {
		q, err := c.feed.FetchQuote(ctx, symbol)
		if err != nil {
			telemetry.PriceRefreshErrors.Inc()
			log.Warn().Err(err).Str("symbol", symbol).Msg("price refresh failed, keeping cached value")
			continue
		}
		c.Put(q)
	}
	telemetry.PriceRefreshCycles.Inc()
}

func (c *Cache) refreshSet(ctx context.Context) []string {
	set := make(map[string]struct{})
	c.mu.RLock()
	for s := range c.tracked {
		set[s] = struct{}{}
	}
	c.mu.RUnlock()
	if c.source != nil {
		held, err := c.source.HeldSymbols(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("could not list held symbols for refresh")
		}
		for _, s := range held {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// StartRefresher runs Refresh on a fixed interval until ctx is canceled.
func (c *Cache) StartRefresher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Msg("price cache refresher started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("price cache refresher stopped")
				return
			case <-ticker.C:
				c.Refresh(ctx)
			}
		}
	}()
}

func (c *Cache) publish(q Quote) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(Event{Type: "quote", Data: q})
}
