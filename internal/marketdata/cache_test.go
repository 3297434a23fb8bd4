package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	quotes map[string]Quote
	fail   map[string]bool
	calls  []string
}

func (f *fakeFeed) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	f.calls = append(f.calls, symbol)
	if f.fail[symbol] {
		return Quote{}, errors.New("feed down")
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return Quote{}, errors.New("unknown symbol")
	}
	return q, nil
}

type fakeSource struct {
	held []string
}

func (s *fakeSource) HeldSymbols(ctx context.Context) ([]string, error) {
	return s.held, nil
}

func quote(symbol, price string) Quote {
	return Quote{Symbol: symbol, Price: decimal.RequireFromString(price), AsOf: time.Now().UTC()}
}

func TestCachePutAndGet(t *testing.T) {
	c := NewCache(nil, nil, nil)
	_, ok := c.GetPrice("AAPL")
	assert.False(t, ok)

	c.Put(quote("AAPL", "150.00"))
	q, ok := c.GetPrice("AAPL")
	require.True(t, ok)
	assert.Equal(t, "150.00", q.Price.StringFixed(2))
}

func TestCachePutIgnoresInvalid(t *testing.T) {
	c := NewCache(nil, nil, nil)
	c.Put(Quote{Symbol: "", Price: decimal.RequireFromString("10")})
	c.Put(Quote{Symbol: "AAPL", Price: decimal.Zero})
	c.Put(Quote{Symbol: "AAPL", Price: decimal.RequireFromString("-1")})
	_, ok := c.GetPrice("AAPL")
	assert.False(t, ok)
}

func TestRefreshCoversTrackedAndHeld(t *testing.T) {
	feed := &fakeFeed{quotes: map[string]Quote{
		"AAPL": quote("AAPL", "150.00"),
		"MSFT": quote("MSFT", "400.00"),
	}}
	c := NewCache(feed, &fakeSource{held: []string{"AAPL"}}, nil)
	c.Track("MSFT")

	c.Refresh(context.Background())

	assert.Equal(t, []string{"AAPL", "MSFT"}, feed.calls)
	_, ok := c.GetPrice("AAPL")
	assert.True(t, ok)
	_, ok = c.GetPrice("MSFT")
	assert.True(t, ok)
}

func TestRefreshKeepsCachedValueOnFeedError(t *testing.T) {
	feed := &fakeFeed{
		quotes: map[string]Quote{"AAPL": quote("AAPL", "155.00")},
		fail:   map[string]bool{"AAPL": true},
	}
	c := NewCache(feed, nil, nil)
	c.Track("AAPL")
	c.Put(quote("AAPL", "150.00"))

	c.Refresh(context.Background())

	q, ok := c.GetPrice("AAPL")
	require.True(t, ok)
	assert.Equal(t, "150.00", q.Price.StringFixed(2), "failed fetch must not evict the last price")
}

func TestRefreshPartialFailureContinues(t *testing.T) {
	feed := &fakeFeed{
		quotes: map[string]Quote{"MSFT": quote("MSFT", "400.00")},
		fail:   map[string]bool{"AAPL": true},
	}
	c := NewCache(feed, nil, nil)
	c.Track("AAPL", "MSFT")

	c.Refresh(context.Background())

	_, ok := c.GetPrice("AAPL")
	assert.False(t, ok)
	q, ok := c.GetPrice("MSFT")
	require.True(t, ok)
	assert.Equal(t, "400.00", q.Price.StringFixed(2))
}

func TestPutPublishesToBus(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	c := NewCache(nil, nil, bus)
	c.Put(quote("AAPL", "150.00"))

	select {
	case evt := <-sub:
		assert.Equal(t, "quote", evt.Type)
		q, ok := evt.Data.(Quote)
		require.True(t, ok)
		assert.Equal(t, "AAPL", q.Symbol)
	case <-time.After(time.Second):
		t.Fatal("no quote event published")
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	for i := 0; i < 150; i++ {
		bus.Publish(Event{Type: "quote"})
	}
	// Publish never blocks; the buffered channel simply stops filling.
	assert.Equal(t, 100, len(sub))
}
