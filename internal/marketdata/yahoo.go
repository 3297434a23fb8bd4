package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFeed pulls live quotes from the Yahoo Finance chart API. A circuit
// breaker shields the refresher from a dead upstream and a rate limiter
// keeps us inside the free tier.
type YahooFeed struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

type YahooConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec float64
	Burst          int
}

func NewYahooFeed(cfg YahooConfig) *YahooFeed {
	if cfg.BaseURL == "" {
		cfg.BaseURL = yahooChartURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "yahoo-chart",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("price feed breaker state change")
		},
	})
	return &YahooFeed{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreMarketPrice     *float64 `json:"preMarketPrice"`
				PostMarketPrice    *float64 `json:"postMarketPrice"`
				PreviousClose      *float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFeed) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, errors.New("symbol required")
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}
	out, err := f.breaker.Execute(func() (any, error) {
		return f.fetch(ctx, symbol)
	})
	if err != nil {
		return Quote{}, err
	}
	return out.(Quote), nil
}

func (f *YahooFeed) fetch(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/%s?interval=1m&range=1d&includePrePost=true", f.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", "TradePulse/1.0")
	resp, err := f.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("feed returned status %d for %s", resp.StatusCode, symbol)
	}
	var parsed yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Quote{}, err
	}
	if parsed.Chart.Error != nil {
		return Quote{}, fmt.Errorf("feed error for %s: %s", symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no chart data for %s", symbol)
	}
	meta := parsed.Chart.Result[0].Meta

	// Regular market price first, pre/post market when the session is closed.
	price := meta.RegularMarketPrice
	if price == nil {
		price = meta.PreMarketPrice
	}
	if price == nil {
		price = meta.PostMarketPrice
	}
	if price == nil || *price <= 0 {
		return Quote{}, fmt.Errorf("no price for %s", symbol)
	}
	q := Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(*price).RoundBank(2),
		AsOf:   time.Now().UTC(),
	}
	if meta.PreviousClose != nil && *meta.PreviousClose > 0 {
		q.PreviousClose = decimal.NewFromFloat(*meta.PreviousClose).RoundBank(2)
	}
	return q, nil
}
