package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr        string
	DBDSN           string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	WebSocketOrigin string
	FeeRate         decimal.Decimal
	StartingBalance decimal.Decimal
	RefreshInterval time.Duration
	LockTimeout     time.Duration
	StaleAfter      time.Duration
	TrackedSymbols  []string
	PriceFeedURL    string
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	// DB_DSN optional: empty selects the in-memory store.
	c.DBDSN = os.Getenv("DB_DSN")
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		c.JWTTTL = 24 * time.Hour
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")

	var err error
	if c.FeeRate, err = decimalEnv("FEE_RATE", "0.0005"); err != nil {
		return c, errors.New("invalid FEE_RATE")
	}
	if c.StartingBalance, err = decimalEnv("STARTING_BALANCE", "100000.00"); err != nil {
		return c, errors.New("invalid STARTING_BALANCE")
	}
	if c.RefreshInterval, err = durationEnv("PRICE_REFRESH_INTERVAL", time.Minute); err != nil {
		return c, errors.New("invalid PRICE_REFRESH_INTERVAL")
	}
	if c.LockTimeout, err = durationEnv("LEDGER_LOCK_TIMEOUT", 5*time.Second); err != nil {
		return c, errors.New("invalid LEDGER_LOCK_TIMEOUT")
	}
	if c.StaleAfter, err = durationEnv("PRICE_STALE_AFTER", 5*time.Minute); err != nil {
		return c, errors.New("invalid PRICE_STALE_AFTER")
	}
	c.PriceFeedURL = os.Getenv("PRICE_FEED_URL")
	for _, s := range strings.Split(os.Getenv("TRACKED_SYMBOLS"), ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			c.TrackedSymbols = append(c.TrackedSymbols, s)
		}
	}
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return decimal.Zero, errors.New("invalid " + key)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
