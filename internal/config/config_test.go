package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("JWT_ISSUER", "tradepulse")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Empty(t, c.DBDSN)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, "0.0005", c.FeeRate.String())
	assert.Equal(t, "100000", c.StartingBalance.String())
	assert.Equal(t, time.Minute, c.RefreshInterval)
	assert.Equal(t, 5*time.Second, c.LockTimeout)
	assert.Equal(t, 5*time.Minute, c.StaleAfter)
	assert.Empty(t, c.TrackedSymbols)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_ADDR")
	assert.Contains(t, err.Error(), "JWT_ISSUER")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FEE_RATE", "0.001")
	t.Setenv("PRICE_REFRESH_INTERVAL", "30s")
	t.Setenv("TRACKED_SYMBOLS", "aapl, msft ,,TSLA")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.001", c.FeeRate.String())
	assert.Equal(t, 30*time.Second, c.RefreshInterval)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, c.TrackedSymbols)
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("FEE_RATE", "-0.1")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FEE_RATE", "")
	t.Setenv("LEDGER_LOCK_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}
