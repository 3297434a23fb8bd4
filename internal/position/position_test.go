package position

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestFee(t *testing.T) {
	cases := []struct {
		name  string
		price string
		qty   int64
		rate  string
		want  string
	}{
		{"exact", "150.00", 10, "0.0005", "0.75"},
		{"small", "160.00", 5, "0.0005", "0.40"},
		{"half_rounds_to_even_down", "170.00", 5, "0.0005", "0.42"}, // 0.425
		{"half_rounds_to_even_up", "87.00", 10, "0.0005", "0.44"},   // 0.435
		{"zero_rate", "150.00", 10, "0", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Fee(dec(t, tc.price), tc.qty, dec(t, tc.rate))
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestApplyBuy_NewPosition(t *testing.T) {
	pos := ApplyBuy(model.Position{}, "AAPL", 10, dec(t, "150.00"))
	assert.Equal(t, "AAPL", pos.Symbol)
	assert.Equal(t, int64(10), pos.Quantity)
	assert.Equal(t, "150.00", pos.AverageCost.StringFixed(2))
}

func TestApplyBuy_AveragesCost(t *testing.T) {
	pos := ApplyBuy(model.Position{}, "AAPL", 10, dec(t, "150.00"))
	pos = ApplyBuy(pos, "AAPL", 5, dec(t, "160.00"))
	assert.Equal(t, int64(15), pos.Quantity)
	// (10*150 + 5*160) / 15 = 153.333... banker-rounded to 2dp
	assert.Equal(t, "153.33", pos.AverageCost.StringFixed(2))
}

func TestApplySell_RealizedAndAverageUnchanged(t *testing.T) {
	pos := model.Position{Symbol: "AAPL", Quantity: 15, AverageCost: dec(t, "153.33")}
	fee := Fee(dec(t, "170.00"), 5, dec(t, "0.0005"))
	updated, realized := ApplySell(pos, 5, dec(t, "170.00"), fee)
	assert.Equal(t, int64(10), updated.Quantity)
	assert.Equal(t, "153.33", updated.AverageCost.StringFixed(2), "sell must not move average cost")
	// (170 - 153.33) * 5 - 0.42
	assert.Equal(t, "82.93", realized.StringFixed(2))
}

func TestApplySell_ClosesPosition(t *testing.T) {
	pos := model.Position{Symbol: "AAPL", Quantity: 10, AverageCost: dec(t, "150.00")}
	updated, realized := ApplySell(pos, 10, dec(t, "150.00"), decimal.Zero)
	assert.Equal(t, int64(0), updated.Quantity)
	assert.Equal(t, "0.00", realized.StringFixed(2))
}

func TestApplySell_Loss(t *testing.T) {
	pos := model.Position{Symbol: "TSLA", Quantity: 4, AverageCost: dec(t, "250.00")}
	_, realized := ApplySell(pos, 4, dec(t, "240.00"), dec(t, "0.48"))
	// (240 - 250) * 4 - 0.48
	assert.Equal(t, "-40.48", realized.StringFixed(2))
}

func TestNotional(t *testing.T) {
	assert.Equal(t, "1500.00", Notional(dec(t, "150.00"), 10).StringFixed(2))
}
