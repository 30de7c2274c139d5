package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		tickers []string
		want    string
	}{
		{"sorted", []string{"MSFT", "AAPL"}, "AAPL,MSFT"},
		{"uppercased and trimmed", []string{" aapl ", "msft"}, "AAPL,MSFT"},
		{"deduplicated", []string{"AAPL", "aapl", "AAPL"}, "AAPL"},
		{"empty entries dropped", []string{"", "  ", "SPY"}, "SPY"},
		{"all empty", []string{"", ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.tickers))
		})
	}
}

func TestPriceCache_TTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewPriceCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.Put("AAPL", map[string]float64{"AAPL": 165})

	got, ok := c.Get("AAPL")
	require.True(t, ok)
	assert.InDelta(t, 165.0, got["AAPL"], 1e-9)

	now = now.Add(4 * time.Minute)
	_, ok = c.Get("AAPL")
	assert.True(t, ok, "entry inside TTL should hit")

	now = now.Add(1 * time.Minute)
	_, ok = c.Get("AAPL")
	assert.False(t, ok, "entry at TTL should miss")
}

func TestPriceCache_GetReturnsCopy(t *testing.T) {
	c := NewPriceCache(time.Minute)
	c.Put("AAPL", map[string]float64{"AAPL": 165})

	got, ok := c.Get("AAPL")
	require.True(t, ok)
	got["AAPL"] = 1

	again, ok := c.Get("AAPL")
	require.True(t, ok)
	assert.InDelta(t, 165.0, again["AAPL"], 1e-9)
}

func TestPriceCache_CachesFailures(t *testing.T) {
	c := NewPriceCache(time.Minute)
	c.Put("BAD", map[string]float64{"BAD": math.NaN()})

	got, ok := c.Get("BAD")
	require.True(t, ok)
	assert.True(t, math.IsNaN(got["BAD"]))
}

func TestPriceCache_Clear(t *testing.T) {
	c := NewPriceCache(time.Minute)
	c.Put("AAPL", map[string]float64{"AAPL": 165})
	c.Clear()

	_, ok := c.Get("AAPL")
	assert.False(t, ok)
}

func TestHistoryCache_CachedEmptyIsValid(t *testing.T) {
	c := NewHistoryCache()

	_, ok := c.Get("NOPE", "1y")
	require.False(t, ok, "untouched key should miss")

	c.Put("NOPE", "1y", model.Series{})
	series, ok := c.Get("NOPE", "1y")
	assert.True(t, ok, "cached empty series counts as known unavailable")
	assert.Empty(t, series)
}

func TestHistoryCache_KeyedByTickerAndPeriod(t *testing.T) {
	c := NewHistoryCache()
	s1 := model.Series{{Date: time.Now(), Price: 100}}

	c.Put("aapl", "1y", s1)

	got, ok := c.Get("AAPL", "1y")
	require.True(t, ok)
	assert.Len(t, got, 1)

	_, ok = c.Get("AAPL", "6mo")
	assert.False(t, ok, "different period is a different entry")
}
