package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/marketdata"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/pricing"
)

func dailyBars(start time.Time, closes []float64) []marketdata.Bar {
	out := make([]marketdata.Bar, len(closes))
	for i, c := range closes {
		out[i] = marketdata.Bar{Date: start.AddDate(0, 0, i), Close: c, AdjClose: math.NaN()}
	}
	return out
}

func climbing(base float64, n int) []float64 {
	out := make([]float64, n)
	price := base
	for i := range out {
		if i%4 == 3 {
			price *= 0.995
		} else {
			price *= 1.004
		}
		out[i] = price
	}
	return out
}

func testEngine() (*Engine, *marketdata.MockSource) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &marketdata.MockSource{
		QuotePrices: map[string]float64{"AAPL": 165, "MSFT": 410},
		Histories: map[string][]marketdata.Bar{
			"AAPL":  dailyBars(start, climbing(150, 60)),
			"MSFT":  dailyBars(start, climbing(400, 60)),
			"^GSPC": dailyBars(start, climbing(4000, 60)),
		},
	}
	svc := pricing.NewService(src, 5*time.Minute, zerolog.Nop())
	eng := New(svc, Options{
		Benchmarks: []string{"^GSPC"},
		RiskFree:   0.02,
	}, zerolog.Nop())
	return eng, src
}

func holdings() []model.Holding {
	return []model.Holding{
		{Ticker: "AAPL", PurchasePrice: 150, Quantity: 10, AssetType: "stock"},
		{Ticker: "MSFT", PurchasePrice: 400, Quantity: 5, AssetType: "stock"},
	}
}

func TestEngine_FetchPrices(t *testing.T) {
	eng, _ := testEngine()
	prices := eng.FetchPrices(context.Background(), []string{"AAPL"})
	assert.InDelta(t, 165.0, prices["AAPL"], 1e-9)
}

func TestEngine_Refresh(t *testing.T) {
	eng, _ := testEngine()

	require.Nil(t, eng.Last(), "no report before the first refresh")

	report := eng.Refresh(context.Background(), holdings())
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Summary.Holdings)
	assert.Equal(t, 0, report.Summary.DroppedRows)
	assert.Equal(t, 0, report.Summary.UnresolvedPrices)
	assert.True(t, report.Summary.RiskComputed)

	require.Len(t, report.Table, 2)
	assert.InDelta(t, 1650.0+2050.0, report.Table.TotalValue(), 1e-9)

	assert.False(t, math.IsNaN(report.Sharpe))
	assert.False(t, math.IsNaN(report.ValueAtRisk))
	assert.Greater(t, report.ValueAtRisk, 0.0)

	assert.NotEmpty(t, report.Recommendations)
	assert.NotEmpty(t, report.Breakdown)
	assert.NotEmpty(t, report.TopMovers)
	require.NotNil(t, report.Rebalance)
	assert.False(t, report.GeneratedAt.IsZero())

	assert.Same(t, report, eng.Last())
}

func TestEngine_ComputeMetricsBasicVsEnhanced(t *testing.T) {
	eng, _ := testEngine()

	basic, _ := eng.ComputeMetrics(context.Background(), holdings())
	require.Len(t, basic, 2)
	assert.True(t, math.IsNaN(basic[0].RSI), "basic table has no technical columns")

	enhanced, _ := eng.ComputeEnhancedMetrics(context.Background(), holdings())
	require.Len(t, enhanced, 2)
	assert.False(t, math.IsNaN(enhanced[0].RSI))
	assert.False(t, math.IsNaN(enhanced[0].Beta))
}

func TestEngine_ClearCaches(t *testing.T) {
	eng, src := testEngine()

	eng.FetchPrices(context.Background(), []string{"AAPL"})
	calls := src.Calls()
	eng.FetchPrices(context.Background(), []string{"AAPL"})
	assert.Equal(t, calls, src.Calls())

	eng.ClearCaches()
	eng.FetchPrices(context.Background(), []string{"AAPL"})
	assert.Greater(t, src.Calls(), calls)
}

func TestEngine_ValidateTickers(t *testing.T) {
	eng, _ := testEngine()

	results := eng.ValidateTickers(context.Background(), []string{"AAPL", "ZZZZZZ"})
	assert.True(t, results["AAPL"].Valid)
	assert.False(t, results["ZZZZZZ"].Valid)
}
