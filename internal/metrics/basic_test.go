package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func TestCompute_BasicTable(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "AAPL", PurchasePrice: 150, Quantity: 10, AssetType: "stock"},
		{Ticker: "SPY", PurchasePrice: 400, Quantity: 5, AssetType: "etf"},
	}
	prices := map[string]float64{"AAPL": 165, "SPY": 380}

	table, dropped := Compute(holdings, prices)
	require.Len(t, table, 2)
	assert.Equal(t, 0, dropped)

	aapl := table[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, "Apple Inc.", aapl.AssetName)
	assert.InDelta(t, 1650.0, aapl.TotalValue, 1e-9)
	assert.InDelta(t, 1500.0, aapl.CostBasis, 1e-9)
	assert.InDelta(t, 150.0, aapl.PL, 1e-9)
	assert.InDelta(t, 10.0, aapl.PLPct, 1e-9)

	spy := table[1]
	assert.InDelta(t, 1900.0, spy.TotalValue, 1e-9)
	assert.InDelta(t, -100.0, spy.PL, 1e-9)
	assert.InDelta(t, -5.0, spy.PLPct, 1e-9)

	assert.InDelta(t, 3550.0, table.TotalValue(), 1e-9)
	assert.InDelta(t, 1650.0/3550.0*100, aapl.WeightPct, 1e-9)
	assert.InDelta(t, 1900.0/3550.0*100, spy.WeightPct, 1e-9)
	assert.InDelta(t, 100.0, aapl.WeightPct+spy.WeightPct, 1e-9)
}

func TestCompute_DropsInvalidHoldings(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "", PurchasePrice: 100, Quantity: 1},
		{Ticker: "AAPL", PurchasePrice: 0, Quantity: 1},
		{Ticker: "MSFT", PurchasePrice: 100, Quantity: -2},
		{Ticker: "SPY", PurchasePrice: math.NaN(), Quantity: 1},
		{Ticker: "VTI", PurchasePrice: 200, Quantity: 3},
	}
	prices := map[string]float64{"VTI": 210}

	table, dropped := Compute(holdings, prices)
	require.Len(t, table, 1)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, "VTI", table[0].Ticker)
}

func TestCompute_MissingPricePropagatesNaN(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "AAPL", PurchasePrice: 150, Quantity: 10},
		{Ticker: "NOPE", PurchasePrice: 50, Quantity: 2},
	}
	prices := map[string]float64{"AAPL": 165}

	table, dropped := Compute(holdings, prices)
	require.Len(t, table, 2)
	assert.Equal(t, 0, dropped)

	nope := table[1]
	assert.True(t, math.IsNaN(nope.CurrentPrice))
	assert.True(t, math.IsNaN(nope.TotalValue))
	assert.True(t, math.IsNaN(nope.PL))
	assert.True(t, math.IsNaN(nope.PLPct))
	assert.True(t, math.IsNaN(nope.WeightPct))

	// The priced row still carries a weight against the resolvable total.
	assert.InDelta(t, 100.0, table[0].WeightPct, 1e-9)
	assert.Equal(t, 1, table.UnresolvedPrices())
}

func TestCompute_NormalizesTickers(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "  aapl ", PurchasePrice: 150, Quantity: 1},
	}
	prices := map[string]float64{"AAPL": 160}

	table, _ := Compute(holdings, prices)
	require.Len(t, table, 1)
	assert.Equal(t, "AAPL", table[0].Ticker)
	assert.InDelta(t, 160.0, table[0].CurrentPrice, 1e-9)
}

func TestCompute_ZeroValuePortfolioHasNaNWeights(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "AAA", PurchasePrice: 10, Quantity: 1},
		{Ticker: "BBB", PurchasePrice: 10, Quantity: 1},
	}
	table, _ := Compute(holdings, map[string]float64{})
	require.Len(t, table, 2)
	for _, row := range table {
		assert.True(t, math.IsNaN(row.WeightPct))
	}
}
