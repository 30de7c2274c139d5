package recorder

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordSnapshot(t *testing.T) {
	r := openTestRecorder(t)

	report := &engine.Report{
		Table: model.Table{
			{Ticker: "AAPL", AssetType: "stock", CurrentPrice: 165, TotalValue: 1650, PLPct: 10, WeightPct: 44.6, RSI: 55, Volatility: 18, Beta: 1.1, Alpha: 0.02, Sharpe: 1.3},
			{Ticker: "MSFT", AssetType: "stock", CurrentPrice: math.NaN(), TotalValue: math.NaN(), PLPct: math.NaN(), WeightPct: math.NaN(), RSI: math.NaN(), Volatility: math.NaN(), Beta: math.NaN(), Alpha: math.NaN(), Sharpe: math.NaN()},
		},
		Summary:     model.RefreshSummary{Holdings: 2, UnresolvedPrices: 1},
		Sharpe:      1.2,
		ValueAtRisk: 45.6,
	}
	require.NoError(t, r.RecordSnapshot(report))

	var snapshots, rows int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM portfolio_snapshots`).Scan(&snapshots))
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM asset_metrics`).Scan(&rows))
	assert.Equal(t, 1, snapshots)
	assert.Equal(t, 2, rows)

	// NaN columns land as NULL, not as a driver error.
	var price *float64
	require.NoError(t, r.db.QueryRow(`SELECT current_price FROM asset_metrics WHERE ticker = 'MSFT'`).Scan(&price))
	assert.Nil(t, price)

	require.NoError(t, r.db.QueryRow(`SELECT current_price FROM asset_metrics WHERE ticker = 'AAPL'`).Scan(&price))
	require.NotNil(t, price)
	assert.InDelta(t, 165.0, *price, 1e-9)
}

func TestRecordSnapshot_NaNRiskColumns(t *testing.T) {
	r := openTestRecorder(t)

	report := &engine.Report{
		Table:       model.Table{{Ticker: "AAPL", TotalValue: 1650}},
		Summary:     model.RefreshSummary{Holdings: 1},
		Sharpe:      math.NaN(),
		ValueAtRisk: math.NaN(),
	}
	require.NoError(t, r.RecordSnapshot(report))

	var sharpe *float64
	require.NoError(t, r.db.QueryRow(`SELECT sharpe FROM portfolio_snapshots`).Scan(&sharpe))
	assert.Nil(t, sharpe)
}

func TestRecordSnapshot_MultipleRuns(t *testing.T) {
	r := openTestRecorder(t)

	report := &engine.Report{Table: model.Table{{Ticker: "AAPL", TotalValue: 100}}}
	require.NoError(t, r.RecordSnapshot(report))
	require.NoError(t, r.RecordSnapshot(report))

	var snapshots int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM portfolio_snapshots`).Scan(&snapshots))
	assert.Equal(t, 2, snapshots)
}
