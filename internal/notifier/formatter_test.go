package notifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/model"
)

func digestReport() *engine.Report {
	table := model.Table{
		{Ticker: "AAPL", AssetType: "stock", TotalValue: 1650, PLPct: 10},
		{Ticker: "MSFT", AssetType: "stock", TotalValue: 2050, PLPct: -5},
	}
	return &engine.Report{
		Table:       table,
		Summary:     model.RefreshSummary{Holdings: 2, RiskComputed: true},
		Sharpe:      1.23,
		ValueAtRisk: 45.6,
		TopMovers:   []model.MetricsRow{table[0]},
		WorstMovers: []model.MetricsRow{table[1]},
	}
}

func TestFormatRefreshDigest(t *testing.T) {
	msg := FormatRefreshDigest(digestReport())

	assert.Contains(t, msg, "Total value: $3700.00")
	assert.Contains(t, msg, "Positions: 2")
	assert.Contains(t, msg, "Sharpe: 1.23")
	assert.Contains(t, msg, "1-day VaR: $45.60")
	assert.Contains(t, msg, "AAPL +10.0%")
	assert.Contains(t, msg, "MSFT -5.0%")
	assert.Contains(t, msg, "✅ No warnings")
	assert.NotContains(t, msg, "Attention")
}

func TestFormatRefreshDigest_Warnings(t *testing.T) {
	report := digestReport()
	report.Recommendations = []model.Recommendation{
		{Severity: model.SeverityWarning, Title: "High Concentration Risk", Description: "stock is 80.0% of the portfolio"},
		{Severity: model.SeverityInfo, Title: "Monitor Concentration", Description: "watch the stock sleeve"},
	}

	msg := FormatRefreshDigest(report)
	assert.Contains(t, msg, "⚠️ <b>Attention:</b>")
	assert.Contains(t, msg, "High Concentration Risk")
	assert.NotContains(t, msg, "Monitor Concentration", "info items stay out of the digest")
}

func TestFormatRefreshDigest_NaNRiskOmitted(t *testing.T) {
	report := digestReport()
	report.Sharpe = math.NaN()
	report.ValueAtRisk = math.NaN()
	report.Summary.DroppedRows = 1
	report.Summary.UnresolvedPrices = 1

	msg := FormatRefreshDigest(report)
	assert.NotContains(t, msg, "Sharpe:")
	assert.NotContains(t, msg, "VaR")
	assert.Contains(t, msg, "(1 dropped)")
	assert.Contains(t, msg, "Unpriced positions: 1")
}
