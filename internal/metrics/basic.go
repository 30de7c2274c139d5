// Package metrics computes per-holding portfolio metrics: value and P/L
// from a supplied price map, technical and risk statistics from historical
// series. Every function is total; missing inputs surface as NaN fields.
package metrics

import (
	"math"
	"strings"

	"PortfolioSentinel/internal/assets"
	"PortfolioSentinel/internal/model"
)

// Compute builds the basic metrics table from a holding list and a current
// price map. Rows with an empty ticker, non-finite numbers, or a purchase
// price or quantity <= 0 are dropped; the dropped count is returned so the
// caller can surface it.
func Compute(holdings []model.Holding, prices map[string]float64) (model.Table, int) {
	table := make(model.Table, 0, len(holdings))
	dropped := 0

	for _, h := range holdings {
		ticker := strings.ToUpper(strings.TrimSpace(h.Ticker))
		if ticker == "" || !validPositive(h.PurchasePrice) || !validPositive(h.Quantity) {
			dropped++
			continue
		}

		current, ok := prices[ticker]
		if !ok {
			current = math.NaN()
		}

		row := model.MetricsRow{
			Ticker:        ticker,
			AssetType:     strings.TrimSpace(h.AssetType),
			PurchasePrice: h.PurchasePrice,
			Quantity:      h.Quantity,
			CurrentPrice:  current,
			TotalValue:    current * h.Quantity,
			CostBasis:     h.PurchasePrice * h.Quantity,

			RSI:        math.NaN(),
			Volatility: math.NaN(),
			Beta:       math.NaN(),
			Alpha:      math.NaN(),
			Sharpe:     math.NaN(),
			SMA20:      math.NaN(),
			SMA50:      math.NaN(),
		}

		row.PL = row.TotalValue - row.CostBasis
		if row.CostBasis > 0 {
			row.PLPct = (row.TotalValue/row.CostBasis - 1.0) * 100.0
		} else {
			row.PLPct = math.NaN()
		}

		row.PriceChange = current - h.PurchasePrice
		if h.PurchasePrice > 0 {
			row.PriceChangePct = (current/h.PurchasePrice - 1.0) * 100.0
		} else {
			row.PriceChangePct = math.NaN()
		}

		if name, ok := assets.Lookup(ticker); ok {
			row.AssetName = name
		}

		table = append(table, row)
	}

	// Weights over the whole table; NaN when the portfolio has no value.
	total := table.TotalValue()
	for i := range table {
		if total > 0 {
			table[i].WeightPct = table[i].TotalValue / total * 100.0
		} else {
			table[i].WeightPct = math.NaN()
		}
	}

	return table, dropped
}

func validPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
