package model

import "math"

// MetricsRow holds all computed metrics for one valid holding. Every float
// field may be NaN when its inputs were unavailable or insufficient.
type MetricsRow struct {
	Ticker        string
	AssetType     string
	AssetName     string
	PurchasePrice float64
	Quantity      float64

	CurrentPrice   float64
	TotalValue     float64
	CostBasis      float64
	PL             float64
	PLPct          float64
	WeightPct      float64
	PriceChange    float64
	PriceChangePct float64

	RSI        float64
	Volatility float64
	Beta       float64
	Alpha      float64
	Sharpe     float64
	SMA20      float64
	SMA50      float64
}

// Table is the full per-holding metrics table for one refresh.
type Table []MetricsRow

// TotalValue sums the non-NaN total values across all rows.
func (t Table) TotalValue() float64 {
	sum := 0.0
	for _, r := range t {
		if !math.IsNaN(r.TotalValue) {
			sum += r.TotalValue
		}
	}
	return sum
}

// UnresolvedPrices counts rows whose current price could not be fetched.
func (t Table) UnresolvedPrices() int {
	n := 0
	for _, r := range t {
		if math.IsNaN(r.CurrentPrice) {
			n++
		}
	}
	return n
}

// RefreshSummary reports data-quality facts about one refresh cycle; the
// caller decides whether any of them warrant a user-facing warning.
type RefreshSummary struct {
	Holdings         int  `json:"holdings"`
	DroppedRows      int  `json:"dropped_rows"`
	UnresolvedPrices int  `json:"unresolved_prices"`
	RiskComputed     bool `json:"risk_computed"`
}
