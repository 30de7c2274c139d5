package advisor

import (
	"math"
	"sort"

	"PortfolioSentinel/internal/model"
)

// TypeAllocation summarizes one asset type's share of the portfolio.
type TypeAllocation struct {
	AssetType  string  `json:"asset_type"`
	TotalValue float64 `json:"total_value"`
	Count      int     `json:"count"`
	WeightPct  float64 `json:"weight_pct"`
}

// Breakdown aggregates the table by asset type, largest allocation first.
// Rows without a resolvable value still count toward the position count.
func Breakdown(table model.Table) []TypeAllocation {
	byType := make(map[string]*TypeAllocation)
	for _, r := range table {
		assetType := r.AssetType
		if assetType == "" {
			assetType = "unknown"
		}
		a, ok := byType[assetType]
		if !ok {
			a = &TypeAllocation{AssetType: assetType}
			byType[assetType] = a
		}
		a.Count++
		if !math.IsNaN(r.TotalValue) {
			a.TotalValue += r.TotalValue
		}
		if !math.IsNaN(r.WeightPct) {
			a.WeightPct += r.WeightPct
		}
	}

	out := make([]TypeAllocation, 0, len(byType))
	for _, a := range byType {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalValue > out[j].TotalValue })
	return out
}

// Movers returns the best and worst performers by unrealized P/L percent,
// at most n each. Rows without a P/L figure are excluded.
func Movers(table model.Table, n int) (top, worst []model.MetricsRow) {
	ranked := make([]model.MetricsRow, 0, len(table))
	for _, r := range table {
		if !math.IsNaN(r.PLPct) {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].PLPct > ranked[j].PLPct })

	if n > len(ranked) {
		n = len(ranked)
	}
	top = append(top, ranked[:n]...)
	for i := 0; i < n; i++ {
		worst = append(worst, ranked[len(ranked)-1-i])
	}
	return top, worst
}
