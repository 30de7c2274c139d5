package advisor

import (
	"sort"
	"strings"

	"PortfolioSentinel/internal/model"
)

// baseTargets is the default allocation policy by asset type keyword.
// Types are matched by substring so "index etf" lands on the etf target.
var baseTargets = []struct {
	keyword string
	pct     float64
}{
	{"stock", 40},
	{"etf", 25},
	{"bond", 20},
	{"crypto", 5},
	{"reit", 5},
	{"commodity", 3},
	{"cash", 2},
}

const defaultTargetPct = 10

// Allocation pairs an asset type with a portfolio percentage.
type Allocation struct {
	AssetType string  `json:"asset_type"`
	Pct       float64 `json:"pct"`
}

// RebalancePlan compares current weights with policy targets.
type RebalancePlan struct {
	Current   []Allocation `json:"current"`
	Suggested []Allocation `json:"suggested"`
}

// Rebalance builds target allocations for the asset types actually held and
// normalizes them to 100%. Returns nil when the table carries no weights.
func Rebalance(table model.Table) *RebalancePlan {
	current := weightByType(table)
	if len(current) == 0 {
		return nil
	}

	targets := make(map[string]float64, len(current))
	var targetSum float64
	for assetType := range current {
		pct := targetFor(assetType)
		targets[assetType] = pct
		targetSum += pct
	}

	plan := &RebalancePlan{}
	for assetType, weight := range current {
		plan.Current = append(plan.Current, Allocation{assetType, weight})
		plan.Suggested = append(plan.Suggested, Allocation{assetType, targets[assetType] / targetSum * 100})
	}
	sort.Slice(plan.Current, func(i, j int) bool { return plan.Current[i].Pct > plan.Current[j].Pct })
	sort.Slice(plan.Suggested, func(i, j int) bool { return plan.Suggested[i].Pct > plan.Suggested[j].Pct })
	return plan
}

func targetFor(assetType string) float64 {
	lower := strings.ToLower(assetType)
	for _, t := range baseTargets {
		if strings.Contains(lower, t.keyword) {
			return t.pct
		}
	}
	return defaultTargetPct
}
