// Package advisor turns a computed metrics table into human-readable
// advisory output: rule-based recommendations, allocation breakdowns,
// top/worst movers, and a naive rebalancing suggestion.
package advisor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"PortfolioSentinel/internal/model"
)

// rule is one independent check over the metrics table. Rules never depend
// on each other's output; they are evaluated in order and each may emit any
// number of notes.
type rule func(model.Table) []model.Recommendation

// rules is the ordered policy table.
var rules = []rule{
	concentrationRule,
	performanceRule,
	volatilityRule,
	rsiRule,
	betaRule,
	sharpeRule,
	sizeRule,
	positionSizeRule,
	missingPriceRule,
}

// Generate evaluates every rule against the table. When nothing fired, or
// only favorable notes did, a generic health note is appended.
func Generate(table model.Table) []model.Recommendation {
	if len(table) == 0 {
		return nil
	}

	var recs []model.Recommendation
	for _, r := range rules {
		recs = append(recs, r(table)...)
	}

	onlyFavorable := true
	for _, r := range recs {
		if r.Severity == model.SeverityWarning {
			onlyFavorable = false
			break
		}
	}
	if onlyFavorable {
		recs = append(recs, model.Recommendation{
			Severity: model.SeveritySuccess,
			Title:    "Portfolio Health Check",
			Description: fmt.Sprintf("Portfolio appears well-balanced with %d assets valued at $%.0f. Continue regular monitoring and rebalancing.",
				len(table), table.TotalValue()),
		})
	}

	return recs
}

func concentrationRule(table model.Table) []model.Recommendation {
	byType := weightByType(table)
	if len(byType) == 0 {
		return nil
	}

	dominant, maxWeight := "", 0.0
	for assetType, weight := range byType {
		if weight > maxWeight {
			dominant, maxWeight = assetType, weight
		}
	}

	switch {
	case maxWeight > 70:
		return []model.Recommendation{{
			Severity: model.SeverityWarning,
			Title:    "High Concentration Risk",
			Description: fmt.Sprintf("Your portfolio is heavily concentrated in %s (%.1f%%). Consider diversifying into other asset classes to reduce risk.",
				dominant, maxWeight),
		}}
	case maxWeight > 50:
		return []model.Recommendation{{
			Severity: model.SeverityInfo,
			Title:    "Monitor Concentration",
			Description: fmt.Sprintf("Significant exposure to %s (%.1f%%). Monitor this allocation and consider rebalancing if it grows further.",
				dominant, maxWeight),
		}}
	}
	return nil
}

func performanceRule(table model.Table) []model.Recommendation {
	var recs []model.Recommendation

	losers := tickersRanked(table, func(r model.MetricsRow) float64 { return r.PLPct },
		func(v float64) bool { return v < -20 }, true, 3)
	if len(losers) > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityWarning,
			Title:    "Significant Losses",
			Description: fmt.Sprintf("These positions have losses >20%%: %s. Review your investment thesis and consider stop-loss strategies.",
				strings.Join(losers, ", ")),
		})
	}

	winners := tickersRanked(table, func(r model.MetricsRow) float64 { return r.PLPct },
		func(v float64) bool { return v > 100 }, false, 3)
	if len(winners) > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeveritySuccess,
			Title:    "Exceptional Performers",
			Description: fmt.Sprintf("These positions have gains >100%%: %s. Consider taking partial profits to lock in gains.",
				strings.Join(winners, ", ")),
		})
	}

	return recs
}

func volatilityRule(table model.Table) []model.Recommendation {
	var sum float64
	var count int
	for _, r := range table {
		if !math.IsNaN(r.Volatility) && r.Volatility > 40 {
			sum += r.Volatility
			count++
		}
	}
	if count == 0 {
		return nil
	}

	tickers := tickersRanked(table, func(r model.MetricsRow) float64 { return r.Volatility },
		func(v float64) bool { return v > 40 }, false, 5)
	return []model.Recommendation{{
		Severity: model.SeverityWarning,
		Title:    "High Volatility Alert",
		Description: fmt.Sprintf("High volatility assets (avg %.1f%%): %s. Consider position sizing and risk management.",
			sum/float64(count), strings.Join(tickers, ", ")),
	}}
}

func rsiRule(table model.Table) []model.Recommendation {
	var recs []model.Recommendation

	oversold := tickersRanked(table, func(r model.MetricsRow) float64 { return r.RSI },
		func(v float64) bool { return v < 30 }, true, 3)
	if len(oversold) > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityInfo,
			Title:    "Potentially Oversold Assets",
			Description: fmt.Sprintf("RSI < 30: %s. Research for potential buying opportunities, but confirm with other indicators.",
				strings.Join(oversold, ", ")),
		})
	}

	overbought := tickersRanked(table, func(r model.MetricsRow) float64 { return r.RSI },
		func(v float64) bool { return v > 70 }, false, 3)
	if len(overbought) > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityInfo,
			Title:    "Potentially Overbought Assets",
			Description: fmt.Sprintf("RSI > 70: %s. Monitor for potential corrections or consider profit-taking.",
				strings.Join(overbought, ", ")),
		})
	}

	return recs
}

func betaRule(table model.Table) []model.Recommendation {
	var recs []model.Recommendation

	highCount, highWeight := 0, 0.0
	for _, r := range table {
		if !math.IsNaN(r.Beta) && r.Beta > 1.5 {
			highCount++
			if !math.IsNaN(r.WeightPct) {
				highWeight += r.WeightPct
			}
		}
	}
	if highCount > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityInfo,
			Title:    "High Beta Exposure",
			Description: fmt.Sprintf("%d high-beta assets (>1.5) representing %.1f%% of portfolio. These amplify market movements.",
				highCount, highWeight),
		})
	}

	if len(table) > 5 {
		defensive := tickersRanked(table, func(r model.MetricsRow) float64 { return r.Beta },
			func(v float64) bool { return v < 0.5 }, true, 3)
		if len(defensive) > 0 {
			recs = append(recs, model.Recommendation{
				Severity: model.SeveritySuccess,
				Title:    "Defensive Positions",
				Description: fmt.Sprintf("Low-beta assets provide stability: %s. Good for portfolio balance during market volatility.",
					strings.Join(defensive, ", ")),
			})
		}
	}

	return recs
}

func sharpeRule(table model.Table) []model.Recommendation {
	var recs []model.Recommendation

	strong := tickersRanked(table, func(r model.MetricsRow) float64 { return r.Sharpe },
		func(v float64) bool { return v > 1.0 }, false, 3)
	if len(strong) > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeveritySuccess,
			Title:    "Strong Risk-Adjusted Returns",
			Description: fmt.Sprintf("Excellent Sharpe ratios (>1.0): %s. These assets provide good returns per unit of risk.",
				strings.Join(strong, ", ")),
		})
	}

	poor := tickersRanked(table, func(r model.MetricsRow) float64 { return r.Sharpe },
		func(v float64) bool { return v < 0 }, true, 3)
	if len(poor) > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityWarning,
			Title:    "Poor Risk-Adjusted Returns",
			Description: fmt.Sprintf("Negative Sharpe ratios: %s. Consider whether these positions justify their risk.",
				strings.Join(poor, ", ")),
		})
	}

	return recs
}

func sizeRule(table model.Table) []model.Recommendation {
	switch {
	case len(table) < 5:
		return []model.Recommendation{{
			Severity: model.SeverityInfo,
			Title:    "Small Portfolio",
			Description: fmt.Sprintf("Only %d assets. Consider adding more positions for better diversification across sectors and asset classes.",
				len(table)),
		}}
	case len(table) > 50:
		return []model.Recommendation{{
			Severity: model.SeverityInfo,
			Title:    "Large Portfolio",
			Description: fmt.Sprintf("%d assets may be difficult to monitor. Consider consolidating into ETFs or focusing on your highest-conviction positions.",
				len(table)),
		}}
	}
	return nil
}

func positionSizeRule(table model.Table) []model.Recommendation {
	var large []string
	for _, r := range table {
		if !math.IsNaN(r.WeightPct) && r.WeightPct > 10 {
			large = append(large, r.Ticker)
		}
	}
	if len(large) == 0 {
		return nil
	}
	return []model.Recommendation{{
		Severity: model.SeverityWarning,
		Title:    "Large Position Sizes",
		Description: fmt.Sprintf("Positions >10%% of portfolio: %s. Large positions increase concentration risk.",
			strings.Join(large, ", ")),
	}}
}

func missingPriceRule(table model.Table) []model.Recommendation {
	var missing []string
	for _, r := range table {
		if math.IsNaN(r.CurrentPrice) {
			missing = append(missing, r.Ticker)
			if len(missing) == 5 {
				break
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []model.Recommendation{{
		Severity: model.SeverityWarning,
		Title:    "Missing Price Data",
		Description: fmt.Sprintf("No current prices for: %s. Verify ticker symbols or check if assets are delisted.",
			strings.Join(missing, ", ")),
	}}
}

// weightByType sums non-NaN weights per asset type.
func weightByType(table model.Table) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range table {
		if r.AssetType == "" || math.IsNaN(r.WeightPct) {
			continue
		}
		out[r.AssetType] += r.WeightPct
	}
	return out
}

// tickersRanked returns up to limit tickers whose value passes the filter,
// ordered ascending or descending by that value. NaN values never pass.
func tickersRanked(table model.Table, value func(model.MetricsRow) float64, pass func(float64) bool, ascending bool, limit int) []string {
	type scored struct {
		ticker string
		v      float64
	}
	var matched []scored
	for _, r := range table {
		v := value(r)
		if math.IsNaN(v) || !pass(v) {
			continue
		}
		matched = append(matched, scored{r.Ticker, v})
	}
	sort.Slice(matched, func(i, j int) bool {
		if ascending {
			return matched[i].v < matched[j].v
		}
		return matched[i].v > matched[j].v
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]string, len(matched))
	for i, m := range matched {
		out[i] = m.ticker
	}
	return out
}
