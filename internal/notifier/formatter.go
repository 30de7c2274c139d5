package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/model"
)

// FormatRefreshDigest formats a refresh report into a Telegram message.
func FormatRefreshDigest(report *engine.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Portfolio Digest</b> | %s\n\n", time.Now().Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Total value: $%.2f\n", report.Table.TotalValue()))
	b.WriteString(fmt.Sprintf("Positions: %d", len(report.Table)))
	if report.Summary.DroppedRows > 0 {
		b.WriteString(fmt.Sprintf(" (%d dropped)", report.Summary.DroppedRows))
	}
	b.WriteString("\n")
	if report.Summary.UnresolvedPrices > 0 {
		b.WriteString(fmt.Sprintf("⚠️ Unpriced positions: %d\n", report.Summary.UnresolvedPrices))
	}

	if !math.IsNaN(report.Sharpe) {
		b.WriteString(fmt.Sprintf("Sharpe: %.2f\n", report.Sharpe))
	}
	if !math.IsNaN(report.ValueAtRisk) {
		b.WriteString(fmt.Sprintf("1-day VaR: $%.2f\n", report.ValueAtRisk))
	}

	if len(report.TopMovers) > 0 {
		b.WriteString("\n📈 <b>Top movers:</b>\n")
		for _, r := range report.TopMovers {
			b.WriteString(fmt.Sprintf("  %s %+.1f%%\n", r.Ticker, r.PLPct))
		}
	}
	if len(report.WorstMovers) > 0 {
		b.WriteString("📉 <b>Worst movers:</b>\n")
		for _, r := range report.WorstMovers {
			b.WriteString(fmt.Sprintf("  %s %+.1f%%\n", r.Ticker, r.PLPct))
		}
	}

	warnings := filterBySeverity(report.Recommendations, model.SeverityWarning)
	if len(warnings) > 0 {
		b.WriteString("\n⚠️ <b>Attention:</b>\n")
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  • %s: %s\n", w.Title, w.Description))
		}
	} else {
		b.WriteString("\n✅ No warnings\n")
	}

	return b.String()
}

func filterBySeverity(recs []model.Recommendation, severity string) []model.Recommendation {
	var out []model.Recommendation
	for _, r := range recs {
		if r.Severity == severity {
			out = append(out, r)
		}
	}
	return out
}
