// Package risk aggregates per-holding metrics into portfolio-level risk
// numbers from weighted, date-aligned historical returns.
package risk

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/model"
)

const (
	// minUsableTickers is the smallest number of tickers with usable
	// history for a portfolio-level statistic.
	minUsableTickers = 2

	// minAlignedRows is the smallest complete-rows sample accepted.
	minAlignedRows = 10

	// minSeriesPoints mirrors the per-asset technical threshold.
	minSeriesPoints = 20
)

// Aggregator computes portfolio Sharpe and Value-at-Risk.
type Aggregator struct {
	histories metrics.HistoryProvider
	riskFree  float64
	log       zerolog.Logger
}

// New creates an Aggregator with the given annual risk-free rate.
func New(histories metrics.HistoryProvider, riskFree float64, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		histories: histories,
		riskFree:  riskFree,
		log:       log.With().Str("component", "risk").Logger(),
	}
}

// PortfolioSharpe computes the annualized Sharpe ratio of the weighted
// portfolio return series. NaN when fewer than two tickers have usable
// history, the aligned sample is too small, the return stdev is zero, or
// the result is implausibly large.
func (a *Aggregator) PortfolioSharpe(ctx context.Context, table model.Table, period string) float64 {
	returns := a.portfolioReturns(ctx, table, period)
	if len(returns) == 0 {
		return math.NaN()
	}

	dailyRF := a.riskFree / metrics.TradingDays
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRF
	}

	stdev := stat.StdDev(excess, nil)
	if stdev == 0 || math.IsNaN(stdev) {
		return math.NaN()
	}

	sharpe := stat.Mean(excess, nil) / stdev * math.Sqrt(metrics.TradingDays)
	if math.IsNaN(sharpe) || math.Abs(sharpe) > 10 {
		return math.NaN()
	}
	return sharpe
}

// ValueAtRisk computes the empirical VaR of the weighted portfolio return
// distribution at the given confidence, expressed in currency against the
// table's total value. NaN under the same data-insufficiency conditions as
// PortfolioSharpe.
func (a *Aggregator) ValueAtRisk(ctx context.Context, table model.Table, confidence float64, period string) float64 {
	totalValue := table.TotalValue()
	if totalValue <= 0 {
		return math.NaN()
	}

	returns := a.portfolioReturns(ctx, table, period)
	if len(returns) == 0 {
		return math.NaN()
	}

	varReturn := percentile(returns, (1.0-confidence)*100.0)
	varCurrency := math.Abs(varReturn * totalValue)
	if math.IsNaN(varCurrency) {
		return math.NaN()
	}
	return varCurrency
}

// portfolioReturns builds the weighted daily portfolio return series:
// complete-rows date join across every ticker with usable history, with
// weights renormalized over only those tickers. Returns nil when the data
// is insufficient.
func (a *Aggregator) portfolioReturns(ctx context.Context, table model.Table, period string) []float64 {
	type tickerReturns struct {
		weight  float64
		returns map[time.Time]float64
	}

	usable := make(map[string]tickerReturns)
	weightSum := 0.0
	for _, row := range table {
		if row.Ticker == "" || math.IsNaN(row.WeightPct) {
			continue
		}
		series := a.histories.History(ctx, row.Ticker, period, "1d")
		if len(series) <= minSeriesPoints {
			continue
		}
		ret := series.DatedReturns()
		if len(ret) == 0 {
			continue
		}
		usable[row.Ticker] = tickerReturns{weight: row.WeightPct / 100.0, returns: ret}
		weightSum += row.WeightPct / 100.0
	}

	if len(usable) < minUsableTickers || weightSum == 0 {
		a.log.Debug().Int("usable", len(usable)).Msg("insufficient history for portfolio statistics")
		return nil
	}

	// Complete rows only: a date participates when every usable ticker has
	// a return for it. Candidate dates come from any one ticker; the
	// intersection filter below makes the choice irrelevant.
	var dates []time.Time
	for _, tr := range usable {
		for d := range tr.returns {
			dates = append(dates, d)
		}
		break
	}
	var aligned []time.Time
	for _, d := range dates {
		inAll := true
		for _, tr := range usable {
			if _, ok := tr.returns[d]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			aligned = append(aligned, d)
		}
	}
	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Before(aligned[j]) })

	if len(aligned) < minAlignedRows {
		a.log.Debug().Int("rows", len(aligned)).Msg("aligned return sample too small")
		return nil
	}

	// Renormalize weights over the tickers that actually have data, then
	// collapse to one portfolio return per date.
	out := make([]float64, len(aligned))
	for i, d := range aligned {
		sum := 0.0
		for _, tr := range usable {
			sum += (tr.weight / weightSum) * tr.returns[d]
		}
		out[i] = sum
	}
	return out
}

// percentile computes the p-th percentile (0-100) with linear
// interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100.0 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
