// Package engine is the orchestration facade: it wires the pricing service,
// the metrics calculator, the risk aggregator, and the advisor into the
// operations the server, scheduler, and recorder consume.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"PortfolioSentinel/internal/advisor"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/pricing"
	"PortfolioSentinel/internal/risk"
)

// Options control the analytical defaults applied to every run.
type Options struct {
	Benchmarks    []string
	Period        string
	Interval      string
	RiskFree      float64
	VaRConfidence float64
	MoversCount   int
}

// Report is the full output of one portfolio refresh.
type Report struct {
	Table           model.Table              `json:"table"`
	Summary         model.RefreshSummary     `json:"summary"`
	Sharpe          float64                  `json:"sharpe"`
	ValueAtRisk     float64                  `json:"value_at_risk"`
	Recommendations []model.Recommendation   `json:"recommendations"`
	Breakdown       []advisor.TypeAllocation `json:"breakdown"`
	TopMovers       []model.MetricsRow       `json:"top_movers"`
	WorstMovers     []model.MetricsRow       `json:"worst_movers"`
	Rebalance       *advisor.RebalancePlan   `json:"rebalance,omitempty"`
	GeneratedAt     time.Time                `json:"generated_at"`
}

// Engine holds the long-lived services and the last computed report.
type Engine struct {
	pricing *pricing.Service
	calc    *metrics.Calculator
	risk    *risk.Aggregator
	opts    Options
	log     zerolog.Logger

	mu   sync.RWMutex
	last *Report
}

// New builds an engine over a pricing service. The metrics calculator and
// risk aggregator share the service's history cache through it.
func New(svc *pricing.Service, opts Options, log zerolog.Logger) *Engine {
	if opts.Period == "" {
		opts.Period = "1y"
	}
	if opts.Interval == "" {
		opts.Interval = "1d"
	}
	if opts.VaRConfidence == 0 {
		opts.VaRConfidence = 0.95
	}
	if opts.MoversCount == 0 {
		opts.MoversCount = 3
	}
	return &Engine{
		pricing: svc,
		calc:    metrics.NewCalculator(svc, opts.RiskFree, log),
		risk:    risk.New(svc, opts.RiskFree, log),
		opts:    opts,
		log:     log.With().Str("component", "engine").Logger(),
	}
}

// FetchPrices returns current prices for the tickers, cache-first.
func (e *Engine) FetchPrices(ctx context.Context, tickers []string) map[string]float64 {
	return e.pricing.Prices(ctx, tickers)
}

// FetchHistory returns the daily close series for one ticker.
func (e *Engine) FetchHistory(ctx context.Context, ticker, period string) model.Series {
	if period == "" {
		period = e.opts.Period
	}
	return e.pricing.History(ctx, ticker, period, e.opts.Interval)
}

// ValidateTickers checks each ticker for tradability.
func (e *Engine) ValidateTickers(ctx context.Context, tickers []string) map[string]model.ValidationResult {
	return e.pricing.Validate(ctx, tickers)
}

// ComputeMetrics produces the basic table: prices, values, P/L, weights.
func (e *Engine) ComputeMetrics(ctx context.Context, holdings []model.Holding) (model.Table, int) {
	prices := e.pricing.Prices(ctx, tickersOf(holdings))
	return metrics.Compute(holdings, prices)
}

// ComputeEnhancedMetrics adds the technical columns on top of the basic
// table, using the first benchmark that produced data.
func (e *Engine) ComputeEnhancedMetrics(ctx context.Context, holdings []model.Holding) (model.Table, int) {
	prices := e.pricing.Prices(ctx, tickersOf(holdings))
	benchData := e.pricing.Benchmark(ctx, e.opts.Benchmarks, e.opts.Period)
	benchmark := pricing.PrimaryBenchmark(e.opts.Benchmarks, benchData)
	return e.calc.Enhanced(ctx, holdings, prices, benchmark, e.opts.Period)
}

// PortfolioSharpe computes the annualized portfolio-level Sharpe ratio.
func (e *Engine) PortfolioSharpe(ctx context.Context, table model.Table) float64 {
	return e.risk.PortfolioSharpe(ctx, table, e.opts.Period)
}

// ValueAtRisk computes historical 1-day VaR in dollars at the configured
// confidence level.
func (e *Engine) ValueAtRisk(ctx context.Context, table model.Table) float64 {
	return e.risk.ValueAtRisk(ctx, table, e.opts.VaRConfidence, e.opts.Period)
}

// Recommendations evaluates the advisory rules against a table.
func (e *Engine) Recommendations(table model.Table) []model.Recommendation {
	return advisor.Generate(table)
}

// Refresh runs the full pipeline for the holdings and stores the report as
// the engine's latest.
func (e *Engine) Refresh(ctx context.Context, holdings []model.Holding) *Report {
	started := time.Now()
	table, dropped := e.ComputeEnhancedMetrics(ctx, holdings)

	sharpe := e.PortfolioSharpe(ctx, table)
	valueAtRisk := e.ValueAtRisk(ctx, table)

	top, worst := advisor.Movers(table, e.opts.MoversCount)
	report := &Report{
		Table: table,
		Summary: model.RefreshSummary{
			Holdings:         len(holdings),
			DroppedRows:      dropped,
			UnresolvedPrices: table.UnresolvedPrices(),
			RiskComputed:     !math.IsNaN(sharpe) || !math.IsNaN(valueAtRisk),
		},
		Sharpe:          sharpe,
		ValueAtRisk:     valueAtRisk,
		Recommendations: advisor.Generate(table),
		Breakdown:       advisor.Breakdown(table),
		TopMovers:       top,
		WorstMovers:     worst,
		Rebalance:       advisor.Rebalance(table),
		GeneratedAt:     time.Now().UTC(),
	}

	e.mu.Lock()
	e.last = report
	e.mu.Unlock()

	e.log.Info().
		Int("holdings", len(holdings)).
		Int("rows", len(table)).
		Int("dropped", dropped).
		Int("unresolved", report.Summary.UnresolvedPrices).
		Dur("elapsed", time.Since(started)).
		Msg("portfolio refreshed")

	return report
}

// Last returns the most recent report, or nil before the first refresh.
func (e *Engine) Last() *Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// ClearCaches drops every cache held by the pricing service.
func (e *Engine) ClearCaches() {
	e.pricing.ClearCaches()
}

func tickersOf(holdings []model.Holding) []string {
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, h.Ticker)
	}
	return out
}
