package metrics

import (
	"context"

	"github.com/rs/zerolog"

	"PortfolioSentinel/internal/model"
)

// HistoryProvider supplies a (possibly empty) historical series per ticker.
type HistoryProvider interface {
	History(ctx context.Context, ticker, period, interval string) model.Series
}

// Calculator computes the full per-holding metrics table, pulling
// historical series through a HistoryProvider.
type Calculator struct {
	histories HistoryProvider
	riskFree  float64
	log       zerolog.Logger
}

// NewCalculator creates a Calculator with the given annual risk-free rate.
func NewCalculator(histories HistoryProvider, riskFree float64, log zerolog.Logger) *Calculator {
	return &Calculator{
		histories: histories,
		riskFree:  riskFree,
		log:       log.With().Str("component", "metrics").Logger(),
	}
}

// Enhanced computes basic metrics and then, per ticker, the technical and
// risk statistics from its historical series. Each statistic is skipped
// independently when its inputs are insufficient; a short or missing series
// leaves the whole technical block NaN for that row.
func (c *Calculator) Enhanced(ctx context.Context, holdings []model.Holding, prices map[string]float64, benchmark model.Series, period string) (model.Table, int) {
	table, dropped := Compute(holdings, prices)
	if len(table) == 0 {
		return table, dropped
	}

	c.log.Info().Int("assets", len(table)).Str("period", period).Msg("computing technical metrics")

	for i := range table {
		row := &table[i]
		series := c.histories.History(ctx, row.Ticker, period, "1d")
		if len(series) <= minSeriesPoints {
			c.log.Debug().Str("ticker", row.Ticker).Int("points", len(series)).Msg("series too short for technical metrics")
			continue
		}

		closes := series.Prices()
		row.RSI = RSI(closes, RSIPeriod)
		row.Volatility = Volatility(series, true)
		row.SMA20 = SMA(closes, 20)
		row.SMA50 = SMA(closes, 50)

		if len(benchmark) > 0 {
			row.Beta, row.Alpha = BetaAlpha(series, benchmark, c.riskFree)
		}

		row.Sharpe = SharpeRatio(series, row.Volatility, c.riskFree)
	}

	return table, dropped
}

// RiskFreeRate exposes the configured annual risk-free rate.
func (c *Calculator) RiskFreeRate() float64 { return c.riskFree }
