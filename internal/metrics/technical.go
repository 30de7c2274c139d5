package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"PortfolioSentinel/internal/model"
)

const (
	// TradingDays is the annualization base for daily observations.
	TradingDays = 252

	// RSIPeriod is the default RSI lookback.
	RSIPeriod = 14

	// minSeriesPoints is the smallest series accepted for technical
	// metrics; shorter series leave every statistic NaN.
	minSeriesPoints = 20

	// minAlignedObservations is the smallest date-aligned sample accepted
	// for Beta/Alpha.
	minAlignedObservations = 10

	// maxPlausibleBeta, maxPlausibleAlpha, and maxPlausibleSharpe reject
	// coefficients that short pathological series sometimes produce.
	maxPlausibleBeta   = 10.0
	maxPlausibleAlpha  = 1.0
	maxPlausibleSharpe = 10.0
)

// RSI computes the Wilder-smoothed Relative Strength Index over the last
// value of the series. Needs at least period+1 prices. A series with no
// losses yields 100 when it gained and 50 when it was flat. Anything outside
// [0,100] is treated as a numerical pathology and reported as NaN.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return math.NaN()
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain > 0 {
			return 100.0
		}
		return 50.0
	}

	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if math.IsNaN(rsi) || rsi < 0 || rsi > 100 {
		return math.NaN()
	}
	return rsi
}

// Volatility computes the standard deviation of day-over-day percentage
// returns, as a percentage, annualized by sqrt(252) when requested.
// Non-finite returns are discarded before the computation.
func Volatility(series model.Series, annualize bool) float64 {
	returns := series.Returns()
	if len(returns) < 2 {
		return math.NaN()
	}

	vol := stat.StdDev(returns, nil)
	if math.IsNaN(vol) || vol <= 0 {
		return math.NaN()
	}
	if annualize {
		vol *= math.Sqrt(TradingDays)
	}
	return vol * 100.0
}

// BetaAlpha computes the asset's Beta and daily Alpha against a benchmark.
// Only dates present in both return series participate; fewer than 10
// aligned observations yields NaN for both. Implausible coefficients
// (|Beta| > 10, |Alpha| > 1) are rejected as NaN.
func BetaAlpha(asset, benchmark model.Series, annualRiskFree float64) (float64, float64) {
	assetRet, benchRet := alignReturns(asset, benchmark)
	if len(assetRet) < minAlignedObservations {
		return math.NaN(), math.NaN()
	}

	benchVar := stat.Variance(benchRet, nil)
	if benchVar == 0 || math.IsNaN(benchVar) {
		return math.NaN(), math.NaN()
	}
	beta := stat.Covariance(assetRet, benchRet, nil) / benchVar

	dailyRF := annualRiskFree / TradingDays
	expected := dailyRF + beta*(stat.Mean(benchRet, nil)-dailyRF)
	alpha := stat.Mean(assetRet, nil) - expected

	if math.IsNaN(beta) || math.Abs(beta) > maxPlausibleBeta {
		return math.NaN(), math.NaN()
	}
	if math.IsNaN(alpha) || math.Abs(alpha) > maxPlausibleAlpha {
		return beta, math.NaN()
	}
	return beta, alpha
}

// alignReturns inner-joins the two return series by date, ascending.
func alignReturns(asset, benchmark model.Series) ([]float64, []float64) {
	assetByDate := asset.DatedReturns()
	benchByDate := benchmark.DatedReturns()

	var dates []time.Time
	for d := range assetByDate {
		if _, ok := benchByDate[d]; ok {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	assetRet := make([]float64, len(dates))
	benchRet := make([]float64, len(dates))
	for i, d := range dates {
		assetRet[i] = assetByDate[d]
		benchRet[i] = benchByDate[d]
	}
	return assetRet, benchRet
}

// SharpeRatio computes the simplified per-asset Sharpe: annualized mean
// return in excess of the risk-free rate over the annualized volatility.
// volPct is the annualized volatility as a percentage.
func SharpeRatio(series model.Series, volPct, annualRiskFree float64) float64 {
	if math.IsNaN(volPct) || volPct <= 0 {
		return math.NaN()
	}
	returns := series.Returns()
	if len(returns) == 0 {
		return math.NaN()
	}

	annualReturn := stat.Mean(returns, nil) * TradingDays
	sharpe := (annualReturn - annualRiskFree) / (volPct / 100.0)
	if math.IsNaN(sharpe) || math.Abs(sharpe) >= maxPlausibleSharpe {
		return math.NaN()
	}
	return sharpe
}

// SMA returns the latest simple moving average over the period, NaN when
// the series is too short.
func SMA(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return math.NaN()
	}
	sma := talib.Sma(prices, period)
	if len(sma) == 0 {
		return math.NaN()
	}
	return sma[len(sma)-1]
}
