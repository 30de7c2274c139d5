package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"PortfolioSentinel/internal/marketdata"
	"PortfolioSentinel/internal/model"
)

// shortPeriod is the lookback used when only the most recent close matters.
const shortPeriod = "5d"

// maxBatchTopUp caps the size of the best-effort batched retry for tickers
// the per-ticker chain could not resolve.
const maxBatchTopUp = 10

// Fetcher resolves prices and series against a data source. Every method is
// total: failures degrade to NaN or an empty series, never to an error.
type Fetcher struct {
	src marketdata.Source
	log zerolog.Logger
}

// NewFetcher creates a fetcher. A nil source is valid and means "no provider
// configured": every lookup degrades immediately.
func NewFetcher(src marketdata.Source, log zerolog.Logger) *Fetcher {
	return &Fetcher{src: src, log: log.With().Str("component", "fetcher").Logger()}
}

// Available reports whether a data source is configured at all.
func (f *Fetcher) Available() bool { return f.src != nil }

// priceStrategy is one way of asking the provider for a current price.
// Strategies are ordered cheapest-first; later entries are slower but more
// broadly supported.
type priceStrategy struct {
	name string
	fn   func(ctx context.Context, ticker string) (float64, error)
}

func (f *Fetcher) priceStrategies() []priceStrategy {
	return []priceStrategy{
		{"quote", f.priceFromQuote},
		{"history", f.priceFromHistory},
		{"info", f.priceFromInfo},
		{"download", f.priceFromDownload},
	}
}

// Prices resolves a current price for each ticker, trying each strategy in
// order until one yields a positive price. Unresolved tickers map to NaN.
// A final batched request tops up small sets of stragglers.
func (f *Fetcher) Prices(ctx context.Context, tickers []string) map[string]float64 {
	cleaned := normalizeTickers(tickers)
	prices := make(map[string]float64, len(cleaned))
	for _, t := range cleaned {
		prices[t] = math.NaN()
	}
	if len(cleaned) == 0 {
		return prices
	}
	if !f.Available() {
		f.log.Warn().Msg("no data source configured, returning NaN prices")
		return prices
	}

	f.log.Info().Int("tickers", len(cleaned)).Msg("fetching prices")

	for _, ticker := range cleaned {
		if price, ok := f.fetchSingle(ctx, ticker); ok {
			prices[ticker] = price
		}
	}

	// Batched top-up for stragglers. Batch calls amortize overhead but are
	// less reliable, so this is best-effort only.
	var failed []string
	for _, t := range cleaned {
		if math.IsNaN(prices[t]) {
			failed = append(failed, t)
		}
	}
	if len(failed) > 0 && len(failed) <= maxBatchTopUp {
		for ticker, price := range f.fetchBatch(ctx, failed) {
			if price > 0 {
				prices[ticker] = price
			}
		}
	}

	resolved := 0
	for _, p := range prices {
		if !math.IsNaN(p) {
			resolved++
		}
	}
	f.log.Info().Int("resolved", resolved).Int("requested", len(cleaned)).Msg("price fetch complete")

	return prices
}

func (f *Fetcher) fetchSingle(ctx context.Context, ticker string) (float64, bool) {
	for _, strat := range f.priceStrategies() {
		price, err := strat.fn(ctx, ticker)
		if err != nil {
			f.log.Debug().Str("ticker", ticker).Str("strategy", strat.name).Err(err).Msg("price strategy failed")
			continue
		}
		if price > 0 {
			f.log.Debug().Str("ticker", ticker).Str("strategy", strat.name).Float64("price", price).Msg("price resolved")
			return price, true
		}
	}
	return 0, false
}

func (f *Fetcher) priceFromQuote(ctx context.Context, ticker string) (float64, error) {
	return f.src.Quote(ctx, ticker)
}

func (f *Fetcher) priceFromHistory(ctx context.Context, ticker string) (float64, error) {
	bars, err := f.src.History(ctx, ticker, shortPeriod, "1d")
	if err != nil {
		return 0, err
	}
	return lastClose(bars)
}

func (f *Fetcher) priceFromInfo(ctx context.Context, ticker string) (float64, error) {
	info, err := f.src.Info(ctx, ticker)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(info.Price) || info.Price <= 0 {
		return 0, fmt.Errorf("no usable price in info")
	}
	return info.Price, nil
}

func (f *Fetcher) priceFromDownload(ctx context.Context, ticker string) (float64, error) {
	byTicker, err := f.src.Download(ctx, []string{ticker}, shortPeriod, "1d")
	if err != nil {
		return 0, err
	}
	return lastClose(byTicker[ticker])
}

func (f *Fetcher) fetchBatch(ctx context.Context, tickers []string) map[string]float64 {
	out := make(map[string]float64, len(tickers))
	byTicker, err := f.src.Download(ctx, tickers, shortPeriod, "1d")
	if err != nil {
		f.log.Debug().Err(err).Msg("batch download failed")
		return out
	}
	for ticker, bars := range byTicker {
		if price, err := lastClose(bars); err == nil {
			out[ticker] = price
		}
	}
	return out
}

// History fetches one ticker's series over a named period, trying the
// primary history call first and the generic download second. Total failure
// yields an empty series.
func (f *Fetcher) History(ctx context.Context, ticker, period, interval string) model.Series {
	if !f.Available() {
		return model.Series{}
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	if bars, err := f.src.History(ctx, ticker, period, interval); err == nil {
		if series := toSeries(bars); len(series) > 0 {
			f.log.Debug().Str("ticker", ticker).Str("period", period).Int("points", len(series)).Msg("history fetched")
			return series
		}
	} else {
		f.log.Debug().Str("ticker", ticker).Err(err).Msg("history call failed, trying download")
	}

	if byTicker, err := f.src.Download(ctx, []string{ticker}, period, interval); err == nil {
		if series := toSeries(byTicker[ticker]); len(series) > 0 {
			f.log.Debug().Str("ticker", ticker).Str("period", period).Int("points", len(series)).Msg("history fetched via download")
			return series
		}
	} else {
		f.log.Debug().Str("ticker", ticker).Err(err).Msg("download fallback failed")
	}

	f.log.Debug().Str("ticker", ticker).Str("period", period).Msg("no historical data available")
	return model.Series{}
}

func lastClose(bars []marketdata.Bar) (float64, error) {
	usable := marketdata.PreferredCloses(bars)
	if len(usable) == 0 {
		return 0, fmt.Errorf("no usable close price")
	}
	return usable[len(usable)-1].Close, nil
}

func toSeries(bars []marketdata.Bar) model.Series {
	usable := marketdata.PreferredCloses(bars)
	series := make(model.Series, len(usable))
	for i, b := range usable {
		series[i] = model.PricePoint{Date: b.Date, Price: b.Close}
	}
	return series
}

func normalizeTickers(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	var out []string
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
