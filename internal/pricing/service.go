package pricing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"PortfolioSentinel/internal/marketdata"
	"PortfolioSentinel/internal/model"
)

// Service ties the fetcher to its caches. Both caches are owned here and
// lock-protected; a process normally holds one Service, but nothing stops a
// caller from constructing a private one for per-session isolation.
type Service struct {
	fetcher *Fetcher
	prices  *PriceCache
	history *HistoryCache

	benchMu    sync.Mutex
	benchmarks map[string]map[string]model.Series

	log zerolog.Logger
}

// NewService creates a pricing service over the given source with the given
// price cache TTL.
func NewService(src marketdata.Source, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		fetcher:    NewFetcher(src, log),
		prices:     NewPriceCache(ttl),
		history:    NewHistoryCache(),
		benchmarks: make(map[string]map[string]model.Series),
		log:        log.With().Str("component", "pricing").Logger(),
	}
}

// Available reports whether a data source is configured.
func (s *Service) Available() bool { return s.fetcher.Available() }

// Prices returns current prices for the ticker set, served from the TTL
// cache when possible. Failures are NaN entries and are cached like
// successes until the TTL expires.
func (s *Service) Prices(ctx context.Context, tickers []string) map[string]float64 {
	key := Key(tickers)
	if key == "" {
		return map[string]float64{}
	}

	if cached, ok := s.prices.Get(key); ok {
		s.log.Debug().Str("key", key).Msg("price cache hit")
		return cached
	}

	prices := s.fetcher.Prices(ctx, tickers)
	s.prices.Put(key, prices)
	return prices
}

// History returns the (ticker, period) series, cached for the process
// lifetime. Cached empty series short-circuit repeated failing fetches.
func (s *Service) History(ctx context.Context, ticker, period, interval string) model.Series {
	if cached, ok := s.history.Get(ticker, period); ok {
		return cached
	}

	series := s.fetcher.History(ctx, ticker, period, interval)
	s.history.Put(ticker, period, series)
	return series
}

// Validate runs the tradability check chain for each ticker.
func (s *Service) Validate(ctx context.Context, tickers []string) map[string]model.ValidationResult {
	return s.fetcher.Validate(ctx, tickers)
}

// Benchmark fetches series for the benchmark tickers over one period,
// keeping only the non-empty ones. Results, including a fully empty result,
// are cached for the process lifetime.
func (s *Service) Benchmark(ctx context.Context, tickers []string, period string) map[string]model.Series {
	key := strings.Join(tickers, ",") + "|" + period

	s.benchMu.Lock()
	if cached, ok := s.benchmarks[key]; ok {
		s.benchMu.Unlock()
		return cached
	}
	s.benchMu.Unlock()

	data := make(map[string]model.Series)
	for _, ticker := range tickers {
		series := s.History(ctx, ticker, period, "1d")
		if len(series) > 0 {
			data[strings.ToUpper(strings.TrimSpace(ticker))] = series
		} else {
			s.log.Debug().Str("ticker", ticker).Msg("benchmark has no data")
		}
	}

	s.benchMu.Lock()
	s.benchmarks[key] = data
	s.benchMu.Unlock()

	return data
}

// PrimaryBenchmark picks the first benchmark ticker that produced data,
// preserving the requested order.
func PrimaryBenchmark(tickers []string, data map[string]model.Series) model.Series {
	for _, ticker := range tickers {
		if series, ok := data[strings.ToUpper(strings.TrimSpace(ticker))]; ok && len(series) > 0 {
			return series
		}
	}
	return nil
}

// ClearCaches drops all cached prices, series, and benchmark data. The next
// request of any kind goes back to the network.
func (s *Service) ClearCaches() {
	s.prices.Clear()
	s.history.Clear()
	s.benchMu.Lock()
	s.benchmarks = make(map[string]map[string]model.Series)
	s.benchMu.Unlock()
	s.log.Info().Msg("all caches cleared")
}
