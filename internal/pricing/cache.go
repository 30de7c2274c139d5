// Package pricing resolves current prices and historical series through an
// ordered chain of data-source call styles, with process-wide caching.
package pricing

import (
	"sort"
	"strings"
	"sync"
	"time"

	"PortfolioSentinel/internal/model"
)

// Key builds the cache key for a ticker set: sorted, de-duplicated,
// uppercased, comma-joined. Two requests for the same set of tickers hit
// the same entry regardless of order or duplicates.
func Key(tickers []string) string {
	seen := make(map[string]struct{}, len(tickers))
	var cleaned []string
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		cleaned = append(cleaned, t)
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, ",")
}

type priceEntry struct {
	prices    map[string]float64
	fetchedAt time.Time
}

// PriceCache is a TTL cache of price snapshots keyed by ticker set. Entries
// are replaced wholesale, never merged. Failed (NaN) lookups are cached like
// successes so a bad ticker cannot trigger a retry storm inside the window.
type PriceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]priceEntry
	now     func() time.Time
}

// NewPriceCache creates a price cache with the given time-to-live.
func NewPriceCache(ttl time.Duration) *PriceCache {
	return &PriceCache{
		ttl:     ttl,
		entries: make(map[string]priceEntry),
		now:     time.Now,
	}
}

// Get returns the cached snapshot for a key if it is still within the TTL.
func (c *PriceCache) Get(key string) (map[string]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return copyPrices(entry.prices), true
}

// Put stores a snapshot under the key, replacing any previous entry.
func (c *PriceCache) Put(key string, prices map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = priceEntry{prices: copyPrices(prices), fetchedAt: c.now()}
}

// Clear drops every entry. There is no partial invalidation by ticker.
func (c *PriceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]priceEntry)
}

func copyPrices(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// HistoryCache caches fetched series keyed by (ticker, period) for the
// process lifetime: historical data for a past period does not change, and
// an empty series is a valid "known unavailable" entry. The sampling
// interval is deliberately not part of the key; only one interval is used
// per period in practice.
type HistoryCache struct {
	mu      sync.Mutex
	entries map[string]model.Series
}

// NewHistoryCache creates an empty history cache.
func NewHistoryCache() *HistoryCache {
	return &HistoryCache{entries: make(map[string]model.Series)}
}

func historyKey(ticker, period string) string {
	return strings.ToUpper(strings.TrimSpace(ticker)) + "|" + period
}

// Get returns the cached series. ok is true even for a cached empty series,
// which distinguishes "known unavailable" from "not yet attempted".
func (c *HistoryCache) Get(ticker, period string) (model.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	series, ok := c.entries[historyKey(ticker, period)]
	return series, ok
}

// Put stores a series, empty or not.
func (c *HistoryCache) Put(ticker, period string, series model.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[historyKey(ticker, period)] = series
}

// Clear drops every entry.
func (c *HistoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]model.Series)
}
