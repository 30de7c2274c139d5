package marketdata

import (
	"context"
	"fmt"
	"sync"
)

// MockSource returns controllable fixed data for development and testing.
// Call counters are tracked per method so tests can assert how many network
// round-trips a code path would have made.
type MockSource struct {
	mu sync.Mutex

	QuotePrices  map[string]float64
	Histories    map[string][]Bar
	Infos        map[string]Info
	Downloads    map[string][]Bar
	QuoteErr     error
	HistoryErr   error
	InfoErr      error
	DownloadErr  error

	QuoteCalls    int
	HistoryCalls  int
	InfoCalls     int
	DownloadCalls int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Quote(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuoteCalls++
	if m.QuoteErr != nil {
		return 0, m.QuoteErr
	}
	if p, ok := m.QuotePrices[symbol]; ok && p > 0 {
		return p, nil
	}
	return 0, fmt.Errorf("mock: no quote for %s", symbol)
}

func (m *MockSource) History(_ context.Context, symbol, _, _ string) ([]Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryCalls++
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if bars, ok := m.Histories[symbol]; ok {
		return bars, nil
	}
	return nil, fmt.Errorf("mock: no history for %s", symbol)
}

func (m *MockSource) Info(_ context.Context, symbol string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls++
	if m.InfoErr != nil {
		return Info{}, m.InfoErr
	}
	if info, ok := m.Infos[symbol]; ok {
		return info, nil
	}
	return Info{}, fmt.Errorf("mock: no info for %s", symbol)
}

func (m *MockSource) Download(_ context.Context, symbols []string, _, _ string) (map[string][]Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DownloadCalls++
	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}
	out := make(map[string][]Bar)
	for _, s := range symbols {
		if bars, ok := m.Downloads[s]; ok {
			out[s] = bars
		}
	}
	return out, nil
}

// Calls reports the total number of mock invocations across all methods.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QuoteCalls + m.HistoryCalls + m.InfoCalls + m.DownloadCalls
}
