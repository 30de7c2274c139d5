package model

import (
	"math"
	"time"
)

// PricePoint is one (date, price) observation in a historical series.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// Series is an ordered (ascending by date) price series for one ticker.
// An empty series is a valid value meaning "known unavailable".
type Series []PricePoint

// Prices returns the price column.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Returns computes day-over-day percentage returns, skipping pairs that
// would produce a non-finite value.
func (s Series) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Price
		if prev == 0 {
			continue
		}
		r := (s[i].Price - prev) / prev
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DatedReturns computes day-over-day returns keyed by the later date of each
// pair, used for date-aligned joins against a benchmark.
func (s Series) DatedReturns() map[time.Time]float64 {
	out := make(map[time.Time]float64, len(s))
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Price
		if prev == 0 {
			continue
		}
		r := (s[i].Price - prev) / prev
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out[s[i].Date] = r
	}
	return out
}
