// Package marketdata talks to the external price provider. All
// provider-specific schema probing stays behind the Source interface;
// callers only ever see the canonical Bar/Info shapes.
package marketdata

import (
	"context"
	"math"
	"time"
)

// Bar is one daily observation in canonical form. AdjClose is NaN when the
// call style that produced the bar does not expose an adjusted close.
type Bar struct {
	Date     time.Time
	Close    float64
	AdjClose float64
}

// Info is symbol metadata. FieldCount is the number of populated fields the
// provider returned; near-empty responses are how some providers signal an
// unknown symbol.
type Info struct {
	Name       string
	Price      float64
	FieldCount int
}

// Source is the set of independent call styles a provider offers. Each call
// may fail on its own; callers treat failures as "this style is unavailable
// for this symbol" and move on.
type Source interface {
	// Quote is the fast single-symbol price lookup.
	Quote(ctx context.Context, symbol string) (float64, error)
	// History fetches daily bars for one symbol over a named period.
	History(ctx context.Context, symbol, period, interval string) ([]Bar, error)
	// Info fetches symbol metadata.
	Info(ctx context.Context, symbol string) (Info, error)
	// Download is the generic (optionally batched) bar download.
	Download(ctx context.Context, symbols []string, period, interval string) (map[string][]Bar, error)
	Name() string
}

// PreferredCloses selects the adjusted close column when it is present and
// not all-missing, otherwise the plain close. Bars without a usable value
// are skipped.
func PreferredCloses(bars []Bar) []Bar {
	useAdj := false
	for _, b := range bars {
		if !math.IsNaN(b.AdjClose) {
			useAdj = true
			break
		}
	}

	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		price := b.Close
		if useAdj && !math.IsNaN(b.AdjClose) {
			price = b.AdjClose
		}
		if math.IsNaN(price) || price == 0 {
			continue
		}
		out = append(out, Bar{Date: b.Date, Close: price, AdjClose: b.AdjClose})
	}
	return out
}
