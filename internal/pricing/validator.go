package pricing

import (
	"context"
	"strings"

	"PortfolioSentinel/internal/assets"
	"PortfolioSentinel/internal/model"
)

// minInfoFields is the smallest metadata response accepted as proof that a
// symbol exists; some providers answer near-empty objects for bad symbols.
const minInfoFields = 5

// Validate checks each ticker for tradability: the static asset catalog
// first, then a chain of live probes. It never fails; with no data source
// configured every non-cataloged check degrades to invalid immediately.
func (f *Fetcher) Validate(ctx context.Context, tickers []string) map[string]model.ValidationResult {
	results := make(map[string]model.ValidationResult)

	if !f.Available() {
		f.log.Warn().Msg("no data source configured, all tickers invalid")
		for _, t := range tickers {
			results[strings.ToUpper(strings.TrimSpace(t))] = model.ValidationResult{
				Valid:  false,
				Reason: model.ReasonNoDataSource,
			}
		}
		return results
	}

	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			results[ticker] = model.ValidationResult{Valid: false, Reason: model.ReasonEmptyTicker}
			continue
		}

		if name, ok := assets.Lookup(ticker); ok {
			results[ticker] = model.ValidationResult{Valid: true, Reason: model.ReasonKnownAsset, Name: name}
			continue
		}

		results[ticker] = f.validateLive(ctx, ticker)
	}

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	f.log.Info().Int("valid", valid).Int("checked", len(results)).Msg("ticker validation complete")

	return results
}

// validateLive runs the probe chain: quote presence, recent history, then
// the full metadata lookup. First success wins.
func (f *Fetcher) validateLive(ctx context.Context, ticker string) model.ValidationResult {
	if price, err := f.src.Quote(ctx, ticker); err == nil && price > 0 {
		return model.ValidationResult{Valid: true, Reason: model.ReasonQuote}
	}

	if bars, err := f.src.History(ctx, ticker, shortPeriod, "1d"); err == nil && len(bars) > 0 {
		return model.ValidationResult{Valid: true, Reason: model.ReasonHistory}
	}

	if info, err := f.src.Info(ctx, ticker); err == nil && info.FieldCount > minInfoFields {
		return model.ValidationResult{Valid: true, Reason: model.ReasonInfo, Name: info.Name}
	}

	return model.ValidationResult{Valid: false, Reason: model.ReasonNotFound}
}
