package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/marketdata"
	"PortfolioSentinel/internal/model"
)

func TestValidate_NoDataSourceShortCircuits(t *testing.T) {
	f := NewFetcher(nil, zerolog.Nop())

	// Even cataloged tickers report unavailable: with no provider nothing
	// is tradable.
	results := f.Validate(context.Background(), []string{"AAPL", "NOPE"})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Valid)
		assert.Equal(t, model.ReasonNoDataSource, r.Reason)
	}
}

func TestValidate_KnownAssetSkipsLiveProbes(t *testing.T) {
	src := &marketdata.MockSource{}
	f := NewFetcher(src, zerolog.Nop())

	results := f.Validate(context.Background(), []string{"aapl"})
	r := results["AAPL"]
	assert.True(t, r.Valid)
	assert.Equal(t, model.ReasonKnownAsset, r.Reason)
	assert.Equal(t, "Apple Inc.", r.Name)
	assert.Equal(t, 0, src.Calls(), "catalog hit must not touch the network")
}

func TestValidate_LiveChain(t *testing.T) {
	tests := []struct {
		name       string
		src        *marketdata.MockSource
		wantValid  bool
		wantReason string
	}{
		{
			name:       "quote validates",
			src:        &marketdata.MockSource{QuotePrices: map[string]float64{"ZZZT": 12.5}},
			wantValid:  true,
			wantReason: model.ReasonQuote,
		},
		{
			name:       "history validates",
			src:        &marketdata.MockSource{Histories: map[string][]marketdata.Bar{"ZZZT": bars(10, 11)}},
			wantValid:  true,
			wantReason: model.ReasonHistory,
		},
		{
			name:       "rich info validates",
			src:        &marketdata.MockSource{Infos: map[string]marketdata.Info{"ZZZT": {Name: "Zizzle Corp", FieldCount: 12}}},
			wantValid:  true,
			wantReason: model.ReasonInfo,
		},
		{
			name:       "sparse info does not validate",
			src:        &marketdata.MockSource{Infos: map[string]marketdata.Info{"ZZZT": {FieldCount: 5}}},
			wantValid:  false,
			wantReason: model.ReasonNotFound,
		},
		{
			name:       "nothing answers",
			src:        &marketdata.MockSource{},
			wantValid:  false,
			wantReason: model.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(tt.src, zerolog.Nop())
			r := f.Validate(context.Background(), []string{"ZZZT"})["ZZZT"]
			assert.Equal(t, tt.wantValid, r.Valid)
			assert.Equal(t, tt.wantReason, r.Reason)
		})
	}
}

func TestValidate_InfoCarriesName(t *testing.T) {
	src := &marketdata.MockSource{
		QuoteErr:   fmt.Errorf("down"),
		HistoryErr: fmt.Errorf("down"),
		Infos:      map[string]marketdata.Info{"ZZZT": {Name: "Zizzle Corp", FieldCount: 9}},
	}
	f := NewFetcher(src, zerolog.Nop())

	r := f.Validate(context.Background(), []string{"ZZZT"})["ZZZT"]
	require.True(t, r.Valid)
	assert.Equal(t, "Zizzle Corp", r.Name)
}

func TestValidate_EmptyTicker(t *testing.T) {
	src := &marketdata.MockSource{}
	f := NewFetcher(src, zerolog.Nop())

	r := f.Validate(context.Background(), []string{"   "})[""]
	assert.False(t, r.Valid)
	assert.Equal(t, model.ReasonEmptyTicker, r.Reason)
}
