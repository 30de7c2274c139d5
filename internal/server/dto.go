package server

import (
	"math"
	"time"

	"PortfolioSentinel/internal/advisor"
	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/model"
)

// JSON has no NaN, so unavailable metrics go out as null.
func fptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type rowDTO struct {
	Ticker         string   `json:"ticker"`
	AssetType      string   `json:"asset_type"`
	AssetName      string   `json:"asset_name,omitempty"`
	PurchasePrice  float64  `json:"purchase_price"`
	Quantity       float64  `json:"quantity"`
	CurrentPrice   *float64 `json:"current_price"`
	TotalValue     *float64 `json:"total_value"`
	CostBasis      float64  `json:"cost_basis"`
	PL             *float64 `json:"pl"`
	PLPct          *float64 `json:"pl_pct"`
	WeightPct      *float64 `json:"weight_pct"`
	PriceChange    *float64 `json:"price_change"`
	PriceChangePct *float64 `json:"price_change_pct"`
	RSI            *float64 `json:"rsi"`
	Volatility     *float64 `json:"volatility"`
	Beta           *float64 `json:"beta"`
	Alpha          *float64 `json:"alpha"`
	Sharpe         *float64 `json:"sharpe"`
	SMA20          *float64 `json:"sma_20"`
	SMA50          *float64 `json:"sma_50"`
}

func toRowDTO(r model.MetricsRow) rowDTO {
	return rowDTO{
		Ticker:         r.Ticker,
		AssetType:      r.AssetType,
		AssetName:      r.AssetName,
		PurchasePrice:  r.PurchasePrice,
		Quantity:       r.Quantity,
		CurrentPrice:   fptr(r.CurrentPrice),
		TotalValue:     fptr(r.TotalValue),
		CostBasis:      r.CostBasis,
		PL:             fptr(r.PL),
		PLPct:          fptr(r.PLPct),
		WeightPct:      fptr(r.WeightPct),
		PriceChange:    fptr(r.PriceChange),
		PriceChangePct: fptr(r.PriceChangePct),
		RSI:            fptr(r.RSI),
		Volatility:     fptr(r.Volatility),
		Beta:           fptr(r.Beta),
		Alpha:          fptr(r.Alpha),
		Sharpe:         fptr(r.Sharpe),
		SMA20:          fptr(r.SMA20),
		SMA50:          fptr(r.SMA50),
	}
}

func tableDTO(table model.Table) []rowDTO {
	out := make([]rowDTO, len(table))
	for i, r := range table {
		out[i] = toRowDTO(r)
	}
	return out
}

type reportJSON struct {
	Rows            []rowDTO                 `json:"rows"`
	TotalValue      *float64                 `json:"total_value"`
	Summary         model.RefreshSummary     `json:"summary"`
	Sharpe          *float64                 `json:"sharpe"`
	ValueAtRisk     *float64                 `json:"value_at_risk"`
	Recommendations []model.Recommendation   `json:"recommendations"`
	Breakdown       []advisor.TypeAllocation `json:"breakdown"`
	TopMovers       []rowDTO                 `json:"top_movers"`
	WorstMovers     []rowDTO                 `json:"worst_movers"`
	Rebalance       *advisor.RebalancePlan   `json:"rebalance,omitempty"`
	GeneratedAt     time.Time                `json:"generated_at"`
}

func reportDTO(report *engine.Report) reportJSON {
	return reportJSON{
		Rows:            tableDTO(report.Table),
		TotalValue:      fptr(report.Table.TotalValue()),
		Summary:         report.Summary,
		Sharpe:          fptr(report.Sharpe),
		ValueAtRisk:     fptr(report.ValueAtRisk),
		Recommendations: report.Recommendations,
		Breakdown:       report.Breakdown,
		TopMovers:       tableDTO(report.TopMovers),
		WorstMovers:     tableDTO(report.WorstMovers),
		Rebalance:       report.Rebalance,
		GeneratedAt:     report.GeneratedAt,
	}
}
