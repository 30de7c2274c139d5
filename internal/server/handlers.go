package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"PortfolioSentinel/internal/assets"
	"PortfolioSentinel/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handlePrices handles GET /api/prices?tickers=AAPL,MSFT
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	tickers := splitTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		http.Error(w, "tickers parameter is required", http.StatusBadRequest)
		return
	}

	prices := s.engine.FetchPrices(r.Context(), tickers)
	out := make(map[string]*float64, len(prices))
	for ticker, price := range prices {
		out[ticker] = fptr(price)
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// handleHistory handles GET /api/history/{ticker}?period=1y
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	period := r.URL.Query().Get("period")

	series := s.engine.FetchHistory(r.Context(), ticker, period)

	points := make([]map[string]interface{}, 0, len(series))
	for _, p := range series {
		points = append(points, map[string]interface{}{
			"date":  p.Date.Format("2006-01-02"),
			"price": fptr(p.Price),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"ticker": strings.ToUpper(strings.TrimSpace(ticker)),
			"points": points,
		},
	})
}

// handleValidate handles GET /api/validate?tickers=AAPL,FAKE
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	tickers := splitTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		http.Error(w, "tickers parameter is required", http.StatusBadRequest)
		return
	}

	results := s.engine.ValidateTickers(r.Context(), tickers)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": results})
}

type metricsRequest struct {
	Holdings []model.Holding `json:"holdings"`
	Enhanced bool            `json:"enhanced"`
}

// handleMetrics handles POST /api/metrics. The request carries the holdings;
// enhanced=true adds the technical columns.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Holdings) == 0 {
		http.Error(w, "holdings are required", http.StatusBadRequest)
		return
	}

	var table model.Table
	var dropped int
	if req.Enhanced {
		table, dropped = s.engine.ComputeEnhancedMetrics(r.Context(), req.Holdings)
	} else {
		table, dropped = s.engine.ComputeMetrics(r.Context(), req.Holdings)
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"rows":        tableDTO(table),
			"dropped":     dropped,
			"total_value": fptr(table.TotalValue()),
		},
	})
}

// handleAnalyze handles POST /api/portfolio/analyze: the full refresh
// pipeline including risk and recommendations.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Holdings) == 0 {
		http.Error(w, "holdings are required", http.StatusBadRequest)
		return
	}

	report := s.engine.Refresh(r.Context(), req.Holdings)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": reportDTO(report)})
}

// handleLastReport handles GET /api/portfolio/last.
func (s *Server) handleLastReport(w http.ResponseWriter, r *http.Request) {
	report := s.engine.Last()
	if report == nil {
		http.Error(w, "no report computed yet", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": reportDTO(report)})
}

// handleAssetSearch handles GET /api/assets/search?q=apple&limit=10
func (s *Server) handleAssetSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q parameter is required", http.StatusBadRequest)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": assets.Search(query, limit),
	})
}

// handleCacheClear handles POST /api/cache/clear.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearCaches()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "cleared"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("encode JSON response")
	}
}

func splitTickers(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
