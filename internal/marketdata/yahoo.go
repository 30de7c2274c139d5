package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// YahooSource implements Source against the Yahoo Finance public API.
type YahooSource struct {
	client *http.Client
	log    zerolog.Logger
}

// NewYahooSource creates a Yahoo Finance source with optional proxy support.
func NewYahooSource(proxyURL string, log zerolog.Logger) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSource{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		log: log.With().Str("component", "yahoo").Logger(),
	}
}

func (y *YahooSource) Name() string { return "yahoo" }

// yahooChart is the response shape of the v8 chart API. Close values arrive
// as interface{} because the API mixes numbers and nulls in one array.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return math.NaN()
	}
}

func (y *YahooSource) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (y *YahooSource) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s&events=div%%2Csplit",
		url.PathEscape(symbol), interval, rng)

	var chart yahooChart
	if err := y.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}
	return &chart, nil
}

// Quote returns the regular market price from chart metadata, falling back
// to the previous close.
func (y *YahooSource) Quote(ctx context.Context, symbol string) (float64, error) {
	chart, err := y.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice > 0 {
		return meta.RegularMarketPrice, nil
	}
	if meta.PreviousClose > 0 {
		return meta.PreviousClose, nil
	}
	return 0, fmt.Errorf("yahoo: no quote price for %s", symbol)
}

// History returns daily bars from the chart API, carrying both close and
// adjusted close when available.
func (y *YahooSource) History(ctx context.Context, symbol, period, interval string) ([]Bar, error) {
	chart, err := y.fetchChart(ctx, symbol, interval, period)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: empty history for %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	var adjCloses []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		c := toFloat(closes[i])
		if math.IsNaN(c) || c == 0 {
			continue // null bars on holidays etc.
		}
		adj := math.NaN()
		if i < len(adjCloses) {
			adj = toFloat(adjCloses[i])
		}
		bars = append(bars, Bar{
			Date:     time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:    c,
			AdjClose: adj,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// yahooSummary is the v10 quoteSummary response shape. The price module is
// decoded loosely so the populated-field count can be measured.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price map[string]json.RawMessage `json:"price"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Info fetches the price module of the quoteSummary endpoint.
func (y *YahooSource) Info(ctx context.Context, symbol string) (Info, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=price",
		url.PathEscape(symbol))

	var summary yahooSummary
	if err := y.get(ctx, u, &summary); err != nil {
		return Info{}, err
	}
	if summary.QuoteSummary.Error != nil {
		return Info{}, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 || len(summary.QuoteSummary.Result[0].Price) == 0 {
		return Info{}, fmt.Errorf("yahoo: no info for %s", symbol)
	}

	price := summary.QuoteSummary.Result[0].Price
	info := Info{Price: math.NaN(), FieldCount: countPopulated(price)}

	for _, key := range []string{"longName", "shortName"} {
		var name string
		if raw, ok := price[key]; ok && json.Unmarshal(raw, &name) == nil && name != "" {
			info.Name = name
			break
		}
	}

	// Probe the usual price fields in preference order.
	for _, key := range []string{"regularMarketPrice", "regularMarketPreviousClose", "regularMarketOpen"} {
		raw, ok := price[key]
		if !ok {
			continue
		}
		var wrapped struct {
			Raw float64 `json:"raw"`
		}
		if json.Unmarshal(raw, &wrapped) == nil && wrapped.Raw > 0 {
			info.Price = wrapped.Raw
			break
		}
	}

	return info, nil
}

func countPopulated(fields map[string]json.RawMessage) int {
	n := 0
	for _, raw := range fields {
		s := strings.TrimSpace(string(raw))
		if s != "" && s != "null" && s != "{}" && s != `""` {
			n++
		}
	}
	return n
}

// yahooSpark is the v8 spark response shape used for batched downloads.
type yahooSpark struct {
	Spark struct {
		Result []struct {
			Symbol   string `json:"symbol"`
			Response []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []interface{} `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"response"`
		} `json:"result"`
	} `json:"spark"`
}

// Download fetches bars for several symbols in one spark request. Spark does
// not expose adjusted closes, so AdjClose is NaN on every bar.
func (y *YahooSource) Download(ctx context.Context, symbols []string, period, interval string) (map[string][]Bar, error) {
	if len(symbols) == 0 {
		return map[string][]Bar{}, nil
	}

	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/spark?symbols=%s&range=%s&interval=%s",
		url.QueryEscape(strings.Join(symbols, ",")), period, interval)

	var spark yahooSpark
	if err := y.get(ctx, u, &spark); err != nil {
		return nil, err
	}
	if len(spark.Spark.Result) == 0 {
		return nil, fmt.Errorf("yahoo: spark returned no data")
	}

	out := make(map[string][]Bar, len(spark.Spark.Result))
	for _, res := range spark.Spark.Result {
		if len(res.Response) == 0 || len(res.Response[0].Indicators.Quote) == 0 {
			continue
		}
		resp := res.Response[0]
		closes := resp.Indicators.Quote[0].Close
		bars := make([]Bar, 0, len(resp.Timestamp))
		for i, ts := range resp.Timestamp {
			if i >= len(closes) {
				break
			}
			c := toFloat(closes[i])
			if math.IsNaN(c) || c == 0 {
				continue
			}
			bars = append(bars, Bar{
				Date:     time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
				Close:    c,
				AdjClose: math.NaN(),
			})
		}
		sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
		out[strings.ToUpper(res.Symbol)] = bars
	}
	return out, nil
}
