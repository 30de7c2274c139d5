// Package assets holds the static catalog of well-known tradable symbols.
// Lookup hits here resolve without any network call.
package assets

import "strings"

// Asset is one catalog entry.
type Asset struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	AssetClass string `json:"asset_class"`
	Category   string `json:"category"`
}

// catalog is organized asset class -> category -> ticker -> display name.
var catalog = map[string]map[string]map[string]string{
	"stocks": {
		"technology": {
			"AAPL":  "Apple Inc.",
			"MSFT":  "Microsoft Corporation",
			"GOOGL": "Alphabet Inc.",
			"AMZN":  "Amazon.com Inc.",
			"META":  "Meta Platforms Inc.",
			"NVDA":  "NVIDIA Corporation",
			"TSLA":  "Tesla Inc.",
			"AMD":   "Advanced Micro Devices Inc.",
			"INTC":  "Intel Corporation",
			"CRM":   "Salesforce Inc.",
			"ORCL":  "Oracle Corporation",
			"ADBE":  "Adobe Inc.",
		},
		"financial": {
			"JPM":   "JPMorgan Chase & Co.",
			"BAC":   "Bank of America Corporation",
			"WFC":   "Wells Fargo & Company",
			"GS":    "The Goldman Sachs Group Inc.",
			"MS":    "Morgan Stanley",
			"V":     "Visa Inc.",
			"MA":    "Mastercard Incorporated",
			"BRK-B": "Berkshire Hathaway Inc.",
		},
		"healthcare": {
			"JNJ":  "Johnson & Johnson",
			"UNH":  "UnitedHealth Group Incorporated",
			"PFE":  "Pfizer Inc.",
			"ABBV": "AbbVie Inc.",
			"MRK":  "Merck & Co. Inc.",
			"LLY":  "Eli Lilly and Company",
		},
		"consumer": {
			"KO":  "The Coca-Cola Company",
			"PEP": "PepsiCo Inc.",
			"PG":  "The Procter & Gamble Company",
			"WMT": "Walmart Inc.",
			"MCD": "McDonald's Corporation",
			"NKE": "NIKE Inc.",
			"DIS": "The Walt Disney Company",
		},
		"energy": {
			"XOM": "Exxon Mobil Corporation",
			"CVX": "Chevron Corporation",
			"COP": "ConocoPhillips",
		},
	},
	"etfs": {
		"broad market": {
			"SPY": "SPDR S&P 500 ETF Trust",
			"VOO": "Vanguard S&P 500 ETF",
			"IVV": "iShares Core S&P 500 ETF",
			"VTI": "Vanguard Total Stock Market ETF",
			"QQQ": "Invesco QQQ Trust",
			"DIA": "SPDR Dow Jones Industrial Average ETF",
		},
		"international": {
			"VEA":  "Vanguard FTSE Developed Markets ETF",
			"VWO":  "Vanguard FTSE Emerging Markets ETF",
			"EFA":  "iShares MSCI EAFE ETF",
			"VXUS": "Vanguard Total International Stock ETF",
		},
		"sector": {
			"XLK": "Technology Select Sector SPDR Fund",
			"XLF": "Financial Select Sector SPDR Fund",
			"XLE": "Energy Select Sector SPDR Fund",
			"XLV": "Health Care Select Sector SPDR Fund",
			"VNQ": "Vanguard Real Estate ETF",
		},
	},
	"bonds": {
		"government": {
			"TLT": "iShares 20+ Year Treasury Bond ETF",
			"IEF": "iShares 7-10 Year Treasury Bond ETF",
			"SHY": "iShares 1-3 Year Treasury Bond ETF",
		},
		"aggregate": {
			"BND": "Vanguard Total Bond Market ETF",
			"AGG": "iShares Core U.S. Aggregate Bond ETF",
			"LQD": "iShares iBoxx $ Investment Grade Corporate Bond ETF",
		},
	},
	"crypto": {
		"major": {
			"BTC-USD": "Bitcoin USD",
			"ETH-USD": "Ethereum USD",
			"SOL-USD": "Solana USD",
			"ADA-USD": "Cardano USD",
		},
	},
	"commodities": {
		"metals": {
			"GLD": "SPDR Gold Shares",
			"SLV": "iShares Silver Trust",
			"IAU": "iShares Gold Trust",
		},
		"energy": {
			"USO": "United States Oil Fund",
			"UNG": "United States Natural Gas Fund",
		},
	},
	"indices": {
		"benchmarks": {
			"^GSPC": "S&P 500",
			"^IXIC": "NASDAQ Composite",
			"^DJI":  "Dow Jones Industrial Average",
			"^RUT":  "Russell 2000",
			"^VIX":  "CBOE Volatility Index",
		},
	},
}

// flat maps ticker -> display name across the whole catalog, built once.
var flat = func() map[string]string {
	m := make(map[string]string)
	for _, categories := range catalog {
		for _, tickers := range categories {
			for t, name := range tickers {
				m[t] = name
			}
		}
	}
	return m
}()

// Lookup resolves a display name for a known ticker. Exact uppercase match.
func Lookup(ticker string) (string, bool) {
	name, ok := flat[strings.ToUpper(strings.TrimSpace(ticker))]
	return name, ok
}

// Count returns the number of cataloged assets.
func Count() int { return len(flat) }

// Search matches the query against tickers, names, and name word prefixes.
// Results are capped at limit.
func Search(query string, limit int) []Asset {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var results []Asset
	for class, categories := range catalog {
		for category, tickers := range categories {
			for ticker, name := range tickers {
				if !matches(query, ticker, name) {
					continue
				}
				results = append(results, Asset{
					Ticker:     ticker,
					Name:       name,
					AssetClass: class,
					Category:   category,
				})
				if len(results) >= limit {
					return results
				}
			}
		}
	}
	return results
}

func matches(query, ticker, name string) bool {
	upperName := strings.ToUpper(name)
	if strings.Contains(strings.ToUpper(ticker), query) || strings.Contains(upperName, query) {
		return true
	}
	for _, word := range strings.Fields(upperName) {
		if strings.HasPrefix(word, query) {
			return true
		}
	}
	return false
}

// ByCategory lists cataloged assets, optionally filtered by asset class
// and/or category. Empty filters mean "all".
func ByCategory(assetClass, category string) []Asset {
	var results []Asset
	for class, categories := range catalog {
		if assetClass != "" && class != assetClass {
			continue
		}
		for cat, tickers := range categories {
			if category != "" && cat != category {
				continue
			}
			for ticker, name := range tickers {
				results = append(results, Asset{
					Ticker:     ticker,
					Name:       name,
					AssetClass: class,
					Category:   cat,
				})
			}
		}
	}
	return results
}
