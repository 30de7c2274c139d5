package model

// Validation reason codes. A reason names either the method that confirmed
// the ticker or the cause of rejection.
const (
	ReasonKnownAsset   = "known asset"
	ReasonQuote        = "validated via quote"
	ReasonHistory      = "validated via history"
	ReasonInfo         = "validated via info"
	ReasonEmptyTicker  = "empty ticker"
	ReasonNotFound     = "not found by any method"
	ReasonNoDataSource = "data source unavailable"
)

// ValidationResult is the per-ticker outcome of a tradability check.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
	Name   string `json:"name,omitempty"`
}
