package model

// Recommendation severities, in increasing order of urgency.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Recommendation is one advisory note derived from a metrics table.
type Recommendation struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
