package recorder

import "PortfolioSentinel/internal/engine"

// Recorder persists refresh results for later analysis.
type Recorder interface {
	RecordSnapshot(report *engine.Report) error
	Close() error
}
