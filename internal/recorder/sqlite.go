package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"PortfolioSentinel/internal/engine"
)

// SQLiteRecorder persists refresh history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// the scheduler writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			total_value       REAL,
			holdings          INTEGER,
			dropped_rows      INTEGER,
			unresolved_prices INTEGER,
			sharpe            REAL,
			value_at_risk     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_ts ON portfolio_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS asset_metrics (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id   INTEGER NOT NULL,
			ticker        TEXT NOT NULL,
			asset_type    TEXT,
			current_price REAL,
			total_value   REAL,
			pl_pct        REAL,
			weight_pct    REAL,
			rsi           REAL,
			volatility    REAL,
			beta          REAL,
			alpha         REAL,
			sharpe        REAL,
			FOREIGN KEY (snapshot_id) REFERENCES portfolio_snapshots(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_snapshot ON asset_metrics(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_ticker ON asset_metrics(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSnapshot writes one portfolio snapshot and its per-asset rows in a
// single transaction.
func (r *SQLiteRecorder) RecordSnapshot(report *engine.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO portfolio_snapshots
		(timestamp, total_value, holdings, dropped_rows, unresolved_prices, sharpe, value_at_risk)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), report.Table.TotalValue(),
		report.Summary.Holdings, report.Summary.DroppedRows, report.Summary.UnresolvedPrices,
		nullable(report.Sharpe), nullable(report.ValueAtRisk),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}

	for _, row := range report.Table {
		_, err := tx.Exec(`INSERT INTO asset_metrics
			(snapshot_id, ticker, asset_type, current_price, total_value, pl_pct, weight_pct,
			 rsi, volatility, beta, alpha, sharpe)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			snapshotID, row.Ticker, row.AssetType,
			nullable(row.CurrentPrice), nullable(row.TotalValue),
			nullable(row.PLPct), nullable(row.WeightPct),
			nullable(row.RSI), nullable(row.Volatility),
			nullable(row.Beta), nullable(row.Alpha), nullable(row.Sharpe),
		)
		if err != nil {
			return fmt.Errorf("insert metrics for %s: %w", row.Ticker, err)
		}
	}

	return tx.Commit()
}

// nullable maps NaN to SQL NULL; the driver rejects NaN bind values.
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
