package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Cache.TTLMinutes)
	assert.Equal(t, "1y", cfg.Analysis.Period)
	assert.Equal(t, "1d", cfg.Analysis.Interval)
	assert.InDelta(t, 0.02, cfg.Analysis.RiskFreeRate, 1e-9)
	assert.InDelta(t, 0.95, cfg.Analysis.VaRConfidence, 1e-9)
	assert.Equal(t, []string{"^GSPC", "^IXIC"}, cfg.Analysis.Benchmarks)
	assert.Equal(t, "data/portfolio_sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
cache:
  ttl_minutes: 10
analysis:
  risk_free_rate: 0.03
  benchmarks: ["^DJI"]
holdings:
  - ticker: AAPL
    purchase_price: 150
    quantity: 10
    asset_type: stock
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Cache.TTLMinutes)
	assert.InDelta(t, 0.03, cfg.Analysis.RiskFreeRate, 1e-9)
	assert.Equal(t, []string{"^DJI"}, cfg.Analysis.Benchmarks)

	require.Len(t, cfg.Holdings, 1)
	assert.Equal(t, "AAPL", cfg.Holdings[0].Ticker)
	assert.InDelta(t, 150.0, cfg.Holdings[0].PurchasePrice, 1e-9)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "cache:\n  ttl_minutes: 10\n")

	t.Setenv("CACHE_TTL_MINUTES", "2")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("RISK_FREE_RATE", "0.045")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Cache.TTLMinutes)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.InDelta(t, 0.045, cfg.Analysis.RiskFreeRate, 1e-9)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "cache: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	t.Run("bad confidence", func(t *testing.T) {
		cfg := base()
		cfg.Analysis.VaRConfidence = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("telegram half-configured", func(t *testing.T) {
		cfg := base()
		cfg.Telegram.BotToken = "token"
		assert.Error(t, cfg.Validate())

		cfg.Telegram.ChatID = "12345"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("holding without ticker", func(t *testing.T) {
		cfg := base()
		cfg.Holdings = append(cfg.Holdings, model.Holding{Quantity: 1, PurchasePrice: 10})
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative holding quantity", func(t *testing.T) {
		cfg := base()
		cfg.Holdings = append(cfg.Holdings, model.Holding{Ticker: "AAPL", Quantity: -1, PurchasePrice: 10})
		assert.Error(t, cfg.Validate())
	})
}
