package marketdata

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredCloses(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2025, 1, 1+n, 0, 0, 0, 0, time.UTC)
	}

	t.Run("adjusted close wins when present", func(t *testing.T) {
		bars := []Bar{
			{Date: day(0), Close: 100, AdjClose: 98},
			{Date: day(1), Close: 102, AdjClose: 100},
		}
		got := PreferredCloses(bars)
		require.Len(t, got, 2)
		assert.InDelta(t, 98.0, got[0].Close, 1e-9)
		assert.InDelta(t, 100.0, got[1].Close, 1e-9)
	})

	t.Run("plain close when no adjusted column", func(t *testing.T) {
		bars := []Bar{
			{Date: day(0), Close: 100, AdjClose: math.NaN()},
			{Date: day(1), Close: 102, AdjClose: math.NaN()},
		}
		got := PreferredCloses(bars)
		require.Len(t, got, 2)
		assert.InDelta(t, 100.0, got[0].Close, 1e-9)
	})

	t.Run("partially adjusted falls back per bar", func(t *testing.T) {
		bars := []Bar{
			{Date: day(0), Close: 100, AdjClose: 98},
			{Date: day(1), Close: 102, AdjClose: math.NaN()},
		}
		got := PreferredCloses(bars)
		require.Len(t, got, 2)
		assert.InDelta(t, 98.0, got[0].Close, 1e-9)
		assert.InDelta(t, 102.0, got[1].Close, 1e-9)
	})

	t.Run("unusable bars dropped", func(t *testing.T) {
		bars := []Bar{
			{Date: day(0), Close: 0, AdjClose: math.NaN()},
			{Date: day(1), Close: math.NaN(), AdjClose: math.NaN()},
			{Date: day(2), Close: 101, AdjClose: math.NaN()},
		}
		got := PreferredCloses(bars)
		require.Len(t, got, 1)
		assert.InDelta(t, 101.0, got[0].Close, 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, PreferredCloses(nil))
	})
}

func TestToFloat(t *testing.T) {
	assert.InDelta(t, 1.5, toFloat(1.5), 1e-9)
	assert.InDelta(t, 3.0, toFloat(float64(3)), 1e-9)
	assert.True(t, math.IsNaN(toFloat(nil)))
	assert.True(t, math.IsNaN(toFloat("165.2")))
}
