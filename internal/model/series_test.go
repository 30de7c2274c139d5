package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesReturns(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		{Date: start, Price: 100},
		{Date: start.AddDate(0, 0, 1), Price: 110},
		{Date: start.AddDate(0, 0, 2), Price: 99},
	}

	got := s.Returns()
	require.Len(t, got, 2)
	assert.InDelta(t, 0.10, got[0], 1e-9)
	assert.InDelta(t, -0.10, got[1], 1e-9)
}

func TestSeriesReturns_SkipsNonFinite(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		{Date: start, Price: 100},
		{Date: start.AddDate(0, 0, 1), Price: 0},
		{Date: start.AddDate(0, 0, 2), Price: 50},
		{Date: start.AddDate(0, 0, 3), Price: math.NaN()},
		{Date: start.AddDate(0, 0, 4), Price: 60},
	}

	got := s.Returns()
	// 100->0 kept (-100%), 0->50 skipped (zero base), NaN pairs skipped.
	require.Len(t, got, 1)
	assert.InDelta(t, -1.0, got[0], 1e-9)
}

func TestSeriesReturns_TooShort(t *testing.T) {
	assert.Nil(t, Series{}.Returns())
	assert.Nil(t, Series{{Price: 100}}.Returns())
}

func TestSeriesDatedReturns(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		{Date: start, Price: 100},
		{Date: start.AddDate(0, 0, 1), Price: 105},
	}

	got := s.DatedReturns()
	require.Len(t, got, 1)
	assert.InDelta(t, 0.05, got[start.AddDate(0, 0, 1)], 1e-9)
}
