package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
)

func series(n int, f func(i int) float64) []models.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Time: start.AddDate(0, 0, i), Close: f(i)}
	}
	return out
}

func TestPctChange(t *testing.T) {
	got := PctChange([]float64{100, 110, 99, 0, 5}, 1)
	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 0.1, got[1], 1e-12)
	assert.InDelta(t, -0.1, got[2], 1e-12)
	assert.InDelta(t, -1.0, got[3], 1e-12)
	assert.True(t, math.IsNaN(got[4]), "zero base")
}

func TestEMASeedsWithFirstValue(t *testing.T) {
	got := EMA([]float64{10, 20, 30}, 3, 1)
	assert.Equal(t, 10.0, got[0])
	assert.InDelta(t, 15.0, got[1], 1e-12)
	assert.InDelta(t, 22.5, got[2], 1e-12)

	got = EMA([]float64{10, 20, 30}, 3, 3)
	assert.True(t, math.IsNaN(got[1]))
	assert.False(t, math.IsNaN(got[2]))
}

func TestRSIBounds(t *testing.T) {
	up := Closes(series(30, func(i int) float64 { return 100 + float64(i) }))
	rsi := RSI(up, RSIWindow)
	assert.True(t, math.IsNaN(rsi[RSIWindow-2]))
	assert.Equal(t, 100.0, rsi[len(rsi)-1])

	down := Closes(series(30, func(i int) float64 { return 100 - float64(i) }))
	rsi = RSI(down, RSIWindow)
	assert.InDelta(t, 0.0, rsi[len(rsi)-1], 1e-9)

	zigzag := Closes(series(60, func(i int) float64 { return 100 + float64(i%2) }))
	rsi = RSI(zigzag, RSIWindow)
	last := rsi[len(rsi)-1]
	assert.Greater(t, last, 40.0)
	assert.Less(t, last, 60.0)
}

func TestMACDOfConstantSeriesIsZero(t *testing.T) {
	closes := Closes(series(40, func(int) float64 { return 50 }))
	macd := MACD(closes, MACDFast, MACDSlow)
	assert.True(t, math.IsNaN(macd[MACDSlow-2]))
	assert.InDelta(t, 0.0, macd[len(macd)-1], 1e-12)
}

func TestBollingerBandsStraddleMean(t *testing.T) {
	closes := Closes(series(25, func(i int) float64 { return float64(i % 3) }))
	upper, lower := Bollinger(closes, BollingerWindow, BollingerK)
	assert.True(t, math.IsNaN(upper[BollingerWindow-2]))
	for i := BollingerWindow - 1; i < len(closes); i++ {
		assert.Greater(t, upper[i], lower[i])
	}

	flat := Closes(series(20, func(int) float64 { return 7 }))
	upper, lower = Bollinger(flat, BollingerWindow, BollingerK)
	assert.Equal(t, 7.0, upper[19])
	assert.Equal(t, 7.0, lower[19])
}

func TestVolatility(t *testing.T) {
	_, ok := Volatility([]float64{100, 101})
	assert.False(t, ok)

	v, ok := Volatility([]float64{100, 110, 99})
	require.True(t, ok)
	// returns 0.1 and -0.1, sample stddev sqrt(0.02)
	assert.InDelta(t, math.Sqrt(0.02), v, 1e-12)
}

func TestBuildSnapshotLeavesWarmupNil(t *testing.T) {
	candles := series(60, func(i int) float64 { return 100 + math.Sin(float64(i)) })
	snap := BuildSnapshot("AAPL", candles[0].Time, candles[59].Time, candles)

	require.Len(t, snap.Indicators, 60)
	first := snap.Indicators[0]
	assert.Nil(t, first.RSI)
	assert.Nil(t, first.Return1d)
	assert.Nil(t, snap.Indicators[28].Return30d)
	assert.NotNil(t, snap.Indicators[30].Return30d)

	last := snap.Latest()
	require.NotNil(t, last)
	require.NotNil(t, last.RSI)
	require.NotNil(t, last.MACD)
	require.NotNil(t, last.BBUpper)
	assert.GreaterOrEqual(t, *last.RSI, 0.0)
	assert.LessOrEqual(t, *last.RSI, 100.0)
}
