package features

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"YTM4A/internal/domain/models"
)

// Standard indicator windows.
const (
	RSIWindow       = 14
	MACDFast        = 12
	MACDSlow        = 26
	BollingerWindow = 20
	BollingerK      = 2.0
)

// Closes extracts closing prices.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// PctChange returns (x[t]-x[t-n])/x[t-n]. The first n entries are NaN, as is
// any entry whose base is zero.
func PctChange(xs []float64, n int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i < n || xs[i-n] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (xs[i] - xs[i-n]) / xs[i-n]
	}
	return out
}

// EMA is the recursive exponential mean with alpha = 2/(span+1), seeded with
// the first value. Entries before minPeriods observations are NaN.
func EMA(xs []float64, span, minPeriods int) []float64 {
	return ewm(xs, 2/(float64(span)+1), minPeriods)
}

func ewm(xs []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(xs))
	var y float64
	for i, x := range xs {
		if i == 0 {
			y = x
		} else {
			y = (1-alpha)*y + alpha*x
		}
		if i+1 < minPeriods {
			out[i] = math.NaN()
		} else {
			out[i] = y
		}
	}
	return out
}

// RSI is Wilder's relative strength index over window bars.
func RSI(closes []float64, window int) []float64 {
	n := len(closes)
	up := make([]float64, n)
	down := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			up[i] = d
		} else {
			down[i] = -d
		}
	}

	alpha := 1 / float64(window)
	avgUp := ewm(up, alpha, window)
	avgDown := ewm(down, alpha, window)

	out := make([]float64, n)
	for i := range out {
		switch {
		case math.IsNaN(avgUp[i]) || math.IsNaN(avgDown[i]):
			out[i] = math.NaN()
		case avgDown[i] == 0:
			out[i] = 100
		default:
			rs := avgUp[i] / avgDown[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD is EMA(fast) - EMA(slow).
func MACD(closes []float64, fast, slow int) []float64 {
	f := EMA(closes, fast, fast)
	s := EMA(closes, slow, slow)
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = f[i] - s[i]
	}
	return out
}

// Bollinger returns the upper and lower bands: rolling mean +/- k population
// standard deviations.
func Bollinger(closes []float64, window int, k float64) (upper, lower []float64) {
	n := len(closes)
	upper = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if i+1 < window {
			upper[i], lower[i] = math.NaN(), math.NaN()
			continue
		}
		win := closes[i+1-window : i+1]
		mean, std := stat.PopMeanStdDev(win, nil)
		upper[i] = mean + k*std
		lower[i] = mean - k*std
	}
	return upper, lower
}

// Volatility is the sample standard deviation of daily returns. It reports
// false with fewer than two returns.
func Volatility(closes []float64) (float64, bool) {
	rets := dropNaN(PctChange(closes, 1))
	if len(rets) < 2 {
		return 0, false
	}
	return stat.StdDev(rets, nil), true
}

// RollingMean is the trailing mean over window entries; NaN until the window
// is full or when it contains a NaN.
func RollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(xs[i+1-window:i+1], nil)
	}
	return out
}

// BuildSnapshot computes every indicator for candles.
func BuildSnapshot(symbol string, from, to time.Time, candles []models.Candle) *models.MarketSnapshot {
	closes := Closes(candles)
	rsi := RSI(closes, RSIWindow)
	macd := MACD(closes, MACDFast, MACDSlow)
	upper, lower := Bollinger(closes, BollingerWindow, BollingerK)
	r1 := PctChange(closes, 1)
	r5 := PctChange(closes, 5)
	r30 := PctChange(closes, 30)

	points := make([]models.IndicatorPoint, len(candles))
	for i, c := range candles {
		points[i] = models.IndicatorPoint{
			Time:      c.Time,
			Close:     c.Close,
			RSI:       ptr(rsi[i]),
			MACD:      ptr(macd[i]),
			BBUpper:   ptr(upper[i]),
			BBLower:   ptr(lower[i]),
			Return1d:  ptr(r1[i]),
			Return5d:  ptr(r5[i]),
			Return30d: ptr(r30[i]),
		}
	}
	return &models.MarketSnapshot{
		Symbol:     symbol,
		From:       from,
		To:         to,
		Candles:    candles,
		Indicators: points,
	}
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
