package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
)

func candles(closes ...float64) []models.Candle {
	// Friday
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Time: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func TestPredictInsufficientData(t *testing.T) {
	_, err := NewOLSPredictor().Predict(0.7, candles(100, 101, 102, 103, 104, 105))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAnalysis)
	assert.Contains(t, err.Error(), "Insufficient data for prediction")
}

func TestPredictConstantGrowth(t *testing.T) {
	closes := make([]float64, 30)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.01
	}
	p, err := NewOLSPredictor().Predict(0.6, candles(closes...))
	require.NoError(t, err)

	require.Len(t, p.Days, Horizon)
	assert.InDelta(t, 0.0, p.SentimentCoef, 1e-12, "constant regressor")
	assert.InDelta(t, 0.01, p.Days[0].PredictedReturn, 1e-6)

	price := closes[len(closes)-1]
	for i, d := range p.Days {
		assert.Equal(t, i+1, d.Day)
		assert.InDelta(t, p.Days[0].PredictedReturn*(1-Decay*float64(i)), d.PredictedReturn, 1e-12)
		price *= 1 + d.PredictedReturn
		assert.InDelta(t, price, d.PredictedPrice, 1e-9)
		assert.NotEqual(t, time.Saturday, d.Date.Weekday())
		assert.NotEqual(t, time.Sunday, d.Date.Weekday())
	}
}

func TestPredictFitsNoisySeries(t *testing.T) {
	closes := make([]float64, 60)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * (1 + 0.01*math.Sin(float64(i)/3))
	}
	p, err := NewOLSPredictor().Predict(0.3, candles(closes...))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, p.RSquared, 0.0)
	assert.LessOrEqual(t, p.RSquared, 1.0)
	assert.Greater(t, p.ReturnsCoef, 0.0, "returns are autocorrelated")
	assert.False(t, math.IsNaN(p.Intercept))
	assert.True(t, p.Days[0].Date.After(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
}
