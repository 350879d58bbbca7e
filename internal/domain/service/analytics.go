package service

import (
	"context"
	"io"
	"time"

	"YTM4A/internal/domain/models"
)

// Transcriber turns an audio file into a transcript with speakers, chapters,
// entities and sentence sentiment.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error)
}

// MarketData returns daily candles for symbol in [from, to].
type MarketData interface {
	DailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
}

// Predictor projects forward returns from sentiment and recent returns.
type Predictor interface {
	Predict(sentiment float64, candles []models.Candle) (*models.Prediction, error)
}

// ChartRenderer draws a price chart for a market snapshot.
type ChartRenderer interface {
	RenderPrice(w io.Writer, symbol string, snap *models.MarketSnapshot) error
}

// SignalRule is the per-category rule capability.
type SignalRule interface {
	Category() models.Category
	Compute(f models.Features) models.Signal
}
