package models

import "time"

// Direction is the trading direction a signal recommends.
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// Horizon is the holding period a signal is meant for.
type Horizon string

const (
	HorizonShort  Horizon = "SHORT_TERM"
	HorizonMedium Horizon = "MEDIUM_TERM"
	HorizonLong   Horizon = "LONG_TERM"
)

// Signal is a directional recommendation derived from engineered features.
type Signal struct {
	Direction  Direction `json:"direction"`
	Confidence float64   `json:"confidence"` // clamped to [0,1]
	Horizon    Horizon   `json:"horizon"`
	Reasons    []string  `json:"reasoning"`
}

// NeutralSignal returns an empty signal for the horizon.
func NeutralSignal(h Horizon) Signal {
	return Signal{Direction: DirectionNeutral, Horizon: h, Reasons: []string{}}
}

// Prediction is the output of the sentiment/returns regression.
type Prediction struct {
	Intercept     float64          `json:"intercept"`
	SentimentCoef float64          `json:"sentiment_coef"`
	ReturnsCoef   float64          `json:"returns_coef"`
	RSquared      float64          `json:"r_squared"`
	Days          []PredictedPrice `json:"predictions"`
}

// PredictedPrice is one projected trading day.
type PredictedPrice struct {
	Day             int       `json:"day"`
	Date            time.Time `json:"date"`
	PredictedReturn float64   `json:"predicted_return"`
	PredictedPrice  float64   `json:"predicted_price"`
}
