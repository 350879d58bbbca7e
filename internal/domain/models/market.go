package models

import "time"

// Candle is one daily OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IndicatorPoint holds the technical indicators computed for one bar. Values
// are nil while the indicator's lookback window is not yet filled.
type IndicatorPoint struct {
	Time      time.Time `json:"time"`
	Close     float64   `json:"close"`
	RSI       *float64  `json:"rsi,omitempty"`
	MACD      *float64  `json:"macd,omitempty"`
	BBUpper   *float64  `json:"bb_upper,omitempty"`
	BBLower   *float64  `json:"bb_lower,omitempty"`
	Return1d  *float64  `json:"returns_1d,omitempty"`
	Return5d  *float64  `json:"returns_5d,omitempty"`
	Return30d *float64  `json:"returns_30d,omitempty"`
}

// MarketSnapshot is the market data attached to an analysis.
type MarketSnapshot struct {
	Symbol     string           `json:"symbol"`
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	Candles    []Candle         `json:"-"`
	Indicators []IndicatorPoint `json:"indicators"`
}

// Latest returns the last indicator row, or nil.
func (m *MarketSnapshot) Latest() *IndicatorPoint {
	if m == nil || len(m.Indicators) == 0 {
		return nil
	}
	return &m.Indicators[len(m.Indicators)-1]
}
