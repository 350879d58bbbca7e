// Package signals turns a feature set into a directional signal using one
// rule per content category.
package signals

import (
	"math"

	"YTM4A/internal/domain/models"
	domsvc "YTM4A/internal/domain/service"
)

const reasonNoMarket = "market indicators unavailable"

// MarketRule covers Finance and Economics: sentiment confirmed by RSI.
type MarketRule struct {
	category models.Category
}

func NewMarketRule(c models.Category) MarketRule { return MarketRule{category: c} }

func (r MarketRule) Category() models.Category { return r.category }

func (r MarketRule) Compute(f models.Features) models.Signal {
	s := models.NeutralSignal(models.HorizonShort)
	if f.RSI == nil {
		s.Reasons = append(s.Reasons, reasonNoMarket)
		return s
	}
	rsi := *f.RSI
	switch {
	case f.Polarity > 0.3 && rsi < 30:
		s.Direction = models.DirectionBuy
		s.Confidence = clamp(math.Abs(f.Polarity) * 2)
		s.Reasons = append(s.Reasons, "Strong positive sentiment with oversold conditions")
	case f.Polarity < -0.3 && rsi > 70:
		s.Direction = models.DirectionSell
		s.Confidence = clamp(math.Abs(f.Polarity) * 2)
		s.Reasons = append(s.Reasons, "Strong negative sentiment with overbought conditions")
	}
	return s
}

// AIRule rewards positive coverage that names several companies.
type AIRule struct{}

func (AIRule) Category() models.Category { return models.CategoryAI }

func (AIRule) Compute(f models.Features) models.Signal {
	s := models.NeutralSignal(models.HorizonMedium)
	if f.Polarity > 0.2 && f.OrgMentions > 3 {
		s.Direction = models.DirectionBuy
		s.Confidence = clamp(f.Polarity + 0.1*float64(f.OrgMentions))
		s.Reasons = append(s.Reasons, "Positive sentiment with multiple company mentions")
	}
	return s
}

// GeopoliticsRule follows strong sentiment about several places.
type GeopoliticsRule struct{}

func (GeopoliticsRule) Category() models.Category { return models.CategoryGeopolitics }

func (GeopoliticsRule) Compute(f models.Features) models.Signal {
	s := models.NeutralSignal(models.HorizonLong)
	if math.Abs(f.Polarity) > 0.4 && f.LocationMentions > 2 {
		s.Direction = models.DirectionSell
		if f.Polarity > 0 {
			s.Direction = models.DirectionBuy
		}
		s.Confidence = clamp(math.Abs(f.Polarity) * 1.5)
		s.Reasons = append(s.Reasons, "Strong sentiment with multiple location mentions")
	}
	return s
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

var (
	_ domsvc.SignalRule = MarketRule{}
	_ domsvc.SignalRule = AIRule{}
	_ domsvc.SignalRule = GeopoliticsRule{}
)
