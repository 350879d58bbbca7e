package features

import (
	"YTM4A/internal/domain/models"
)

// Build assembles the feature set. snap may be nil, in which case the market
// features stay nil.
func Build(category models.Category, s models.SentimentSummary, entities map[string][]string, snap *models.MarketSnapshot) models.Features {
	f := models.Features{
		Category:         category,
		Polarity:         s.Polarity,
		Subjectivity:     s.Subjectivity,
		SentimentLabel:   s.Label,
		SentimentScore:   s.Score,
		PersonMentions:   len(entities[models.EntityPerson]),
		OrgMentions:      len(entities[models.EntityOrg]),
		LocationMentions: len(entities[models.EntityGPE]),
		MoneyMentions:    len(entities[models.EntityMoney]),
	}

	if last := snap.Latest(); last != nil {
		f.RSI = last.RSI
		f.MACD = last.MACD
	}
	if snap != nil {
		if v, ok := Volatility(Closes(snap.Candles)); ok {
			f.Volatility = &v
		}
	}
	return f
}
