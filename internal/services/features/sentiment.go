package features

import (
	"strings"

	"YTM4A/internal/domain/models"
)

// SummarizeSentiment folds sentence classifications into one score in [0,1]
// where 0.5 is neutral. A POSITIVE sentence contributes its confidence, a
// NEGATIVE one 1-confidence and a NEUTRAL one 0.5. The label is the most
// frequent class; ties go to NEUTRAL.
func SummarizeSentiment(sentences []models.SentenceSentiment) models.SentimentSummary {
	dist := map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	if len(sentences) == 0 {
		dist[models.SentimentNeutral] = 1
		return models.SentimentSummary{
			Label:        models.SentimentNeutral,
			Score:        0.5,
			Polarity:     0,
			Subjectivity: 0,
			Distribution: dist,
		}
	}

	total := 0.0
	for _, s := range sentences {
		conf := clamp01(s.Confidence)
		switch strings.ToUpper(s.Label) {
		case models.SentimentPositive:
			dist[models.SentimentPositive]++
			total += conf
		case models.SentimentNegative:
			dist[models.SentimentNegative]++
			total += 1 - conf
		default:
			dist[models.SentimentNeutral]++
			total += 0.5
		}
	}

	n := float64(len(sentences))
	score := total / n
	label := models.SentimentNeutral
	switch {
	case dist[models.SentimentPositive] > dist[models.SentimentNegative] &&
		dist[models.SentimentPositive] > dist[models.SentimentNeutral]:
		label = models.SentimentPositive
	case dist[models.SentimentNegative] > dist[models.SentimentPositive] &&
		dist[models.SentimentNegative] > dist[models.SentimentNeutral]:
		label = models.SentimentNegative
	}

	return models.SentimentSummary{
		Label:        label,
		Score:        score,
		Polarity:     2*score - 1,
		Subjectivity: float64(dist[models.SentimentPositive]+dist[models.SentimentNegative]) / n,
		Distribution: dist,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
