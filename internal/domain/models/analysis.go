package models

import "time"

// Sentiment labels as reported by the transcription provider.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Entity buckets used by the feature set.
const (
	EntityOrg     = "ORG"
	EntityPerson  = "PERSON"
	EntityGPE     = "GPE"
	EntityMoney   = "MONEY"
	EntityPercent = "PERCENT"
)

// Utterance is one speaker-attributed segment. Offsets are milliseconds.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Chapter is an auto-generated summary of a transcript section.
type Chapter struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Gist     string `json:"gist,omitempty"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
}

// Entity is a named entity detected in the transcript.
type Entity struct {
	Type string `json:"entity_type"`
	Text string `json:"text"`
}

// SentenceSentiment is a per-sentence classification.
type SentenceSentiment struct {
	Text       string  `json:"text"`
	Label      string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Transcript is what the transcription provider returns for one audio file.
type Transcript struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	Utterances []Utterance         `json:"utterances"`
	Chapters   []Chapter           `json:"chapters"`
	Entities   []Entity            `json:"entities"`
	Sentences  []SentenceSentiment `json:"sentiment_analysis_results"`
}

// SentimentSummary aggregates sentence-level sentiment.
type SentimentSummary struct {
	Label        string         `json:"label"`
	Score        float64        `json:"score"`
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
	Distribution map[string]int `json:"distribution"`
}

// Features is the bounded set of engineered inputs to the signal rules.
type Features struct {
	Category         Category `json:"category"`
	Polarity         float64  `json:"sentiment_polarity"`
	Subjectivity     float64  `json:"sentiment_subjectivity"`
	SentimentLabel   string   `json:"sentiment_label"`
	SentimentScore   float64  `json:"sentiment_score"`
	PersonMentions   int      `json:"person_mentions"`
	OrgMentions      int      `json:"org_mentions"`
	LocationMentions int      `json:"location_mentions"`
	MoneyMentions    int      `json:"money_mentions"`
	RSI              *float64 `json:"rsi"`
	MACD             *float64 `json:"macd"`
	Volatility       *float64 `json:"volatility"`
}

// AnalysisResult is persisted as the "_analysis.json" sibling.
type AnalysisResult struct {
	Category    Category            `json:"category"`
	Ticker      string              `json:"ticker_symbol,omitempty"`
	Transcript  string              `json:"transcript"`
	Utterances  []Utterance         `json:"speakers"`
	Chapters    []Chapter           `json:"chapters"`
	Entities    map[string][]string `json:"entities"`
	Sentiment   SentimentSummary    `json:"sentiment"`
	Features    Features            `json:"features"`
	Signal      Signal              `json:"signal"`
	Prediction  *Prediction         `json:"predictions,omitempty"`
	Market      *MarketSnapshot     `json:"market_data,omitempty"`
	ProcessedAt time.Time           `json:"processed_date"`
}
