package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"YTM4A/internal/domain/models"
	domrepo "YTM4A/internal/domain/repository"
	domsvc "YTM4A/internal/domain/service"
	"YTM4A/internal/services/features"
	"YTM4A/internal/services/signals"
	"YTM4A/pkg/logger"
)

// Analyzer runs transcript -> features -> signal -> prediction for one
// persisted audio asset.
type Analyzer struct {
	transcriber domsvc.Transcriber
	market      domsvc.MarketData
	predictor   domsvc.Predictor
	charts      domsvc.ChartRenderer
	dispatcher  *signals.Dispatcher
	store       domrepo.CategoryStore
	metrics     domrepo.Metrics
	lookback    int
	now         func() time.Time
	log         *logger.Logger
}

// NewAnalyzer wires the analysis stage. market, predictor and charts may be
// nil; the matching outputs are then omitted.
func NewAnalyzer(
	transcriber domsvc.Transcriber,
	market domsvc.MarketData,
	predictor domsvc.Predictor,
	charts domsvc.ChartRenderer,
	dispatcher *signals.Dispatcher,
	store domrepo.CategoryStore,
	metrics domrepo.Metrics,
	lookbackDays int,
	l *logger.Logger,
) *Analyzer {
	if lookbackDays <= 0 {
		lookbackDays = 60
	}
	if dispatcher == nil {
		dispatcher = signals.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Analyzer{
		transcriber: transcriber,
		market:      market,
		predictor:   predictor,
		charts:      charts,
		dispatcher:  dispatcher,
		store:       store,
		metrics:     metrics,
		lookback:    lookbackDays,
		now:         time.Now,
		log:         l.Component("analyzer"),
	}
}

// WithClock overrides the time source.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze transcribes asset's audio, derives the signal and writes the
// analysis JSON (plus a price chart when ticker is set) next to it.
func (a *Analyzer) Analyze(ctx context.Context, asset models.MediaAsset, category models.Category, ticker string) (*models.AnalysisResult, error) {
	tr, err := a.transcriber.Transcribe(ctx, asset.AudioPath())
	if err != nil {
		return nil, analysisError("transcription", err)
	}

	summary := features.SummarizeSentiment(tr.Sentences)
	entities := features.BucketEntities(tr.Entities)

	var snap *models.MarketSnapshot
	if ticker != "" {
		snap = a.snapshot(ctx, ticker)
	}

	feats := features.Build(category, summary, entities, snap)
	signal, err := a.dispatcher.Dispatch(feats)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordSignal(category.String(), string(signal.Direction))

	result := &models.AnalysisResult{
		Category:    category,
		Ticker:      ticker,
		Transcript:  tr.Text,
		Utterances:  tr.Utterances,
		Chapters:    tr.Chapters,
		Entities:    entities,
		Sentiment:   summary,
		Features:    feats,
		Signal:      signal,
		Market:      snap,
		ProcessedAt: a.now(),
	}

	if snap != nil && a.predictor != nil {
		pred, err := a.predictor.Predict(summary.Score, snap.Candles)
		if err != nil {
			a.log.Warn("prediction skipped", logger.String("ticker", ticker), logger.Error(err))
		} else {
			result.Prediction = pred
		}
	}

	if err := a.store.WriteJSON(asset.AnalysisPath(), result); err != nil {
		return nil, analysisError("write analysis", err)
	}

	if snap != nil && a.charts != nil {
		err := a.store.WriteFile(asset.ChartPath(), func(w io.Writer) error {
			return a.charts.RenderPrice(w, ticker, snap)
		})
		if err != nil {
			a.log.Warn("chart not rendered", logger.String("path", asset.ChartPath()), logger.Error(err))
		}
	}

	a.log.Info("analysis complete",
		logger.String("stem", asset.Stem),
		logger.String("category", category.String()),
		logger.String("direction", string(signal.Direction)),
		logger.Float64("confidence", signal.Confidence),
	)
	return result, nil
}

// snapshot returns nil when market data is unavailable; the rules then
// report a neutral signal.
func (a *Analyzer) snapshot(ctx context.Context, ticker string) *models.MarketSnapshot {
	if a.market == nil {
		return nil
	}
	to := a.now()
	from := to.AddDate(0, 0, -a.lookback)
	candles, err := a.market.DailyCandles(ctx, ticker, from, to)
	if err != nil {
		a.log.Warn("market data unavailable", logger.String("ticker", ticker), logger.Error(err))
		return nil
	}
	if len(candles) == 0 {
		a.log.Warn("market data empty", logger.String("ticker", ticker))
		return nil
	}
	return features.BuildSnapshot(ticker, from, to, candles)
}

func analysisError(stage string, err error) error {
	if errors.Is(err, models.ErrAnalysis) {
		return err
	}
	return &models.PipelineError{
		Kind:    models.KindAnalysis,
		Message: fmt.Sprintf("Analysis failed during %s", stage),
		Err:     err,
	}
}
