package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"YTM4A/internal/domain/models"
	domrepo "YTM4A/internal/domain/repository"
	"YTM4A/internal/service/media"
	"YTM4A/pkg/logger"
)

// ConfirmPrompt is shown before analysis by interactive confirmers.
const ConfirmPrompt = "Continue? (y/n)"

// Observer receives every state transition of a request.
type Observer interface {
	Publish(ev models.ProgressEvent)
}

// MediaAnalyzer is the analysis stage as seen by the processor.
type MediaAnalyzer interface {
	Analyze(ctx context.Context, asset models.MediaAsset, category models.Category, ticker string) (*models.AnalysisResult, error)
}

// Processor drives one request through
// Validating -> Acquiring -> Transcoding -> Persisting ->
// [AwaitingConfirmation -> Analyzing] -> Completed.
type Processor struct {
	acquirer   domrepo.Acquirer
	transcoder domrepo.Transcoder
	store      domrepo.CategoryStore
	temps      domrepo.TempRegistry
	analyzer   MediaAnalyzer
	metrics    domrepo.Metrics
	observer   Observer
	confirmer  Confirmer
	now        func() time.Time
	newID      func() string
	log        *logger.Logger
}

type ProcessorOption func(*Processor)

func WithObserver(o Observer) ProcessorOption { return func(p *Processor) { p.observer = o } }

func WithConfirmer(c Confirmer) ProcessorOption { return func(p *Processor) { p.confirmer = c } }

func WithClock(now func() time.Time) ProcessorOption { return func(p *Processor) { p.now = now } }

func WithRequestIDs(fn func() string) ProcessorOption { return func(p *Processor) { p.newID = fn } }

// NewProcessor builds the orchestrator. analyzer may be nil, in which case
// every request behaves as download-only.
func NewProcessor(
	acquirer domrepo.Acquirer,
	transcoder domrepo.Transcoder,
	store domrepo.CategoryStore,
	temps domrepo.TempRegistry,
	analyzer MediaAnalyzer,
	metrics domrepo.Metrics,
	l *logger.Logger,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		acquirer:   acquirer,
		transcoder: transcoder,
		store:      store,
		temps:      temps,
		analyzer:   analyzer,
		metrics:    metrics,
		observer:   nopObserver{},
		confirmer:  AutoConfirm{},
		now:        time.Now,
		newID:      uuid.NewString,
		log:        l.Component("processor"),
	}
	if p.metrics == nil {
		p.metrics = nopMetrics{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnalysisEnabled reports whether requests can reach Analyzing.
func (p *Processor) AnalysisEnabled() bool { return p.analyzer != nil }

// run tracks the current state of one request.
type run struct {
	id      string
	state   models.State
	entered time.Time
	log     *logger.Logger
}

func (p *Processor) enter(r *run, next models.State, msg string) {
	now := p.now()
	if r.state != "" {
		p.metrics.RecordStage(string(r.state), now.Sub(r.entered).Seconds())
	}
	r.state, r.entered = next, now
	r.log.Debug("state", logger.String("state", string(next)), logger.String("message", msg))
	p.observer.Publish(models.ProgressEvent{RequestID: r.id, State: next, Message: msg, At: now})
}

func (p *Processor) fail(r *run, err error) error {
	kind := models.KindOf(err)
	if kind == "" {
		kind = "Internal"
	}
	p.enter(r, models.StateFailed, err.Error())
	p.metrics.RecordError(string(kind))
	p.metrics.RecordRequest(models.StatusError)
	r.log.Error("request failed", logger.String("kind", string(kind)), logger.Error(err))
	return err
}

type validated struct {
	src      models.VideoSource
	category models.Category
	ticker   string
}

// validate performs no I/O.
func validate(req models.ProcessRequest) (validated, error) {
	var v validated
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Category) == "" {
		return v, models.NewError(models.KindValidation, "Missing required fields: url and category")
	}
	cat, ok := models.ParseCategory(req.Category)
	if !ok {
		return v, models.NewError(models.KindValidation, "Invalid category: %s", req.Category)
	}
	v.category = cat
	v.ticker = strings.ToUpper(strings.TrimSpace(req.TickerSymbol))
	if cat.RequiresTicker() && v.ticker == "" {
		return v, models.NewError(models.KindValidation, "Ticker symbol required for %s category", cat)
	}
	src, err := media.NewVideoSource(req.URL)
	if err != nil {
		return v, err
	}
	v.src = src
	return v, nil
}

// Process runs req to a terminal state. A declined confirmation is not an
// error: the result carries status "cancelled".
func (p *Processor) Process(ctx context.Context, req models.ProcessRequest) (*models.ProcessResult, error) {
	r := &run{id: p.newID()}
	r.log = p.log.With(logger.String("request_id", r.id))

	p.enter(r, models.StateValidating, req.URL)
	v, err := validate(req)
	if err != nil {
		return nil, p.fail(r, err)
	}

	var dir string
	if req.MacDownload {
		dir, err = p.store.EnsureTempDir()
	} else {
		dir, err = p.store.EnsureDir(v.category)
	}
	if err != nil {
		return nil, p.fail(r, fmt.Errorf("prepare output directory: %w", err))
	}

	p.enter(r, models.StateAcquiring, v.src.ID)
	dl, err := p.acquirer.Acquire(ctx, v.src, dir)
	if err != nil {
		return nil, p.fail(r, err)
	}

	title := strings.TrimSpace(req.CustomTitle)
	if title == "" {
		title = dl.Metadata.Title()
	}
	if title == "" {
		title = v.src.ID
	}
	asset, err := p.store.NewAsset(dir, title, p.now())
	if err != nil {
		return nil, p.fail(r, err)
	}

	p.enter(r, models.StateTranscoding, fmt.Sprintf("%s (%s)", asset.AudioName(), dl.Metadata.DurationString()))
	if err := p.transcoder.Transcode(ctx, dl.TempPath, asset.AudioPath()); err != nil {
		p.store.Release(asset)
		return nil, p.fail(r, err)
	}

	p.enter(r, models.StatePersisting, asset.MetadataName())
	err = p.store.WriteJSON(asset.MetadataPath(), dl.Metadata)
	p.store.Release(asset)
	if err != nil {
		return nil, p.fail(r, fmt.Errorf("write metadata: %w", err))
	}

	res := &models.ProcessResult{
		Status:   models.StatusSuccess,
		Message:  "Successfully downloaded and processed audio",
		Filename: asset.AudioName(),
		Category: v.category,
	}
	if req.MacDownload {
		if err := p.attachTempURLs(ctx, res, asset); err != nil {
			return nil, p.fail(r, err)
		}
	}

	if req.DownloadOnly || p.analyzer == nil {
		p.complete(r, res)
		return res, nil
	}

	if _, auto := p.confirmer.(AutoConfirm); !auto {
		p.enter(r, models.StateAwaitingConfirmation, ConfirmPrompt)
		ok, err := p.confirmer.Confirm(ctx, ConfirmPrompt)
		if err != nil {
			return nil, p.fail(r, err)
		}
		if !ok {
			p.enter(r, models.StateCancelled, "analysis declined")
			p.metrics.RecordRequest(models.StatusCancelled)
			res.Status = models.StatusCancelled
			res.Message = "Analysis cancelled by user"
			return res, nil
		}
	}

	p.enter(r, models.StateAnalyzing, asset.Stem)
	analysis, err := p.analyzer.Analyze(ctx, asset, v.category, v.ticker)
	if err != nil {
		if !errors.Is(err, models.ErrAnalysis) && !errors.Is(err, models.ErrUnknownCategory) {
			err = analysisError("analysis", err)
		}
		return nil, p.fail(r, err)
	}
	res.Analysis = analysis
	res.Message = "Successfully downloaded, processed and analyzed audio"
	p.complete(r, res)
	return res, nil
}

func (p *Processor) complete(r *run, res *models.ProcessResult) {
	p.enter(r, models.StateCompleted, res.Filename)
	p.metrics.RecordRequest(models.StatusSuccess)
	r.log.Info("request completed",
		logger.String("filename", res.Filename),
		logger.String("category", res.Category.String()),
	)
}

func (p *Processor) attachTempURLs(ctx context.Context, res *models.ProcessResult, asset models.MediaAsset) error {
	audioKey, err := p.temps.Register(ctx, asset.AudioPath())
	if err != nil {
		return fmt.Errorf("register audio: %w", err)
	}
	metaKey, err := p.temps.Register(ctx, asset.MetadataPath())
	if err != nil {
		return fmt.Errorf("register metadata: %w", err)
	}
	res.AudioURL = TempDownloadURL(asset.AudioName(), audioKey)
	res.MetadataURL = TempDownloadURL(asset.MetadataName(), metaKey)
	return nil
}

// TempDownloadURL is the relative URL serving a registry-keyed file.
func TempDownloadURL(filename, key string) string {
	return "/download/temp/" + url.PathEscape(filename) + "?key=" + url.QueryEscape(key)
}

type nopObserver struct{}

func (nopObserver) Publish(models.ProgressEvent) {}

type nopMetrics struct{}

func (nopMetrics) RecordStage(string, float64) {}
func (nopMetrics) RecordError(string)          {}
func (nopMetrics) RecordSignal(string, string) {}
func (nopMetrics) RecordRequest(string)        {}
