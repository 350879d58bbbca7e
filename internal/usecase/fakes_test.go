package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
	"YTM4A/internal/repository"
	"YTM4A/pkg/cache"
	"YTM4A/pkg/logger"
)

var fixedNow = time.Date(2025, 1, 22, 15, 4, 5, 0, time.UTC)

type fakeAcquirer struct {
	mu    sync.Mutex
	calls int
	meta  models.Metadata
	err   error
}

func (f *fakeAcquirer) Acquire(_ context.Context, src models.VideoSource, dir string) (*models.Download, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p := filepath.Join(dir, "og_tok_"+f.meta.Title()+".m4a")
	if err := os.WriteFile(p, []byte("original"), 0o644); err != nil {
		return nil, err
	}
	return &models.Download{TempPath: p, Metadata: f.meta}, nil
}

func (f *fakeAcquirer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTranscoder struct {
	err error
}

func (f *fakeTranscoder) Transcode(_ context.Context, src, dst string) error {
	if f.err != nil {
		return f.err
	}
	if err := os.WriteFile(dst, []byte("compressed"), 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}

type fakeAnalyzer struct {
	calls  int
	result *models.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, asset models.MediaAsset, category models.Category, ticker string) (*models.AnalysisResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.Category, r.Ticker = category, ticker
	return &r, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	states []models.State
	events []models.ProgressEvent
}

func (o *recordingObserver) Publish(ev models.ProgressEvent) {
	o.mu.Lock()
	o.states = append(o.states, ev.State)
	o.events = append(o.events, ev)
	o.mu.Unlock()
}

func (o *recordingObserver) message(state models.State) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ev := range o.events {
		if ev.State == state {
			return ev.Message
		}
	}
	return ""
}

type declineConfirmer struct{ asked int }

func (d *declineConfirmer) Confirm(context.Context, string) (bool, error) {
	d.asked++
	return false, nil
}

type fakeTranscriber struct {
	tr  *models.Transcript
	err error
}

func (f fakeTranscriber) Transcribe(context.Context, string) (*models.Transcript, error) {
	return f.tr, f.err
}

type fakeMarket struct {
	candles []models.Candle
	err     error
}

func (f fakeMarket) DailyCandles(context.Context, string, time.Time, time.Time) ([]models.Candle, error) {
	return f.candles, f.err
}

type harness struct {
	base, temp string
	store      *repository.FileCategoryStore
	temps      *repository.CacheTempRegistry
	acq        *fakeAcquirer
	tc         *fakeTranscoder
	obs        *recordingObserver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		base: filepath.Join(root, "downloads"),
		temp: filepath.Join(root, "downloads", "temp"),
		acq:  &fakeAcquirer{meta: models.Metadata{"title": "Test Video", "duration_string": "3:12"}},
		tc:   &fakeTranscoder{},
		obs:  &recordingObserver{},
	}
	h.store = repository.NewCategoryStore(h.base, h.temp)
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	h.temps = repository.NewTempRegistry(mc, h.temp, time.Hour, logger.NewNop())
	return h
}

func (h *harness) processor(analyzer MediaAnalyzer, opts ...ProcessorOption) *Processor {
	opts = append([]ProcessorOption{
		WithObserver(h.obs),
		WithClock(func() time.Time { return fixedNow }),
		WithRequestIDs(func() string { return "req-1" }),
	}, opts...)
	return NewProcessor(h.acq, h.tc, h.store, h.temps, analyzer, nil, logger.NewNop(), opts...)
}

func requireFile(t *testing.T, p string) {
	t.Helper()
	_, err := os.Stat(p)
	require.NoError(t, err, p)
}

var errBoom = errors.New("boom")
