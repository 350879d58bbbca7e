package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"YTM4A/internal/domain/repository"
	domsvc "YTM4A/internal/domain/service"
	"YTM4A/internal/handler/api"
	internalrepo "YTM4A/internal/repository"
	"YTM4A/internal/service/assemblyai"
	"YTM4A/internal/service/ffmpeg"
	"YTM4A/internal/service/marketdata"
	"YTM4A/internal/service/progress"
	"YTM4A/internal/service/ratelimit"
	"YTM4A/internal/service/ytdlp"
	"YTM4A/internal/services/analytics"
	"YTM4A/internal/services/chart"
	"YTM4A/internal/services/signals"
	"YTM4A/internal/usecase"
	"YTM4A/pkg/cache"
	"YTM4A/pkg/config"
	xhttp "YTM4A/pkg/http"
	"YTM4A/pkg/logger"
	"YTM4A/pkg/metrics"
	"YTM4A/pkg/server"
)

// ProvideLogger creates the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCache creates the memory, redis or layered cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	c, err := cache.New(context.Background(), cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return c, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

func ProvideCategoryStore(cfg *config.Config) repository.CategoryStore {
	return internalrepo.NewCategoryStore(cfg.Storage.BaseDir, cfg.Storage.TempDir)
}

func ProvideTempRegistry(cfg *config.Config, c cache.Service, l *logger.Logger) *internalrepo.CacheTempRegistry {
	return internalrepo.NewTempRegistry(c, cfg.Storage.TempDir, cfg.Storage.TempTTL, l)
}

func ProvideAcquirer(cfg *config.Config, l *logger.Logger) repository.Acquirer {
	return ytdlp.New(cfg.Tools.YtDlp, l,
		ytdlp.WithExtraArgs(cfg.Tools.YtDlpArgs...),
		ytdlp.WithTimeout(cfg.Tools.AcquireTimeout),
	)
}

func ProvideTranscoder(cfg *config.Config, l *logger.Logger) repository.Transcoder {
	return ffmpeg.New(cfg.Tools.FFmpeg, cfg.Tools.Bitrate, cfg.Tools.TranscodeTimeout, l)
}

func ProvideMarketData(cfg *config.Config, c cache.Service, l *logger.Logger) domsvc.MarketData {
	return marketdata.NewClient(l,
		marketdata.WithBaseURL(cfg.Market.BaseURL),
		marketdata.WithRateLimit(cfg.Market.RateLimit),
		marketdata.WithCache(c, cfg.Market.CacheTTL),
		marketdata.WithTimeout(cfg.Market.Timeout),
	)
}

// ProvideAnalyzer returns nil without an AssemblyAI key; the processor then
// runs download-only.
func ProvideAnalyzer(
	cfg *config.Config,
	store repository.CategoryStore,
	market domsvc.MarketData,
	m repository.Metrics,
	l *logger.Logger,
) usecase.MediaAnalyzer {
	if !cfg.AnalysisEnabled() {
		l.Warn("ASSEMBLYAI_API_KEY not set, analysis disabled")
		return nil
	}
	tr := assemblyai.New(cfg.AssemblyAI.APIKey, cfg.AssemblyAI.BaseURL, cfg.AssemblyAI.PollInterval, cfg.AssemblyAI.Timeout, l)
	return usecase.NewAnalyzer(
		tr,
		market,
		analytics.NewOLSPredictor(),
		chart.NewPriceRenderer(),
		signals.Default(),
		store,
		m,
		cfg.Market.LookbackDays,
		l,
	)
}

func ProvideHub(l *logger.Logger) *progress.Hub {
	return progress.NewHub(64, l)
}

func ProvideObserver(hub *progress.Hub) usecase.Observer {
	return hub
}

func ProvideAutoConfirm() usecase.Confirmer {
	return usecase.AutoConfirm{}
}

func ProvideProcessor(
	acq repository.Acquirer,
	tc repository.Transcoder,
	store repository.CategoryStore,
	temps *internalrepo.CacheTempRegistry,
	analyzer usecase.MediaAnalyzer,
	m repository.Metrics,
	observer usecase.Observer,
	confirmer usecase.Confirmer,
	l *logger.Logger,
) *usecase.Processor {
	return usecase.NewProcessor(acq, tc, store, temps, analyzer, m, l,
		usecase.WithObserver(observer),
		usecase.WithConfirmer(confirmer),
	)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.ProcessBurst, cfg.Server.ProcessRate)
}

func ProvideHandler(
	proc *usecase.Processor,
	store repository.CategoryStore,
	temps *internalrepo.CacheTempRegistry,
	hub *progress.Hub,
	limiter *ratelimit.Limiter,
	l *logger.Logger,
) *api.Handler {
	return api.NewHandler(proc, store, temps, hub, limiter, l)
}

func ProvideHTTPServer(cfg *config.Config, h *api.Handler, l *logger.Logger) *xhttp.Server {
	path := ""
	if cfg.Metrics.Enabled {
		path = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(path),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	temps *internalrepo.CacheTempRegistry,
	limiter *ratelimit.Limiter,
	c cache.Service,
	l *logger.Logger,
) *server.App {
	return server.New(srv, temps, limiter, cfg.Storage.SweepEach, l, c)
}
