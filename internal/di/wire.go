//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"YTM4A/internal/usecase"
	"YTM4A/pkg/config"
	"YTM4A/pkg/logger"
	"YTM4A/pkg/server"
)

var pipelineSet = wire.NewSet(
	ProvideCache,
	ProvideMetrics,
	ProvideCategoryStore,
	ProvideTempRegistry,
	ProvideAcquirer,
	ProvideTranscoder,
	ProvideMarketData,
	ProvideAnalyzer,
	ProvideProcessor,
)

// InitializeApp wires up all dependencies and returns the application.
// The caller owns the root logger so startup messages share its output.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, l *logger.Logger) (*server.App, error) {
	wire.Build(
		pipelineSet,

		// Progress stream and confirmation
		ProvideHub,
		ProvideObserver,
		ProvideAutoConfirm,

		// HTTP
		ProvideLimiter,
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeCLI wires the processor for the interactive runner.
func InitializeCLI(cfg *config.Config, observer usecase.Observer, confirmer usecase.Confirmer) (*usecase.Processor, error) {
	wire.Build(ProvideLogger, pipelineSet)
	return &usecase.Processor{}, nil
}
