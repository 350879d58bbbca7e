package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "YTM4A/pkg/http"
	applogger "YTM4A/pkg/logger"
)

// Sweeper evicts expired temporary files.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Pruner forgets idle rate-limit buckets.
type Pruner interface {
	Prune(idle time.Duration) int
}

// App encapsulates the application lifecycle: the HTTP server plus the
// housekeeping loop.
type App struct {
	httpServer *xhttp.Server
	sweeper    Sweeper
	pruner     Pruner
	interval   time.Duration
	closers    []io.Closer
	log        *applogger.Logger
}

// New creates a new App. sweeper and pruner may be nil.
func New(
	srv *xhttp.Server,
	sweeper Sweeper,
	pruner Pruner,
	interval time.Duration,
	l *applogger.Logger,
	closers ...io.Closer,
) *App {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &App{
		httpServer: srv,
		sweeper:    sweeper,
		pruner:     pruner,
		interval:   interval,
		closers:    closers,
		log:        l.Component("app"),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext runs until ctx is cancelled, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.housekeeping(ctx)
	}()

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	<-done
	return a.shutdown()
}

func (a *App) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick(ctx)
		}
	}
}

// Tick runs one housekeeping pass.
func (a *App) Tick(ctx context.Context) {
	if a.sweeper != nil {
		n, err := a.sweeper.Sweep(ctx)
		if err != nil {
			a.log.Warn("temp sweep failed", applogger.Error(err))
		} else if n > 0 {
			a.log.Info("temp files evicted", applogger.Int("count", n))
		}
	}
	if a.pruner != nil {
		if n := a.pruner.Prune(2 * a.interval); n > 0 {
			a.log.Debug("rate limit buckets pruned", applogger.Int("count", n))
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
