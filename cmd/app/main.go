// Command app serves the browser extension: POST /process, downloads and
// the progress websocket.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"YTM4A/internal/di"
	"YTM4A/pkg/config"
	"YTM4A/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	port := flag.Int("port", 0, "listen port, overrides server.port")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	l, err := di.ProvideLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	l.Info("starting",
		logger.String("env", cfg.Environment),
		logger.String("base_dir", cfg.Storage.BaseDir),
		logger.Int("port", cfg.Server.Port),
		logger.String("cache", cfg.Cache.Type),
		logger.Bool("analysis", cfg.AnalysisEnabled()),
	)
	for _, tool := range []string{cfg.Tools.YtDlp, cfg.Tools.FFmpeg} {
		if _, err := exec.LookPath(tool); err != nil {
			l.Warn("external tool not found on PATH", logger.String("tool", tool))
		}
	}

	app, err := di.InitializeApp(cfg, l)
	if err != nil {
		l.Error("app initialization failed", logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		l.Error("app stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
