// Command cli processes one video interactively, asking before analysis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"YTM4A/internal/di"
	"YTM4A/internal/domain/models"
	"YTM4A/internal/usecase"
	"YTM4A/pkg/config"
)

type consoleObserver struct{}

func (consoleObserver) Publish(ev models.ProgressEvent) {
	if ev.Message != "" {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.State, ev.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "[%s]\n", ev.State)
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	url := flag.String("url", "", "YouTube URL")
	category := flag.String("category", "", "Finance, Economics, AI or Geopolitics")
	ticker := flag.String("ticker", "", "ticker symbol (required for Finance and Economics)")
	title := flag.String("title", "", "custom title for the output file")
	downloadOnly := flag.Bool("download-only", false, "skip analysis")
	yes := flag.Bool("y", false, "analyze without asking")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	var confirmer usecase.Confirmer = usecase.NewPromptConfirmer(os.Stdin, os.Stdout)
	if *yes {
		confirmer = usecase.AutoConfirm{}
	}

	proc, err := di.InitializeCLI(cfg, consoleObserver{}, confirmer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := proc.Process(ctx, models.ProcessRequest{
		URL:          *url,
		Category:     *category,
		TickerSymbol: *ticker,
		CustomTitle:  *title,
		DownloadOnly: *downloadOnly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
}
