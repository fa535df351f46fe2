package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samirrijal/railboard/internal/app"
	"github.com/samirrijal/railboard/internal/core/usecases"
	"github.com/samirrijal/railboard/internal/pkg/config"
	"github.com/samirrijal/railboard/internal/pkg/logging"
	"github.com/samirrijal/railboard/internal/pkg/telemetry"
)

// Scrapes every configured origin once, publishes the boards and exits.
// Exit status is 1 when the run fails and 2 when a best-effort run left
// some origins out.
func main() {
	os.Exit(run())
}

func run() int {
	modeFlag := flag.String("mode", "", "scrape mode: fail_fast or best_effort (default from config)")
	flag.Parse()

	cfg, err := config.Load("railboard-scraper")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	modeName := cfg.Scrape.Mode
	if *modeFlag != "" {
		modeName = *modeFlag
	}
	mode, err := usecases.ParseScrapeMode(modeName)
	if err != nil {
		log.Fatalf("mode: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	components, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("build components", "error", err)
		return 1
	}
	defer components.Close()

	publisher, closePublisher, err := app.NewPublisher(cfg, os.Stdout)
	if err != nil {
		slog.Error("build publisher", "error", err)
		return 1
	}
	defer closePublisher()

	pipeline := usecases.NewPipelineService(components.Config, components.Scraper, publisher)
	report, err := pipeline.Run(ctx, mode)
	if err != nil {
		slog.Error("scrape run failed", "run_id", report.RunID, "error", err)
	}
	for _, f := range report.Failed {
		slog.Warn("origin skipped", "run_id", report.RunID, "origin", f.Origin, "error", f.Error)
	}
	return exitCode(report, err)
}

func exitCode(report *usecases.RunReport, err error) int {
	switch {
	case err != nil:
		return 1
	case len(report.Failed) > 0:
		return 2
	default:
		return 0
	}
}
