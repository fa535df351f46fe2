package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/railboard/internal/app"
	"github.com/samirrijal/railboard/internal/core/usecases"
	"github.com/samirrijal/railboard/internal/pkg/config"
	"github.com/samirrijal/railboard/internal/pkg/logging"
	"github.com/samirrijal/railboard/internal/workflows"
)

// Runs the scrape workflow worker. With -trigger it starts one workflow
// run, waits for its report and exits instead.
func main() {
	trigger := flag.Bool("trigger", false, "start one scrape workflow and wait for it")
	modeFlag := flag.String("mode", "", "scrape mode for -trigger (default from config)")
	flag.Parse()

	cfg, err := config.Load("railboard-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	if *trigger {
		os.Exit(runOnce(c, cfg, *modeFlag))
	}

	ctx := context.Background()
	components, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	defer components.Close()

	publisher, closePublisher, err := app.NewPublisher(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("publisher: %v", err)
	}
	defer closePublisher()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.ScrapePublishWorkflow)
	w.RegisterActivity(&workflows.ScrapeActivities{
		Config:    components.Config,
		Scraper:   components.Scraper,
		Publisher: publisher,
	})

	slog.Info("scrape worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		slog.Error("worker stopped", "error", err)
	}
}

func runOnce(c client.Client, cfg *config.Config, modeName string) int {
	if modeName == "" {
		modeName = cfg.Scrape.Mode
	}
	mode, err := usecases.ParseScrapeMode(modeName)
	if err != nil {
		slog.Error("invalid mode", "error", err)
		return 1
	}

	ctx := context.Background()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "scrape-" + uuid.NewString(),
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.ScrapePublishWorkflow, workflows.ScrapePublishInput{Mode: mode})
	if err != nil {
		slog.Error("start workflow", "error", err)
		return 1
	}

	var report usecases.RunReport
	if err := run.Get(ctx, &report); err != nil {
		slog.Error("scrape workflow failed", "workflow_id", run.GetID(), "error", err)
		return 1
	}
	slog.Info("scrape workflow finished",
		"workflow_id", run.GetID(),
		"published", report.Published,
		"failed", len(report.Failed),
	)
	if len(report.Failed) > 0 {
		return 2
	}
	return 0
}
