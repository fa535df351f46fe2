package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/railboard/internal/adapters/http"
	natsadapter "github.com/samirrijal/railboard/internal/adapters/nats"
	"github.com/samirrijal/railboard/internal/app"
	"github.com/samirrijal/railboard/internal/core/usecases"
	"github.com/samirrijal/railboard/internal/pkg/config"
	"github.com/samirrijal/railboard/internal/pkg/logging"
	"github.com/samirrijal/railboard/internal/pkg/metrics"
	"github.com/samirrijal/railboard/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("railboard-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Config source, board source and optional cache
	components, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	defer components.Close()

	// Published boards: keep the latest per station and relay them over /ws
	latest := usecases.NewBoardStore()
	deps := &http.Dependencies{
		Boards: usecases.NewPipelineService(components.Config, components.Scraper, nil),
		Latest: latest,
		DB:     components.DB,
		Cache:  components.Cache,
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, published boards disabled", "error", err)
	} else {
		defer sub.Close()
		if err := sub.SubscribeBoards(ctx, latest.Put); err != nil {
			slog.Warn("board subscription failed", "error", err)
		}
		deps.NATS = sub.Conn()
	}

	// DB pool gauges
	if components.DB != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBPoolMetrics(components.DB.Stat())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Fiber
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Railboard API",
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(fiberApp, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := fiberApp.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
