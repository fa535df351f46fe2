// Package app builds the adapters selected by configuration. The commands
// under cmd/ share it so that every entrypoint scrapes the same way.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/samirrijal/railboard/internal/adapters/console"
	"github.com/samirrijal/railboard/internal/adapters/darwin"
	"github.com/samirrijal/railboard/internal/adapters/fixture"
	natsadapter "github.com/samirrijal/railboard/internal/adapters/nats"
	"github.com/samirrijal/railboard/internal/adapters/postgres"
	"github.com/samirrijal/railboard/internal/adapters/valkey"
	"github.com/samirrijal/railboard/internal/core/ports"
	"github.com/samirrijal/railboard/internal/core/usecases"
	"github.com/samirrijal/railboard/internal/pkg/config"
)

// Components are the adapters a command scrapes with. Close releases
// whatever connections were opened.
type Components struct {
	Config  ports.ConfigSource
	Source  ports.DepartureBoardSource
	Scraper *usecases.ScrapeService
	DB      *postgres.DB
	Cache   *valkey.Cache

	closers []func()
}

// Build connects the config source and the departure board source.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	c := &Components{}

	switch cfg.ConfigSource {
	case config.SourcePostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		c.DB = db
		c.closers = append(c.closers, db.Close)
		c.Config = postgres.NewConfigRepo(db)
	default:
		c.Config = config.NewStaticSource(cfg)
	}

	source, err := c.boardSource(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	if cfg.Scrape.CacheTTL > 0 {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			// Scraping still works without the cache.
			slog.Warn("valkey unavailable, board cache disabled", "error", err)
		} else {
			c.Cache = cache
			c.closers = append(c.closers, cache.Close)
			source = usecases.NewCachedBoardSource(source, cache, cfg.Scrape.CacheTTL)
		}
	}

	c.Source = source
	c.Scraper = usecases.NewScrapeService(source, cfg.Scrape.Concurrency)
	return c, nil
}

func (c *Components) boardSource(ctx context.Context, cfg *config.Config) (ports.DepartureBoardSource, error) {
	if cfg.Darwin.FixtureDir != "" {
		slog.Info("reading departure boards from fixtures", "dir", cfg.Darwin.FixtureDir)
		return fixture.NewSource(cfg.Darwin.FixtureDir), nil
	}

	codes, err := c.Config.StationCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load station codes: %w", err)
	}
	if cfg.Darwin.Token == "" {
		slog.Warn("darwin token is empty, requests will be rejected upstream")
	}
	return darwin.New(darwin.Config{
		Endpoint:   cfg.Darwin.Endpoint,
		Token:      cfg.Darwin.Token,
		NumRows:    cfg.Darwin.NumRows,
		Timeout:    cfg.Darwin.Timeout,
		MaxRetries: cfg.Darwin.MaxRetries,
	}, codes), nil
}

// Close releases connections in reverse order of opening.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// NewPublisher builds the configured publisher. Console output goes to w.
func NewPublisher(cfg *config.Config, w io.Writer) (ports.BoardPublisher, func(), error) {
	switch cfg.Publisher {
	case config.PublisherNATS:
		p, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("nats publisher: %w", err)
		}
		return p, p.Close, nil
	default:
		return console.NewPublisher(w), func() {}, nil
	}
}
