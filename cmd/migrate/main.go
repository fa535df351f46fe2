package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/railboard/internal/adapters/postgres"
	"github.com/samirrijal/railboard/internal/pkg/config"
	"github.com/samirrijal/railboard/internal/pkg/logging"
)

// migrate up   applies the config-table migrations.
// migrate seed copies the stations and origins from the file config into
// the config tables, so that config_source=postgres starts from them.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed>")
	}

	cfg, err := config.Load("railboard-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		err = db.Migrate(ctx, func(name string) {
			fmt.Printf("OK  %s\n", name)
		})
	case "seed":
		err = seed(ctx, postgres.NewConfigRepo(db), cfg)
	default:
		err = fmt.Errorf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		db.Close()
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func seed(ctx context.Context, repo *postgres.ConfigRepo, cfg *config.Config) error {
	for _, s := range cfg.Stations {
		if err := repo.UpsertStation(ctx, s.Name, s.CRS); err != nil {
			return fmt.Errorf("station %q: %w", s.Name, err)
		}
	}
	for _, o := range cfg.Origins {
		if err := repo.ReplaceOrigin(ctx, o); err != nil {
			return fmt.Errorf("origin %q: %w", o.OriginName, err)
		}
	}
	fmt.Printf("seeded %d stations, %d origins\n", len(cfg.Stations), len(cfg.Origins))
	return nil
}
