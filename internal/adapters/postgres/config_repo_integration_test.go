//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/railboard/internal/adapters/postgres"
	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/pkg/config"
)

// setupTestDB connects to the test database and applies migrations.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("railboard-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := db.Migrate(ctx, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestConfigRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := postgres.NewConfigRepo(db)

	origin := "Test Origin " + time.Now().Format("20060102150405")
	if err := repo.UpsertStation(ctx, origin, "TST"); err != nil {
		t.Fatalf("upsert station: %v", err)
	}
	want := domain.OriginAndCallingPoints{OriginName: origin, CallingPointNames: []string{"Zeta", "Alpha"}}
	if err := repo.ReplaceOrigin(ctx, want); err != nil {
		t.Fatalf("replace origin: %v", err)
	}

	codes, err := repo.StationCodes(ctx)
	if err != nil {
		t.Fatalf("station codes: %v", err)
	}
	if codes[origin] != "TST" {
		t.Errorf("expected TST, got %q", codes[origin])
	}

	origins, err := repo.OriginsAndCallingPoints(ctx)
	if err != nil {
		t.Fatalf("origins: %v", err)
	}
	var found bool
	for _, o := range origins {
		if o.OriginName != origin {
			continue
		}
		found = true
		if len(o.CallingPointNames) != 2 || o.CallingPointNames[0] != "Zeta" || o.CallingPointNames[1] != "Alpha" {
			t.Errorf("expected calling points in configured order, got %v", o.CallingPointNames)
		}
	}
	if !found {
		t.Fatalf("origin %q not returned", origin)
	}
}
