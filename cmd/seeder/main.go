package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/motmap/internal/adapters/postgres"
	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/pkg/config"
	"github.com/samirrijal/motmap/internal/pkg/logging"
	"github.com/samirrijal/motmap/internal/pkg/seed"
)

// seeder loads the initial restaurants when the table is empty.
// Usage: seeder [file]
func main() {
	cfg, err := config.Load("motmap-seeder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	file := cfg.Seed.File
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := postgres.NewRestaurantRepo(db)
	n, err := repo.Count(ctx, domain.ListFilter{})
	if err != nil {
		log.Fatalf("count: %v", err)
	}
	if n > 0 {
		slog.Info("restaurants already present, skipping seed", "count", n)
		return
	}

	records, err := seed.LoadFile(file)
	if err != nil {
		log.Fatalf("load seeds: %v", err)
	}
	rows, err := seed.Restaurants(records)
	if err != nil {
		log.Fatalf("seed file %s: %v", file, err)
	}

	inserted, err := repo.InsertBatch(ctx, rows)
	if err != nil {
		log.Fatalf("insert: %v", err)
	}
	slog.Info("seed complete", "file", file, "inserted", inserted)
}
