package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/samirrijal/motmap/internal/adapters/postgres"
	"github.com/samirrijal/motmap/internal/pkg/config"
	"github.com/samirrijal/motmap/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("motmap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		slog.Info("all migrations applied")
	case "down":
		if err := db.MigrateDown(ctx); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		slog.Info("all migrations reverted")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
