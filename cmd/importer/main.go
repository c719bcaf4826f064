package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/motmap/internal/adapters/nats"
	"github.com/samirrijal/motmap/internal/adapters/postgres"
	"github.com/samirrijal/motmap/internal/adapters/valkey"
	"github.com/samirrijal/motmap/internal/core/ports"
	"github.com/samirrijal/motmap/internal/core/usecases"
	"github.com/samirrijal/motmap/internal/pkg/config"
	"github.com/samirrijal/motmap/internal/pkg/logging"
	"github.com/samirrijal/motmap/internal/pkg/seed"
	"github.com/samirrijal/motmap/internal/workflows"
)

const usage = "usage: importer worker | importer start <file.json>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load("motmap-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	switch os.Args[1] {
	case "worker":
		runWorker(c, cfg)
	case "start":
		if len(os.Args) < 3 {
			log.Fatal(usage)
		}
		startImport(c, cfg, os.Args[2])
	default:
		log.Fatal(usage)
	}
}

// runWorker executes import workflows. Rows go through the restaurant service
// so validation, duplicate checks, cache invalidation and events apply.
func runWorker(c client.Client, cfg *config.Config) {
	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, cache invalidation disabled", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	svc := usecases.NewRestaurantService(postgres.NewRestaurantRepo(db), cache, events)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.ImportRestaurantsWorkflow)
	w.RegisterActivity(&workflows.ImportActivities{Restaurants: svc})

	slog.Info("import worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// startImport submits a file and waits for the result.
func startImport(c client.Client, cfg *config.Config, file string) {
	records, err := seed.LoadFile(file)
	if err != nil {
		log.Fatalf("load %s: %v", file, err)
	}

	ctx := context.Background()
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("import-%s-%d", filepath.Base(file), time.Now().Unix()),
		TaskQueue: cfg.Temporal.TaskQueue,
	}
	run, err := c.ExecuteWorkflow(ctx, opts, workflows.ImportRestaurantsWorkflow, workflows.ImportInput{
		Source:  filepath.Base(file),
		Records: records,
	})
	if err != nil {
		log.Fatalf("start workflow: %v", err)
	}
	slog.Info("import started", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "records", len(records))

	var res workflows.ImportResult
	if err := run.Get(ctx, &res); err != nil {
		log.Fatalf("import failed (rolled back): %v", err)
	}
	slog.Info("import finished", "created", len(res.Created), "skipped", res.Skipped)
}
