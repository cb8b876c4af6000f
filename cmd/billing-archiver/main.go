package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/SchoolMenu/nutrition-sona/internal/analytics"
	"github.com/SchoolMenu/nutrition-sona/internal/archive"
	"github.com/SchoolMenu/nutrition-sona/internal/config"
	"github.com/SchoolMenu/nutrition-sona/internal/db"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/SchoolMenu/nutrition-sona/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("❌ logger init failed: %v", err)
	}
	defer appLog.Sync()

	if !cfg.ArchiveEnabled() {
		appLog.Fatal("R2 is not configured; set R2_ENDPOINT, R2_ACCESS_KEY, R2_SECRET_KEY and R2_BUCKET_NAME")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("postgres init failed", "error", err)
	}
	defer pgDB.Close()

	r2Client, err := storage.NewR2Client(ctx, storage.R2Options{
		Endpoint:      cfg.R2Endpoint,
		AccessKey:     cfg.R2AccessKey,
		SecretKey:     cfg.R2SecretKey,
		Bucket:        cfg.R2Bucket,
		PublicBaseURL: cfg.R2PublicBaseURL,
	})
	if err != nil {
		appLog.Fatal("r2 init failed", "error", err)
	}

	rosterService := roster.NewService(roster.NewPostgresRepository(pgDB))
	menuService := menu.NewService(menu.NewPostgresRepository(pgDB), appLog)

	stats := analytics.NewService(
		orders.NewPostgresRepository(pgDB),
		rosterService,
		menuService,
		appLog,
		analytics.Options{MonthlyBudget: cfg.MonthlyBudget},
	)

	worker := archive.NewWorker(stats, r2Client, appLog)

	appLog.Info("billing archiver starting", "interval", cfg.ArchiveInterval.String())
	worker.Run(ctx, cfg.ArchiveInterval)
}
