package main

import (
	"context"
	"log"

	"github.com/SchoolMenu/nutrition-sona/internal/analytics"
	"github.com/SchoolMenu/nutrition-sona/internal/auth"
	"github.com/SchoolMenu/nutrition-sona/internal/cache"
	"github.com/SchoolMenu/nutrition-sona/internal/config"
	"github.com/SchoolMenu/nutrition-sona/internal/db"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/SchoolMenu/nutrition-sona/internal/router"
	"github.com/SchoolMenu/nutrition-sona/internal/selection"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("❌ logger init failed: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("postgres init failed", "error", err)
	}
	defer pgDB.Close()

	// ───────────────────────── CACHE ─────────────────────────
	var statsCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(cfg.RedisAddr, "nutrition", appLog)
		if err != nil {
			appLog.Warn("redis unavailable, using in-process cache", "error", err)
		} else {
			defer rc.Close()
			statsCache = rc
		}
	}

	// ───────────────────────── REPOS ─────────────────────────
	userRepo := auth.NewPostgresUserRepository(pgDB)
	rosterRepo := roster.NewPostgresRepository(pgDB)
	menuRepo := menu.NewPostgresRepository(pgDB)
	orderRepo := orders.NewPostgresRepository(pgDB)

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	authService := auth.NewService(userRepo, appLog)
	rosterService := roster.NewService(rosterRepo)
	menuService := menu.NewService(menuRepo, appLog)

	gateway := orders.NewGateway(orderRepo, appLog)
	sessions := selection.NewSessions(orderRepo, gateway, appLog)

	analyticsService := analytics.NewService(
		orderRepo,
		rosterService,
		menuService,
		appLog,
		analytics.Options{
			Cache:         statsCache,
			CacheTTL:      cfg.StatsCacheTTL,
			MonthlyBudget: cfg.MonthlyBudget,
		},
	)

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.NewRouter(router.Deps{
		Auth:        authService,
		Roster:      rosterService,
		Menu:        menuService,
		Sessions:    sessions,
		Analytics:   analyticsService,
		CORSOrigins: cfg.CORSOrigins,
	})

	// ───────────────────────── START ─────────────────────────
	appLog.Info("api running", "port", cfg.Port, "env", cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
