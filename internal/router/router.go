package router

import (
	"net/http"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/analytics"
	"github.com/SchoolMenu/nutrition-sona/internal/auth"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/middleware"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/SchoolMenu/nutrition-sona/internal/selection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the services the HTTP surface is built from.
type Deps struct {
	Auth        *auth.Service
	Roster      *roster.Service
	Menu        *menu.Service
	Sessions    *selection.Sessions
	Analytics   *analytics.Service
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── HANDLERS ─────────────────────────
	authHandler := auth.NewHandler(d.Auth)
	rosterHandler := roster.NewHandler(d.Roster)
	menuHandler := menu.NewHandler(d.Menu)
	adminMenuHandler := menu.NewAdminHandler(d.Menu)
	selectionHandler := selection.NewHandler(d.Sessions, d.Roster, d.Menu)
	analyticsHandler := analytics.NewHandler(d.Analytics)

	// ───────────────────────── AUTH ROUTES ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── PARENT ROUTES ─────────────────────────
	parent := r.Group("")
	parent.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleParent),
	)
	{
		parent.GET("/children", rosterHandler.ListMyChildren)
		parent.POST("/children", rosterHandler.AddChild)

		parent.GET("/menu", menuHandler.Catalog)
		parent.GET("/menu/suggestions", menuHandler.Suggestions)

		parent.GET("/orders/summary", analyticsHandler.GuardianSummary)

		days := parent.Group("/children/:id/days/:date")
		{
			days.POST("/load", selectionHandler.Load)
			days.GET("", selectionHandler.Get)
			days.POST("/select", selectionHandler.Select)
			days.POST("/save", selectionHandler.Save)
		}
	}

	// ───────────────────────── KITCHEN ROUTES ─────────────────────────
	kitchen := r.Group("/kitchen")
	kitchen.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleKitchen, auth.RoleAdmin),
	)
	{
		kitchen.GET("/orders/:date", analyticsHandler.DailySheet)
		kitchen.GET("/week", analyticsHandler.WeekOverview)
	}

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		admin.GET("/analytics", analyticsHandler.Statistics)
		admin.GET("/analytics/monthly/:year/:month", analyticsHandler.Monthly)
		admin.PUT("/menu/:date", adminMenuHandler.ReplaceDay)
	}

	return r
}
