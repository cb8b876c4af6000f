package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	today   func() calendar.Date
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, today: calendar.Today}
}

// --------------------------------------------------
// GET /admin/analytics?from=&to=&sort=
// Defaults to the current month.
// --------------------------------------------------
func (h *Handler) Statistics(c *gin.Context) {
	mode, ok := sortMode(c)
	if !ok {
		return
	}

	today := h.today()
	rng := calendar.MonthRange(today.Year, today.Month)
	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		parsed, err := calendar.ParseRange(from, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rng = parsed
	}

	stats, err := h.service.Statistics(c.Request.Context(), rng, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// --------------------------------------------------
// GET /admin/analytics/monthly/:year/:month
// --------------------------------------------------
func (h *Handler) Monthly(c *gin.Context) {
	mode, ok := sortMode(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	stats, err := h.service.Monthly(c.Request.Context(), year, time.Month(month), mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// --------------------------------------------------
// GET /kitchen/orders/:date?sort=grade|name|none
// --------------------------------------------------
func (h *Handler) DailySheet(c *gin.Context) {
	mode, ok := sortMode(c)
	if !ok {
		return
	}

	date, err := calendar.Parse(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheet, err := h.service.DailySheet(c.Request.Context(), date, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meal orders"})
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// --------------------------------------------------
// GET /kitchen/week?from=&days=7
// --------------------------------------------------
func (h *Handler) WeekOverview(c *gin.Context) {
	from := h.today()
	if raw := c.Query("from"); raw != "" {
		parsed, err := calendar.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		from = parsed
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > MaxOverviewDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
		return
	}

	overview, err := h.service.WeekOverview(c.Request.Context(), from, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch week"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": overview})
}

// --------------------------------------------------
// GET /orders/summary (PARENT)
// --------------------------------------------------
func (h *Handler) GuardianSummary(c *gin.Context) {
	guardianID := c.GetString("userID")
	if guardianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.service.GuardianSummary(c.Request.Context(), guardianID, h.today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func sortMode(c *gin.Context) (SortMode, bool) {
	mode, err := ParseSortMode(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return mode, true
}
