package menu

import (
	"net/http"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service *Service
}

type AdminHandler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// --------------------------------------------------
// GET /menu?from=YYYY-MM-DD&to=YYYY-MM-DD
// Defaults to the current ordering week.
// --------------------------------------------------
func (h *Handler) Catalog(c *gin.Context) {
	rng := calendar.SchoolWeek(calendar.Today(), 0)

	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		parsed, err := calendar.ParseRange(from, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rng = parsed
	}

	catalog, err := h.service.Catalog(c.Request.Context(), rng)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": rng.From,
		"to":   rng.To,
		"days": catalog,
	})
}

// --------------------------------------------------
// GET /menu/suggestions?q=
// --------------------------------------------------
func (h *Handler) Suggestions(c *gin.Context) {
	items, err := h.service.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search dishes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": items})
}

type dayItemRequest struct {
	Slot        string          `json:"slot"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Allergens   []string        `json:"allergens"`
}

// --------------------------------------------------
// PUT /admin/menu/:date (replaces the whole day)
// --------------------------------------------------
func (h *AdminHandler) ReplaceDay(c *gin.Context) {
	date, err := calendar.Parse(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Items []dayItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	schoolCode := c.GetString("schoolCode")

	items := make([]Item, 0, len(req.Items))
	for _, in := range req.Items {
		slot, err := ParseSlot(in.Slot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		allergens, err := ParseAllergens(in.Allergens)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items = append(items, Item{
			Date:        date,
			Slot:        slot,
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Allergens:   allergens,
			SchoolCode:  schoolCode,
		})
	}

	if err := h.service.ReplaceDay(c.Request.Context(), date, items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"items": len(items),
	})
}
