package selection

import (
	"errors"
	"net/http"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	sessions *Sessions
	roster   *roster.Service
	menu     *menu.Service
}

func NewHandler(
	sessions *Sessions,
	rosterService *roster.Service,
	menuService *menu.Service,
) *Handler {
	return &Handler{
		sessions: sessions,
		roster:   rosterService,
		menu:     menuService,
	}
}

// --------------------------------------------------
// POST /children/:id/days/:date/load
// --------------------------------------------------
func (h *Handler) Load(c *gin.Context) {
	child, date, ok := h.resolve(c)
	if !ok {
		return
	}

	store := h.store(c)
	if err := store.Load(c.Request.Context(), *child, date); err != nil {
		if errors.Is(err, ErrSaveInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, store.View())
}

// --------------------------------------------------
// GET /children/:id/days/:date
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	child, date, ok := h.resolve(c)
	if !ok {
		return
	}

	store, ok := h.activeStore(c, child.ID, date)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, store.View())
}

type selectRequest struct {
	Slot     string `json:"slot" binding:"required"`
	ItemName string `json:"item_name" binding:"required"`
}

// --------------------------------------------------
// POST /children/:id/days/:date/select
// A refused pick is not an error: accepted=false.
// --------------------------------------------------
func (h *Handler) Select(c *gin.Context) {
	child, date, ok := h.resolve(c)
	if !ok {
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot and item_name are required"})
		return
	}

	slot, err := menu.ParseSlot(req.Slot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.activeStore(c, child.ID, date)
	if !ok {
		return
	}

	day, err := h.menu.Day(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	item, found := day.Find(slot, req.ItemName)
	if !found {
		// a pick whose dish was since taken off the menu can still be removed
		if !contains(store.CurrentSelections(slot, date), req.ItemName) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish is not on the menu for this day"})
			return
		}
		item = menu.Item{Name: req.ItemName, Slot: slot, Date: date}
	}

	accepted := store.Select(slot, item)

	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"day":      store.View(),
	})
}

// --------------------------------------------------
// POST /children/:id/days/:date/save
// --------------------------------------------------
func (h *Handler) Save(c *gin.Context) {
	child, date, ok := h.resolve(c)
	if !ok {
		return
	}

	store, ok := h.activeStore(c, child.ID, date)
	if !ok {
		return
	}

	err := store.SaveDay(c.Request.Context(), child.ID, date)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, store.View())
	case errors.Is(err, ErrSaveInProgress), errors.Is(err, ErrNotLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrPersistenceFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "failed to save orders, please try again",
			"day":   store.View(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save orders"})
	}
}

// --------------------------------------------------
// helpers
// --------------------------------------------------
func (h *Handler) store(c *gin.Context) *Store {
	return h.sessions.For(c.GetString("userID"), c.GetString("schoolCode"))
}

// resolve parses the date and checks the child belongs to the caller.
func (h *Handler) resolve(c *gin.Context) (*roster.Child, calendar.Date, bool) {
	guardianID := c.GetString("userID")
	if guardianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, calendar.Date{}, false
	}

	date, err := calendar.Parse(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, calendar.Date{}, false
	}

	child, err := h.roster.OwnedChild(c.Request.Context(), guardianID, c.Param("id"))
	switch {
	case errors.Is(err, roster.ErrChildNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "child not found"})
		return nil, calendar.Date{}, false
	case errors.Is(err, roster.ErrNotGuardian):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, calendar.Date{}, false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch child"})
		return nil, calendar.Date{}, false
	}

	return child, date, true
}

// activeStore returns the caller's store only if (childID, date) is the
// loaded day.
func (h *Handler) activeStore(c *gin.Context, childID string, date calendar.Date) (*Store, bool) {
	store := h.store(c)
	activeChild, activeDate, loaded := store.Active()
	if !loaded || activeChild != childID || activeDate != date {
		c.JSON(http.StatusConflict, gin.H{"error": "day is not loaded"})
		return nil, false
	}
	return store, true
}
