package roster

import (
	"errors"
	"net/http"

	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /children (children of the signed-in guardian)
// --------------------------------------------------
func (h *Handler) ListMyChildren(c *gin.Context) {
	guardianID := c.GetString("userID")
	if guardianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	children, err := h.service.ListChildren(c.Request.Context(), guardianID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch children"})
		return
	}
	if children == nil {
		children = []Child{}
	}

	c.JSON(http.StatusOK, children)
}

type addChildRequest struct {
	Name      string   `json:"name"`
	Grade     string   `json:"grade"`
	Allergies []string `json:"allergies"`
}

// --------------------------------------------------
// POST /children
// --------------------------------------------------
func (h *Handler) AddChild(c *gin.Context) {
	guardianID := c.GetString("userID")
	if guardianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	child, err := h.service.AddChild(c.Request.Context(), guardianID, req.Name, req.Grade, req.Allergies)
	switch {
	case errors.Is(err, ErrInvalidChild), errors.Is(err, menu.ErrUnknownAllergen):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add child"})
		return
	}

	c.JSON(http.StatusCreated, child)
}
