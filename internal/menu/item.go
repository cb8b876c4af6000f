package menu

import (
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/shopspring/decimal"
)

// Item is one orderable dish published for a single day and slot.
type Item struct {
	ID          string          `json:"id"`
	Date        calendar.Date   `json:"date"`
	Slot        Slot            `json:"slot"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Allergens   AllergenSet     `json:"allergens"`
	SchoolCode  string          `json:"school_code,omitempty"`
}
