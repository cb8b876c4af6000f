package menu

import (
	"context"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
)

// Repository defines all database operations for published menus
type Repository interface {

	// Items published for every day in the range, grouped by day
	ListCatalog(ctx context.Context, r calendar.Range) (Catalog, error)

	// Replace the whole set of items published for one day
	ReplaceDay(ctx context.Context, date calendar.Date, items []Item) error

	// Case-insensitive name search, newest first
	SearchByName(ctx context.Context, query string, limit int) ([]Item, error)
}
