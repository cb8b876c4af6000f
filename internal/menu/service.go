package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
)

const suggestionLimit = 5

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log.With("service", "menu")}
}

// --------------------------------------------------
// Catalog for a date range
// --------------------------------------------------
func (s *Service) Catalog(
	ctx context.Context,
	rng calendar.Range,
) (Catalog, error) {
	return s.repo.ListCatalog(ctx, rng)
}

// --------------------------------------------------
// Catalog of one day (empty when nothing is published)
// --------------------------------------------------
func (s *Service) Day(
	ctx context.Context,
	date calendar.Date,
) (DayCatalog, error) {

	catalog, err := s.repo.ListCatalog(ctx, calendar.SingleDay(date))
	if err != nil {
		return DayCatalog{}, err
	}

	if day, ok := catalog.Day(date); ok {
		return day, nil
	}
	return NewDayCatalog(date), nil
}

// --------------------------------------------------
// Replace a day's published set (ADMIN)
// --------------------------------------------------
func (s *Service) ReplaceDay(
	ctx context.Context,
	date calendar.Date,
	items []Item,
) error {

	for i := range items {
		items[i].Date = date
	}

	if err := ValidateDay(items); err != nil {
		return err
	}

	if err := s.repo.ReplaceDay(ctx, date, items); err != nil {
		return fmt.Errorf("replace menu for %s: %w", date, err)
	}

	s.log.Info("menu day replaced", "date", date.String(), "items", len(items))
	return nil
}

// --------------------------------------------------
// Dish suggestions for autocomplete
// --------------------------------------------------
func (s *Service) Suggestions(
	ctx context.Context,
	query string,
) ([]Item, error) {

	q := strings.TrimSpace(query)
	if len([]rune(q)) < 2 {
		return []Item{}, nil
	}

	return s.repo.SearchByName(ctx, q, suggestionLimit)
}
