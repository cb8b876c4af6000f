package menu

import (
	"context"
	"strings"
	"sync"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

func NewInMemoryRepository(items ...Item) *InMemoryRepository {
	r := &InMemoryRepository{}
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		r.items = append(r.items, it)
	}
	return r
}

func (r *InMemoryRepository) ListCatalog(
	ctx context.Context,
	rng calendar.Range,
) (Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Item
	for _, it := range r.items {
		if rng.Contains(it.Date) {
			matched = append(matched, it)
		}
	}
	return GroupByDay(matched), nil
}

func (r *InMemoryRepository) ReplaceDay(
	ctx context.Context,
	date calendar.Date,
	items []Item,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0:0]
	for _, it := range r.items {
		if it.Date != date {
			kept = append(kept, it)
		}
	}
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.Date = date
		kept = append(kept, it)
	}
	r.items = kept
	return nil
}

func (r *InMemoryRepository) SearchByName(
	ctx context.Context,
	query string,
	limit int,
) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var found []Item
	// newest first: items appended later are newer
	for i := len(r.items) - 1; i >= 0 && len(found) < limit; i-- {
		if strings.Contains(strings.ToLower(r.items[i].Name), q) {
			found = append(found, r.items[i])
		}
	}
	return found, nil
}
