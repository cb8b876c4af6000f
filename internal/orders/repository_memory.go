package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
)

var ErrInjected = errors.New("injected store failure")

// InMemoryRepository keeps rows in insertion order. It has no transaction
// support, so the Gateway runs the two-step delete-then-insert against it.
// FailDelete/FailInsert make the next call of that step fail once.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows []CommittedOrder

	FailDelete bool
	FailInsert bool

	Deletes int
	Inserts int
}

func NewInMemoryRepository(rows ...CommittedOrder) *InMemoryRepository {
	return &InMemoryRepository{rows: append([]CommittedOrder(nil), rows...)}
}

func (r *InMemoryRepository) ListForDay(
	ctx context.Context,
	childID string,
	date calendar.Date,
) ([]CommittedOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []CommittedOrder
	for _, o := range r.rows {
		if o.ChildID == childID && o.Date == date {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListRange(
	ctx context.Context,
	rng calendar.Range,
) ([]CommittedOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []CommittedOrder
	for _, o := range r.rows {
		if rng.Contains(o.Date) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListForChildren(
	ctx context.Context,
	childIDs []string,
	rng calendar.Range,
) ([]CommittedOrder, error) {
	wanted := make(map[string]bool, len(childIDs))
	for _, id := range childIDs {
		wanted[id] = true
	}

	all, _ := r.ListRange(ctx, rng)
	var out []CommittedOrder
	for _, o := range all {
		if wanted[o.ChildID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) DeleteDay(
	ctx context.Context,
	childID string,
	date calendar.Date,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Deletes++
	if r.FailDelete {
		r.FailDelete = false
		return ErrInjected
	}

	kept := r.rows[:0:0]
	for _, o := range r.rows {
		if o.ChildID != childID || o.Date != date {
			kept = append(kept, o)
		}
	}
	r.rows = kept
	return nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, rows []CommittedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Inserts++
	if r.FailInsert {
		r.FailInsert = false
		return ErrInjected
	}

	r.rows = append(r.rows, rows...)
	return nil
}

// All returns a copy of every stored row.
func (r *InMemoryRepository) All() []CommittedOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CommittedOrder(nil), r.rows...)
}
