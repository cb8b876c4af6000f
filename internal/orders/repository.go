package orders

import (
	"context"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
)

// Reader is the read side of the order table.
type Reader interface {
	ListForDay(ctx context.Context, childID string, date calendar.Date) ([]CommittedOrder, error)
	ListRange(ctx context.Context, r calendar.Range) ([]CommittedOrder, error)
	ListForChildren(ctx context.Context, childIDs []string, r calendar.Range) ([]CommittedOrder, error)
}

// Writer is the write side used by the Gateway.
type Writer interface {
	DeleteDay(ctx context.Context, childID string, date calendar.Date) error
	Insert(ctx context.Context, rows []CommittedOrder) error
}

// DayReplacer is implemented by stores that can swap a day's rows inside a
// single transaction.
type DayReplacer interface {
	ReplaceDay(ctx context.Context, childID string, date calendar.Date, rows []CommittedOrder) error
}

type Repository interface {
	Reader
	Writer
}
