package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
)

var ErrPersistenceFailure = errors.New("failed to save meal orders")

// PersistError reports which step of a day replace failed.
type PersistError struct {
	Step    string
	ChildID string
	Date    calendar.Date
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save orders for child %s on %s: %s: %v", e.ChildID, e.Date, e.Step, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool {
	return target == ErrPersistenceFailure
}

// Gateway writes a child's full day of selections as replace-all.
type Gateway struct {
	writer Writer
	log    *logger.Logger
}

func NewGateway(writer Writer, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{writer: writer, log: log}
}

// Save deletes every row of (childID, date) and inserts one row per
// selected item. Writers implementing DayReplacer do both in one
// transaction. Otherwise the two steps run separately, and a failure
// between them leaves the day empty until the next successful save.
func (g *Gateway) Save(
	ctx context.Context,
	childID string,
	date calendar.Date,
	schoolCode string,
	selections Selections,
) error {

	rows := selections.Rows(childID, date, schoolCode)

	if tx, ok := g.writer.(DayReplacer); ok {
		if err := tx.ReplaceDay(ctx, childID, date, rows); err != nil {
			return g.fail("replace", childID, date, err)
		}
		g.log.Info("orders saved", "child_id", childID, "date", date.String(), "rows", len(rows))
		return nil
	}

	if err := g.writer.DeleteDay(ctx, childID, date); err != nil {
		return g.fail("delete", childID, date, err)
	}

	if len(rows) > 0 {
		if err := g.writer.Insert(ctx, rows); err != nil {
			return g.fail("insert", childID, date, err)
		}
	}

	g.log.Info("orders saved", "child_id", childID, "date", date.String(), "rows", len(rows))
	return nil
}

func (g *Gateway) fail(step, childID string, date calendar.Date, err error) error {
	g.log.Error("orders save failed",
		"step", step,
		"child_id", childID,
		"date", date.String(),
		"error", err,
	)
	return &PersistError{Step: step, ChildID: childID, Date: date, Err: err}
}
