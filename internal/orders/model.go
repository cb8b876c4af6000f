package orders

import (
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
)

// CommittedOrder is one persisted meal_orders row. ItemName is the
// denormalized dish name, not a reference to a menu item.
type CommittedOrder struct {
	ChildID    string        `json:"child_id"`
	Date       calendar.Date `json:"meal_date"`
	Slot       menu.Slot     `json:"meal_type"`
	ItemName   string        `json:"meal_name"`
	SchoolCode string        `json:"school_code"`
}

// Selections maps each slot of one day to the chosen item names.
type Selections map[menu.Slot][]string

// Rows expands selections into order rows for one child and day, in slot
// display order. Empty slots produce nothing.
func (s Selections) Rows(childID string, date calendar.Date, schoolCode string) []CommittedOrder {
	var rows []CommittedOrder
	for _, slot := range menu.Slots {
		for _, name := range s[slot] {
			rows = append(rows, CommittedOrder{
				ChildID:    childID,
				Date:       date,
				Slot:       slot,
				ItemName:   name,
				SchoolCode: schoolCode,
			})
		}
	}
	return rows
}

// SelectionsFromRows folds a day's rows back into slot -> names.
func SelectionsFromRows(rows []CommittedOrder) Selections {
	s := make(Selections)
	for _, r := range rows {
		s[r.Slot] = append(s[r.Slot], r.ItemName)
	}
	return s
}
