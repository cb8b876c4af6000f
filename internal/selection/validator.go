package selection

import (
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
)

// IsSelectable reports whether the item carries none of the child's allergens.
func IsSelectable(item menu.Item, child roster.Child) bool {
	return !item.Allergens.Intersects(child.Allergies)
}

// CanAdd reports whether picking item in slot is allowed given the slot's
// current names. Single-pick slots always accept (the pick replaces).
// Multi-pick slots accept a name already present (it toggles off) or a
// new one while below the limit.
func CanAdd(slot menu.Slot, current []string, item menu.Item) bool {
	if slot.SinglePick() {
		return true
	}
	if contains(current, item.Name) {
		return true
	}
	return len(current) < slot.Limit()
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
