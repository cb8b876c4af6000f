package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateItem checks an item before it is published.
func ValidateItem(it Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return errors.New("item name missing")
	}
	if !it.Slot.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, it.Slot)
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("item %q has negative price", it.Name)
	}
	if it.Date.IsZero() {
		return fmt.Errorf("item %q has no date", it.Name)
	}
	return nil
}

// ValidateDay checks a whole day's replacement set. Names must be unique
// within a slot because orders reference dishes by name.
func ValidateDay(items []Item) error {
	seen := make(map[Slot]map[string]bool)
	for _, it := range items {
		if err := ValidateItem(it); err != nil {
			return err
		}
		if seen[it.Slot] == nil {
			seen[it.Slot] = make(map[string]bool)
		}
		if seen[it.Slot][it.Name] {
			return fmt.Errorf("duplicate item %q in slot %s", it.Name, it.Slot)
		}
		seen[it.Slot][it.Name] = true
	}
	return nil
}
