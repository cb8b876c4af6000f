package menu

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSlot = errors.New("unknown meal slot")

// Slot is a meal category of a day. The string value is the meal_type
// stored with every order row.
type Slot string

const (
	SlotPrimary      Slot = "main_meal"
	SlotSecondary    Slot = "fruit_break"
	SlotSupplemental Slot = "afternoon_snack"
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotPrimary, SlotSecondary, SlotSupplemental}

// MultiPickLimit is how many items an optional slot may hold.
const MultiPickLimit = 2

// legacy category names used by older menu rows
var slotAliases = map[string]Slot{
	"main_meal":       SlotPrimary,
	"primary":         SlotPrimary,
	"meal1":           SlotPrimary,
	"fruit_break":     SlotSecondary,
	"secondary":       SlotSecondary,
	"meal2":           SlotSecondary,
	"afternoon_snack": SlotSupplemental,
	"supplemental":    SlotSupplemental,
	"side":            SlotSupplemental,
}

func ParseSlot(s string) (Slot, error) {
	slot, ok := slotAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	return slot, nil
}

// SinglePick reports whether choosing an item replaces the previous choice.
func (s Slot) SinglePick() bool {
	return s == SlotPrimary
}

// Limit is the maximum number of items the slot may hold.
func (s Slot) Limit() int {
	if s.SinglePick() {
		return 1
	}
	return MultiPickLimit
}

func (s Slot) Valid() bool {
	switch s {
	case SlotPrimary, SlotSecondary, SlotSupplemental:
		return true
	}
	return false
}

func (s Slot) String() string {
	return string(s)
}
