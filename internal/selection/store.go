package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
)

var (
	ErrNotLoaded      = errors.New("no day loaded")
	ErrSaveInProgress = errors.New("save already in progress")
)

type State string

const (
	StateUnloaded State = "unloaded"
	StateClean    State = "clean"
	StateDirty    State = "dirty"
	StateSaving   State = "saving"
	StateFailed   State = "failed"
)

// Saver persists one child's full day. *orders.Gateway implements it.
type Saver interface {
	Save(
		ctx context.Context,
		childID string,
		date calendar.Date,
		schoolCode string,
		selections orders.Selections,
	) error
}

type key struct {
	date calendar.Date
	slot menu.Slot
}

// Store holds the in-progress picks of one editor. Only one (child, date)
// is active at a time; loading another discards the pending picks of the
// previous one.
type Store struct {
	mu sync.Mutex

	reader     orders.Reader
	saver      Saver
	schoolCode string
	log        *logger.Logger

	child     roster.Child
	active    calendar.Date
	state     State
	lastErr   error
	committed map[key][]string
	pending   map[key][]string
}

func NewStore(
	reader orders.Reader,
	saver Saver,
	schoolCode string,
	log *logger.Logger,
) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		reader:     reader,
		saver:      saver,
		schoolCode: schoolCode,
		log:        log,
		state:      StateUnloaded,
		committed:  make(map[key][]string),
		pending:    make(map[key][]string),
	}
}

// --------------------------------------------------
// LOAD (any -> clean)
// --------------------------------------------------
func (s *Store) Load(ctx context.Context, child roster.Child, date calendar.Date) error {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.mu.Unlock()

	rows, err := s.reader.ListForDay(ctx, child.ID, date)
	if err != nil {
		return fmt.Errorf("load orders for %s: %w", date, err)
	}
	saved := orders.SelectionsFromRows(rows)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSaving {
		return ErrSaveInProgress
	}

	if s.child.ID != child.ID {
		s.committed = make(map[key][]string)
		s.pending = make(map[key][]string)
	} else if s.active != date && s.hasUnsavedLocked(s.active) {
		s.log.Info("discarding unsaved picks",
			"child_id", s.child.ID,
			"date", s.active.String(),
		)
	}

	s.clearPendingLocked()
	for _, slot := range menu.Slots {
		k := key{date: date, slot: slot}
		delete(s.committed, k)
		if names := saved[slot]; len(names) > 0 {
			s.committed[k] = names
		}
	}

	s.child = child
	s.active = date
	s.state = StateClean
	s.lastErr = nil
	return nil
}

// --------------------------------------------------
// SELECT (clean|dirty -> dirty)
// --------------------------------------------------

// Select applies a pick on the active day. It returns false, leaving the
// store untouched, when the pick is not allowed.
func (s *Store) Select(slot menu.Slot, item menu.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnloaded || s.state == StateSaving {
		return false
	}
	if !slot.Valid() || item.Slot != slot || item.Date != s.active {
		return false
	}

	k := key{date: s.active, slot: slot}
	current := s.currentLocked(k)
	present := contains(current, item.Name)

	// removing an existing pick is always allowed
	if !present && !IsSelectable(item, s.child) {
		return false
	}
	if !CanAdd(slot, current, item) {
		return false
	}

	var next []string
	switch {
	case slot.SinglePick():
		if !IsSelectable(item, s.child) {
			return false
		}
		next = []string{item.Name}
	case present:
		for _, n := range current {
			if n != item.Name {
				next = append(next, n)
			}
		}
		if next == nil {
			next = []string{}
		}
	default:
		next = append(append([]string(nil), current...), item.Name)
	}

	s.pending[k] = next
	s.refreshStateLocked()
	return true
}

// HasUnsavedChanges reports whether some non-empty pending slot of date
// differs from what was last committed.
func (s *Store) HasUnsavedChanges(date calendar.Date) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasUnsavedLocked(date)
}

// CurrentSelections returns the pending names of a slot when present,
// otherwise the committed ones.
func (s *Store) CurrentSelections(slot menu.Slot, date calendar.Date) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.currentLocked(key{date: date, slot: slot})...)
}

// --------------------------------------------------
// SAVE (dirty -> saving -> clean | failed)
// --------------------------------------------------
// Save persists the active day.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	return s.saveLocked(ctx, s.child.ID, s.active)
}

// SaveDay persists (childID, date) only if it is still the active day.
// Otherwise it returns ErrNotLoaded and nothing is written.
func (s *Store) SaveDay(ctx context.Context, childID string, date calendar.Date) error {
	s.mu.Lock()
	return s.saveLocked(ctx, childID, date)
}

// saveLocked is entered with mu held and releases it around the write.
func (s *Store) saveLocked(ctx context.Context, childID string, date calendar.Date) error {
	switch {
	case s.state == StateUnloaded:
		s.mu.Unlock()
		return ErrNotLoaded
	case s.state == StateSaving:
		s.mu.Unlock()
		return ErrSaveInProgress
	case s.child.ID != childID || s.active != date:
		s.mu.Unlock()
		return ErrNotLoaded
	}

	snapshot := make(orders.Selections)
	for _, slot := range menu.Slots {
		if names := s.currentLocked(key{date: date, slot: slot}); len(names) > 0 {
			snapshot[slot] = append([]string(nil), names...)
		}
	}
	s.state = StateSaving
	s.mu.Unlock()

	err := s.saver.Save(ctx, childID, date, s.schoolCode, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		return err
	}

	for _, slot := range menu.Slots {
		k := key{date: date, slot: slot}
		delete(s.committed, k)
		if names := snapshot[slot]; len(names) > 0 {
			s.committed[k] = names
		}
	}
	s.clearPendingLocked()
	s.state = StateClean
	s.lastErr = nil
	return nil
}

// View is a read-only snapshot of the active day.
type View struct {
	ChildID    string            `json:"child_id"`
	Date       calendar.Date     `json:"date"`
	State      State             `json:"state"`
	Selections orders.Selections `json:"selections"`
	Unsaved    bool              `json:"unsaved"`
	Error      string            `json:"error,omitempty"`
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ChildID:    s.child.ID,
		Date:       s.active,
		State:      s.state,
		Selections: make(orders.Selections),
	}
	if s.state == StateUnloaded {
		return v
	}
	for _, slot := range menu.Slots {
		v.Selections[slot] = append([]string{}, s.currentLocked(key{date: s.active, slot: slot})...)
	}
	v.Unsaved = s.hasUnsavedLocked(s.active)
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	return v
}

// Active returns the loaded child and day.
func (s *Store) Active() (string, calendar.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child.ID, s.active, s.state != StateUnloaded
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// --------------------------------------------------
// helpers (caller holds mu)
// --------------------------------------------------
func (s *Store) currentLocked(k key) []string {
	if names, ok := s.pending[k]; ok {
		return names
	}
	return s.committed[k]
}

func (s *Store) clearPendingLocked() {
	s.pending = make(map[key][]string)
}

func (s *Store) hasUnsavedLocked(date calendar.Date) bool {
	for k, names := range s.pending {
		if k.date != date || len(names) == 0 {
			continue
		}
		if !sameNames(names, s.committed[k]) {
			return true
		}
	}
	return false
}

// refreshStateLocked marks the day dirty when any pending slot, empty or
// not, differs from committed.
func (s *Store) refreshStateLocked() {
	for k, names := range s.pending {
		if k.date == s.active && !sameNames(names, s.committed[k]) {
			s.state = StateDirty
			return
		}
	}
	if s.state != StateFailed {
		s.state = StateClean
	}
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
