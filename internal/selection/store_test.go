package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	friday = calendar.New(2025, 9, 5)
	kid    = roster.Child{ID: "42", Name: "Олена", Grade: "7", Allergies: menu.NewAllergenSet(menu.AllergenNuts)}
)

func dish(slot menu.Slot, name string, allergens ...menu.Allergen) menu.Item {
	return menu.Item{Date: friday, Slot: slot, Name: name, Allergens: menu.NewAllergenSet(allergens...)}
}

func newTestStore(t *testing.T) (*Store, *orders.InMemoryRepository) {
	t.Helper()
	repo := orders.NewInMemoryRepository()
	store := NewStore(repo, orders.NewGateway(repo, nil), "S1", nil)
	require.NoError(t, store.Load(context.Background(), kid, friday))
	return store, repo
}

// blockingSaver holds Save until release is closed.
type blockingSaver struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingSaver) Save(
	ctx context.Context,
	childID string,
	date calendar.Date,
	schoolCode string,
	selections orders.Selections,
) error {
	close(b.started)
	<-b.release
	return b.err
}

func TestIsSelectable(t *testing.T) {
	assert.False(t, IsSelectable(dish(menu.SlotPrimary, "Walnut Cake", menu.AllergenNuts), kid))
	assert.True(t, IsSelectable(dish(menu.SlotPrimary, "Rice"), kid))
	assert.True(t, IsSelectable(dish(menu.SlotPrimary, "Milk", menu.AllergenDairy), kid))
}

func TestCanAdd(t *testing.T) {
	a := dish(menu.SlotSecondary, "A")
	d := dish(menu.SlotSecondary, "D")

	assert.True(t, CanAdd(menu.SlotPrimary, []string{"X"}, dish(menu.SlotPrimary, "Y")))
	assert.True(t, CanAdd(menu.SlotSecondary, nil, a))
	assert.True(t, CanAdd(menu.SlotSecondary, []string{"A", "B"}, a), "toggle off")
	assert.False(t, CanAdd(menu.SlotSecondary, []string{"A", "B"}, d))
}

func TestSelect_AllergyRejected(t *testing.T) {
	store, _ := newTestStore(t)

	assert.False(t, store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Walnut Cake", menu.AllergenNuts)))
	assert.Equal(t, StateClean, store.State())

	assert.True(t, store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Rice")))
	assert.Equal(t, []string{"Rice"}, store.CurrentSelections(menu.SlotPrimary, friday))
	assert.Equal(t, StateDirty, store.State())
}

func TestSelect_SinglePickReplaces(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"Суп", "Борщ", "Каша"} {
		require.True(t, store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, name)))
		assert.Len(t, store.CurrentSelections(menu.SlotPrimary, friday), 1)
	}
	assert.Equal(t, []string{"Каша"}, store.CurrentSelections(menu.SlotPrimary, friday))
}

func TestSelect_MultiPickToggle(t *testing.T) {
	store, _ := newTestStore(t)
	slot := menu.SlotSupplemental

	require.True(t, store.Select(slot, dish(slot, "A")))
	require.True(t, store.Select(slot, dish(slot, "B")))
	assert.Equal(t, []string{"A", "B"}, store.CurrentSelections(slot, friday))

	assert.False(t, store.Select(slot, dish(slot, "D")))
	assert.Equal(t, []string{"A", "B"}, store.CurrentSelections(slot, friday))

	assert.True(t, store.Select(slot, dish(slot, "A")))
	assert.Equal(t, []string{"B"}, store.CurrentSelections(slot, friday))
}

func TestSelect_RejectsWrongSlotOrDay(t *testing.T) {
	store, _ := newTestStore(t)

	assert.False(t, store.Select(menu.SlotSecondary, dish(menu.SlotPrimary, "Суп")))

	other := dish(menu.SlotPrimary, "Суп")
	other.Date = friday.AddDays(3)
	assert.False(t, store.Select(menu.SlotPrimary, other))

	unloaded := NewStore(orders.NewInMemoryRepository(), nil, "S1", nil)
	assert.False(t, unloaded.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Суп")))
}

func TestSelect_PreexistingConflictCanBeRemoved(t *testing.T) {
	repo := orders.NewInMemoryRepository(orders.CommittedOrder{
		ChildID: "42", Date: friday, Slot: menu.SlotSecondary, ItemName: "Горіхи",
	})
	store := NewStore(repo, orders.NewGateway(repo, nil), "S1", nil)
	require.NoError(t, store.Load(context.Background(), kid, friday))

	nuts := dish(menu.SlotSecondary, "Горіхи", menu.AllergenNuts)
	assert.True(t, store.Select(menu.SlotSecondary, nuts))
	assert.Empty(t, store.CurrentSelections(menu.SlotSecondary, friday))
	assert.False(t, store.Select(menu.SlotSecondary, nuts), "cannot be added back")
}

func TestHasUnsavedChanges(t *testing.T) {
	store, _ := newTestStore(t)
	assert.False(t, store.HasUnsavedChanges(friday))

	store.Select(menu.SlotSecondary, dish(menu.SlotSecondary, "Яблуко"))
	assert.True(t, store.HasUnsavedChanges(friday))
	assert.False(t, store.HasUnsavedChanges(friday.AddDays(1)))

	// toggling back to the committed (empty) state
	store.Select(menu.SlotSecondary, dish(menu.SlotSecondary, "Яблуко"))
	assert.False(t, store.HasUnsavedChanges(friday))
	assert.Equal(t, StateClean, store.State())
}

func TestSave_RoundTrip(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	require.True(t, store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Borsch")))
	require.True(t, store.Select(menu.SlotSupplemental, dish(menu.SlotSupplemental, "Compote")))
	require.True(t, store.Select(menu.SlotSupplemental, dish(menu.SlotSupplemental, "Apple")))

	require.NoError(t, store.Save(ctx))
	assert.Equal(t, StateClean, store.State())
	assert.False(t, store.HasUnsavedChanges(friday))

	rows, _ := repo.ListForDay(ctx, "42", friday)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "S1", r.SchoolCode)
	}

	fresh := NewStore(repo, orders.NewGateway(repo, nil), "S1", nil)
	require.NoError(t, fresh.Load(ctx, kid, friday))
	assert.Equal(t, []string{"Borsch"}, fresh.CurrentSelections(menu.SlotPrimary, friday))
	assert.Equal(t, []string{"Compote", "Apple"}, fresh.CurrentSelections(menu.SlotSupplemental, friday))
	assert.Empty(t, fresh.CurrentSelections(menu.SlotSecondary, friday))
}

func TestSave_Idempotent(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Borsch"))
	store.Select(menu.SlotSecondary, dish(menu.SlotSecondary, "Груша"))

	require.NoError(t, store.Save(ctx))
	first := repo.All()

	require.NoError(t, store.Save(ctx))
	assert.ElementsMatch(t, first, repo.All())
}

func TestSave_KeepsUntouchedCommittedSlots(t *testing.T) {
	repo := orders.NewInMemoryRepository(
		orders.CommittedOrder{ChildID: "42", Date: friday, Slot: menu.SlotPrimary, ItemName: "Суп"},
	)
	store := NewStore(repo, orders.NewGateway(repo, nil), "S1", nil)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx, kid, friday))

	store.Select(menu.SlotSecondary, dish(menu.SlotSecondary, "Банан"))
	require.NoError(t, store.Save(ctx))

	rows, _ := repo.ListForDay(ctx, "42", friday)
	assert.Len(t, rows, 2)
}

func TestSave_FailureRetainsPending(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Borsch"))
	repo.FailInsert = true

	err := store.Save(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, orders.ErrPersistenceFailure)
	assert.Equal(t, StateFailed, store.State())
	assert.True(t, store.HasUnsavedChanges(friday))
	assert.Equal(t, []string{"Borsch"}, store.CurrentSelections(menu.SlotPrimary, friday))
	assert.NotEmpty(t, store.View().Error)

	require.NoError(t, store.Save(ctx))
	assert.Equal(t, StateClean, store.State())
	rows, _ := repo.ListForDay(ctx, "42", friday)
	assert.Len(t, rows, 1)
}

func TestSave_NotLoaded(t *testing.T) {
	store := NewStore(orders.NewInMemoryRepository(), nil, "S1", nil)
	assert.ErrorIs(t, store.Save(context.Background()), ErrNotLoaded)
}

func TestSaveDay_RefusesDayNoLongerActive(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Borsch"))
	monday := friday.AddDays(3)
	require.NoError(t, store.Load(ctx, kid, monday))

	assert.ErrorIs(t, store.SaveDay(ctx, kid.ID, friday), ErrNotLoaded)
	assert.ErrorIs(t, store.SaveDay(ctx, "other-child", monday), ErrNotLoaded)
	assert.Empty(t, repo.All())
	assert.Equal(t, StateClean, store.State())

	require.NoError(t, store.SaveDay(ctx, kid.ID, monday))
}

func TestSave_InProgressRefusesEdits(t *testing.T) {
	saver := &blockingSaver{started: make(chan struct{}), release: make(chan struct{})}
	repo := orders.NewInMemoryRepository()
	store := NewStore(repo, saver, "S1", nil)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx, kid, friday))
	store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Borsch"))

	done := make(chan error)
	go func() { done <- store.Save(ctx) }()
	<-saver.started

	assert.Equal(t, StateSaving, store.State())
	assert.ErrorIs(t, store.Save(ctx), ErrSaveInProgress)
	assert.False(t, store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Каша")))
	assert.ErrorIs(t, store.Load(ctx, kid, friday), ErrSaveInProgress)

	close(saver.release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"Borsch"}, store.CurrentSelections(menu.SlotPrimary, friday))
}

func TestLoad_SwitchingDayDiscardsPending(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Select(menu.SlotPrimary, dish(menu.SlotPrimary, "Borsch"))
	require.True(t, store.HasUnsavedChanges(friday))

	monday := friday.AddDays(3)
	require.NoError(t, store.Load(ctx, kid, monday))
	require.NoError(t, store.Load(ctx, kid, friday))

	assert.False(t, store.HasUnsavedChanges(friday))
	assert.Empty(t, store.CurrentSelections(menu.SlotPrimary, friday))
}

func TestLoad_ReaderError(t *testing.T) {
	store := NewStore(failingReader{}, nil, "S1", nil)
	err := store.Load(context.Background(), kid, friday)
	assert.Error(t, err)
	assert.Equal(t, StateUnloaded, store.State())
}

type failingReader struct{ orders.Reader }

func (failingReader) ListForDay(context.Context, string, calendar.Date) ([]orders.CommittedOrder, error) {
	return nil, errors.New("connection refused")
}
