package archive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/analytics"
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	calls []string
	err   error
}

func (f *fakeStats) Monthly(
	ctx context.Context,
	year int,
	month time.Month,
	mode analytics.SortMode,
) (analytics.Statistics, error) {
	f.calls = append(f.calls, StatementKey(year, month))
	if f.err != nil {
		return analytics.Statistics{}, f.err
	}
	return analytics.Statistics{
		Range:       calendar.MonthRange(year, month),
		TotalOrders: 7,
	}, nil
}

func TestRunOnce(t *testing.T) {
	stats := &fakeStats{}
	store := storage.NewMemoryStore()
	w := NewWorker(stats, store, nil)
	w.now = func() time.Time { return time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, []string{"statements/2025-09.json"}, stats.calls)

	raw, ok := store.Get("statements/2025-09.json")
	require.True(t, ok)

	var st Statement
	require.NoError(t, json.Unmarshal(raw, &st))
	assert.Equal(t, 2025, st.Year)
	assert.Equal(t, 9, st.Month)
	assert.Equal(t, 7, st.Statistics.TotalOrders)
}

func TestRunOnce_FirstOfMonthClosesPrevious(t *testing.T) {
	stats := &fakeStats{}
	w := NewWorker(stats, storage.NewMemoryStore(), nil)
	w.now = func() time.Time { return time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC) }

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, []string{"statements/2025-01.json", "statements/2024-12.json"}, stats.calls)
}

func TestRunOnce_StatsError(t *testing.T) {
	store := storage.NewMemoryStore()
	w := NewWorker(&fakeStats{err: errors.New("db down")}, store, nil)

	assert.Error(t, w.RunOnce(context.Background()))
	assert.Empty(t, store.Objects)
}

func TestRunStopsOnCancel(t *testing.T) {
	stats := &fakeStats{}
	w := NewWorker(stats, storage.NewMemoryStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, stats.calls, 1)
}
