package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/analytics"
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/core"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/storage"
)

// Statement is the archived billing document of one month.
type Statement struct {
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	GeneratedAt time.Time            `json:"generated_at"`
	Statistics  analytics.Statistics `json:"statistics"`
}

// Worker periodically writes the current month's statement to object
// storage, overwriting the previous snapshot of that month.
type Worker struct {
	stats core.StatisticsReader
	store storage.ObjectStore
	log   *logger.Logger
	now   func() time.Time
}

func NewWorker(
	stats core.StatisticsReader,
	store storage.ObjectStore,
	log *logger.Logger,
) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{
		stats: stats,
		store: store,
		log:   log.With("service", "billing-archiver"),
		now:   time.Now,
	}
}

func StatementKey(year int, month time.Month) string {
	return fmt.Sprintf("statements/%04d-%02d.json", year, int(month))
}

// RunOnce archives the month containing now. On the first day of a month
// the previous month is archived too, so its final totals are kept.
func (w *Worker) RunOnce(ctx context.Context) error {
	today := calendar.FromTime(w.now())

	if err := w.archive(ctx, today.Year, today.Month); err != nil {
		return err
	}

	if today.Day == 1 {
		prev := today.AddDays(-1)
		if err := w.archive(ctx, prev.Year, prev.Month); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) archive(ctx context.Context, year int, month time.Month) error {
	stats, err := w.stats.Monthly(ctx, year, month, analytics.SortGrade)
	if err != nil {
		return fmt.Errorf("compute %04d-%02d: %w", year, int(month), err)
	}

	key := StatementKey(year, month)
	url, err := storage.UploadJSON(ctx, w.store, key, Statement{
		Year:        year,
		Month:       int(month),
		GeneratedAt: w.now().UTC(),
		Statistics:  stats,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	w.log.Info("statement archived",
		"key", key,
		"url", url,
		"orders", stats.TotalOrders,
		"revenue", stats.TotalRevenue.String(),
	)
	return nil
}

// Run calls RunOnce immediately and then every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (w *Worker) Run(ctx context.Context, interval time.Duration) {
	w.log.Info("worker started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("archive failed", "error", err)
		}

		select {
		case <-ctx.Done():
			w.log.Info("worker stopped")
			return
		case <-ticker.C:
		}
	}
}
