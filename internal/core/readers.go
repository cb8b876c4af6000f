package core

import (
	"context"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/analytics"
)

// StatisticsReader is the slice of the analytics service that background
// jobs depend on.
type StatisticsReader interface {
	Monthly(
		ctx context.Context,
		year int,
		month time.Month,
		mode analytics.SortMode,
	) (analytics.Statistics, error)
}
