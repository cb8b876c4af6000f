package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/cache"
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/pricing"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxOverviewDays bounds the kitchen week overview window.
	MaxOverviewDays = 31

	DefaultCacheTTL = 30 * time.Second
)

type Service struct {
	orders orders.Reader
	roster *roster.Service
	menu   *menu.Service
	cache  cache.Cache
	ttl    time.Duration
	budget decimal.Decimal
	log    *logger.Logger
}

type Options struct {
	Cache         cache.Cache
	CacheTTL      time.Duration
	MonthlyBudget decimal.Decimal
}

func NewService(
	orderReader orders.Reader,
	rosterService *roster.Service,
	menuService *menu.Service,
	log *logger.Logger,
	opts Options,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &Service{
		orders: orderReader,
		roster: rosterService,
		menu:   menuService,
		cache:  opts.Cache,
		ttl:    opts.CacheTTL,
		budget: opts.MonthlyBudget,
		log:    log.With("service", "analytics"),
	}
}

// --------------------------------------------------
// Statistics for a date range (ADMIN)
// --------------------------------------------------
func (s *Service) Statistics(
	ctx context.Context,
	rng calendar.Range,
	mode SortMode,
) (Statistics, error) {

	key := fmt.Sprintf("stats:%s:%s:%s", rng.From, rng.To, mode)

	var cached Statistics
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("stats cache read failed", "key", key, "error", err)
	} else if ok {
		return cached, nil
	}

	var (
		rows    []orders.CommittedOrder
		snap    roster.Snapshot
		catalog menu.Catalog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.orders.ListRange(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = s.roster.Snapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.menu.Catalog(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, fmt.Errorf("load analytics input: %w", err)
	}

	stats := Aggregate(Input{
		Orders: rows,
		Roster: snap,
		Prices: pricing.Default(catalog),
		Range:  rng,
		Sort:   mode,
	})

	if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
		s.log.Warn("stats cache write failed", "key", key, "error", err)
	}

	s.log.Debug("statistics computed",
		"range", rng.String(),
		"orders", stats.TotalOrders,
		"revenue", stats.TotalRevenue.String(),
	)
	return stats, nil
}

func (s *Service) Monthly(
	ctx context.Context,
	year int,
	month time.Month,
	mode SortMode,
) (Statistics, error) {
	return s.Statistics(ctx, calendar.MonthRange(year, month), mode)
}

// --------------------------------------------------
// Kitchen views
// --------------------------------------------------
func (s *Service) DailySheet(
	ctx context.Context,
	date calendar.Date,
	mode SortMode,
) (DailySheet, error) {

	rows, snap, err := s.ordersWithRoster(ctx, calendar.SingleDay(date))
	if err != nil {
		return DailySheet{}, err
	}
	return BuildDailySheet(date, rows, snap, mode), nil
}

func (s *Service) WeekOverview(
	ctx context.Context,
	from calendar.Date,
	days int,
) ([]DayOverview, error) {

	if days < 1 || days > MaxOverviewDays {
		return nil, fmt.Errorf("days must be between 1 and %d", MaxOverviewDays)
	}

	rng := calendar.Range{From: from, To: from.AddDays(days - 1)}
	rows, snap, err := s.ordersWithRoster(ctx, rng)
	if err != nil {
		return nil, err
	}
	return BuildWeekOverview(from, days, rows, snap), nil
}

func (s *Service) ordersWithRoster(
	ctx context.Context,
	rng calendar.Range,
) ([]orders.CommittedOrder, roster.Snapshot, error) {

	var (
		rows []orders.CommittedOrder
		snap roster.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.orders.ListRange(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = s.roster.Snapshot(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, roster.Snapshot{}, fmt.Errorf("load kitchen orders: %w", err)
	}
	return rows, snap, nil
}

// --------------------------------------------------
// Guardian spending summary (PARENT)
// --------------------------------------------------
func (s *Service) GuardianSummary(
	ctx context.Context,
	guardianID string,
	today calendar.Date,
) (GuardianSummary, error) {

	children, err := s.roster.ListChildren(ctx, guardianID)
	if err != nil {
		return GuardianSummary{}, err
	}
	if len(children) == 0 {
		return BuildGuardianSummary(today, nil, nil, s.budget), nil
	}

	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}

	rng := SummaryRange(today)

	var (
		rows    []orders.CommittedOrder
		catalog menu.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.orders.ListForChildren(gctx, ids, rng)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.menu.Catalog(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return GuardianSummary{}, fmt.Errorf("load guardian orders: %w", err)
	}

	return BuildGuardianSummary(today, rows, pricing.Default(catalog), s.budget), nil
}
