package analytics

import (
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/pricing"
	"github.com/shopspring/decimal"
)

// SummaryRange is the span of orders BuildGuardianSummary needs: the
// current Monday-start week joined with the current month.
func SummaryRange(today calendar.Date) calendar.Range {
	week := calendar.WeekOf(today)
	month := calendar.MonthRange(today.Year, today.Month)

	r := month
	if week.Start.Before(r.From) {
		r.From = week.Start
	}
	if week.End.After(r.To) {
		r.To = week.End
	}
	return r
}

// BuildGuardianSummary computes spending of one guardian's children. rows
// must cover SummaryRange(today).
func BuildGuardianSummary(
	today calendar.Date,
	rows []orders.CommittedOrder,
	prices *pricing.Resolver,
	budget decimal.Decimal,
) GuardianSummary {

	if prices == nil {
		prices = pricing.NewResolver()
	}
	week := calendar.WeekOf(today)
	month := calendar.MonthRange(today.Year, today.Month)

	s := GuardianSummary{
		WeeklySpent:   decimal.Zero,
		MonthlySpent:  decimal.Zero,
		MonthlyBudget: budget,
	}

	for _, o := range rows {
		price := prices.Price(o.Date, o.ItemName)

		if week.Contains(o.Date) {
			s.WeeklySpent = s.WeeklySpent.Add(price)
			s.MealsThisWeek++
			if o.Date.After(today) {
				s.UpcomingMeals++
			}
		}
		if month.Contains(o.Date) {
			s.MonthlySpent = s.MonthlySpent.Add(price)
		}
	}

	s.RemainingBudget = budget.Sub(s.MonthlySpent)
	return s
}
