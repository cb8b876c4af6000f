package analytics

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/pricing"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Input is everything one aggregation run reads.
type Input struct {
	Orders []orders.CommittedOrder
	Roster roster.Snapshot
	Prices *pricing.Resolver
	Range  calendar.Range
	Sort   SortMode
}

// Aggregate turns raw order rows into statistics. It never fails: missing
// names become Unknown and unresolved prices use the resolver fallback.
//
// Orders of children missing from the roster count toward revenue, order
// totals and active students, but are left out of class demand and billing.
func Aggregate(in Input) Statistics {
	prices := in.Prices
	if prices == nil {
		prices = pricing.NewResolver()
	}
	children := in.Roster.ChildByID()

	stats := Statistics{
		Range:         in.Range,
		TotalRevenue:  decimal.Zero,
		TotalOrders:   len(in.Orders),
		TotalStudents: len(in.Roster.Children),
	}

	// ---- totals ----
	unit := make([]decimal.Decimal, len(in.Orders))
	active := make(map[string]bool)
	inRoster := make(map[string]bool)
	for i, o := range in.Orders {
		unit[i] = prices.Price(o.Date, o.ItemName)
		stats.TotalRevenue = stats.TotalRevenue.Add(unit[i])
		active[o.ChildID] = true
		if _, ok := children[o.ChildID]; ok {
			inRoster[o.ChildID] = true
		}
	}

	stats.AverageOrderValue = decimal.Zero
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(stats.TotalOrders))).
			Round(0)
	}

	// ---- participation ----
	stats.ActiveStudents = len(active)
	stats.StudentsWithOrders = len(inRoster)
	stats.StudentsWithoutOrders = stats.TotalStudents - stats.StudentsWithOrders
	if stats.TotalStudents > 0 {
		stats.ParticipationRate = float64(stats.ActiveStudents) / float64(stats.TotalStudents) * 100
	}

	stats.ClassDemand = classDemand(in.Orders, children, in.Sort)
	stats.Weekly = weeklyBuckets(in.Range, in.Orders, unit)
	stats.Billing = billing(in.Orders, unit, in.Roster)

	return stats
}

// classDemand groups rows by grade then dish. Grades are ordered by their
// leading integer; with SortName each student list is collated for Ukrainian.
func classDemand(
	rows []orders.CommittedOrder,
	children map[string]roster.Child,
	mode SortMode,
) []ClassDemand {

	type dishIndex map[string]int

	var out []ClassDemand
	gradeAt := make(map[string]int)
	dishAt := make(map[string]dishIndex)

	for _, o := range rows {
		child, ok := children[o.ChildID]
		if !ok {
			continue
		}

		gi, ok := gradeAt[child.Grade]
		if !ok {
			gi = len(out)
			gradeAt[child.Grade] = gi
			dishAt[child.Grade] = make(dishIndex)
			out = append(out, ClassDemand{Grade: child.Grade})
		}

		class := &out[gi]
		di, ok := dishAt[child.Grade][o.ItemName]
		if !ok {
			di = len(class.Dishes)
			dishAt[child.Grade][o.ItemName] = di
			class.Dishes = append(class.Dishes, DishDemand{Dish: o.ItemName})
		}

		class.Dishes[di].Count++
		class.Dishes[di].Students = append(class.Dishes[di].Students, displayName(child.Name))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return LeadingInt(out[i].Grade) < LeadingInt(out[j].Grade)
	})

	if mode == SortName {
		col := collate.New(language.Ukrainian)
		for i := range out {
			for j := range out[i].Dishes {
				col.SortStrings(out[i].Dishes[j].Students)
			}
		}
	}

	if out == nil {
		out = []ClassDemand{}
	}
	return out
}

// weeklyBuckets emits one bucket per Monday-start week touching the range,
// including weeks without orders. Rows outside every week are ignored.
func weeklyBuckets(
	rng calendar.Range,
	rows []orders.CommittedOrder,
	unit []decimal.Decimal,
) []WeeklyBucket {

	if rng.From.IsZero() || rng.To.IsZero() {
		return []WeeklyBucket{}
	}

	weeks := calendar.Weeks(rng)
	buckets := make([]WeeklyBucket, len(weeks))
	index := make(map[calendar.Date]int, len(weeks))
	for i, w := range weeks {
		buckets[i] = WeeklyBucket{
			Label:   w.Label(),
			From:    w.Start,
			To:      w.End,
			Revenue: decimal.Zero,
		}
		index[w.Start] = i
	}

	for i, o := range rows {
		bi, ok := index[calendar.WeekOf(o.Date).Start]
		if !ok {
			continue
		}
		buckets[bi].Orders++
		buckets[bi].Revenue = buckets[bi].Revenue.Add(unit[i])
	}

	return buckets
}

// billing totals rows per rostered child, largest amount first. Ties keep
// roster order.
func billing(
	rows []orders.CommittedOrder,
	unit []decimal.Decimal,
	snap roster.Snapshot,
) []StudentBilling {

	guardians := snap.GuardianNames()

	type acc struct {
		count int
		total decimal.Decimal
	}
	totals := make(map[string]*acc)
	for i, o := range rows {
		a, ok := totals[o.ChildID]
		if !ok {
			a = &acc{total: decimal.Zero}
			totals[o.ChildID] = a
		}
		a.count++
		a.total = a.total.Add(unit[i])
	}

	out := []StudentBilling{}
	for _, c := range snap.Children {
		a, ok := totals[c.ID]
		if !ok || a.count == 0 {
			continue
		}

		guardian, ok := guardians[c.GuardianID]
		if !ok || guardian == "" {
			guardian = Unknown
		}

		out = append(out, StudentBilling{
			ChildID:      c.ID,
			StudentName:  displayName(c.Name),
			Grade:        c.Grade,
			GuardianName: guardian,
			OrdersCount:  a.count,
			TotalAmount:  a.total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount.GreaterThan(out[j].TotalAmount)
	})
	return out
}

// LeadingInt parses the integer a grade label starts with ("10-А" is 10).
// Labels without one sort as 0.
func LeadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return Unknown
	}
	return name
}
