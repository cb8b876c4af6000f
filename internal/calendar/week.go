package calendar

import (
	"fmt"
	"time"
)

// Week is a Monday-start 7-day window.
type Week struct {
	Start Date
	End   Date
}

// WeekOf returns the Monday..Sunday window containing d.
func WeekOf(d Date) Week {
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDays(-offset)
	return Week{Start: start, End: start.AddDays(6)}
}

func (w Week) Contains(d Date) bool {
	return Range{From: w.Start, To: w.End}.Contains(d)
}

// Label renders the window as "DD.MM - DD.MM".
func (w Week) Label() string {
	return fmt.Sprintf(
		"%02d.%02d - %02d.%02d",
		w.Start.Day, int(w.Start.Month),
		w.End.Day, int(w.End.Month),
	)
}

// Weeks partitions r into consecutive Monday-start windows. The first and
// last windows may extend outside r.
func Weeks(r Range) []Week {
	var weeks []Week
	for w := WeekOf(r.From); !w.Start.After(r.To); w = WeekOf(w.Start.AddDays(7)) {
		weeks = append(weeks, w)
	}
	return weeks
}

// SchoolWeek returns Monday..Friday of the ordering week. On Saturday and
// Sunday the following week is treated as current.
func SchoolWeek(today Date, offset int) Range {
	start := WeekOf(today).Start
	if wd := today.Weekday(); wd == time.Saturday || wd == time.Sunday {
		start = start.AddDays(7)
	}
	start = start.AddDays(7 * offset)
	return Range{From: start, To: start.AddDays(4)}
}
