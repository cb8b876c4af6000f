package analytics

import (
	"sort"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BuildDailySheet lists what every student eats on date. Students without
// a main meal, and rows of children missing from the roster, are left out.
func BuildDailySheet(
	date calendar.Date,
	rows []orders.CommittedOrder,
	snap roster.Snapshot,
	mode SortMode,
) DailySheet {

	children := snap.ChildByID()

	var students []*StudentOrder
	byChild := make(map[string]*StudentOrder)

	for _, o := range rows {
		if o.Date != date {
			continue
		}
		child, ok := children[o.ChildID]
		if !ok {
			continue
		}

		so, ok := byChild[o.ChildID]
		if !ok {
			so = &StudentOrder{
				StudentID:      child.ID,
				StudentName:    displayName(child.Name),
				Grade:          child.Grade,
				FruitBreak:     []string{},
				AfternoonSnack: []string{},
				Allergies:      child.Allergies.Labels(),
			}
			byChild[o.ChildID] = so
			students = append(students, so)
		}

		switch o.Slot {
		case menu.SlotPrimary:
			so.MainMeal = o.ItemName
		case menu.SlotSecondary:
			so.FruitBreak = append(so.FruitBreak, o.ItemName)
		case menu.SlotSupplemental:
			so.AfternoonSnack = append(so.AfternoonSnack, o.ItemName)
		}
	}

	sheet := DailySheet{
		Date:     date,
		Sort:     mode,
		Students: []StudentOrder{},
	}

	for _, so := range students {
		if so.MainMeal == "" {
			continue
		}
		if so.Allergies == nil {
			so.Allergies = []string{}
		}
		sheet.Students = append(sheet.Students, *so)
		if len(so.Allergies) > 0 {
			sheet.StudentsWithAllergies++
		}
	}
	sheet.TotalStudents = len(sheet.Students)

	sortStudents(sheet.Students, mode)
	sheet.ClassDemand = classDemand(sheetRows(date, sheet.Students), children, mode)

	return sheet
}

// sheetRows turns the listed students back into order rows, in sheet order,
// so class demand only counts what the sheet shows.
func sheetRows(date calendar.Date, students []StudentOrder) []orders.CommittedOrder {
	var rows []orders.CommittedOrder
	add := func(childID string, slot menu.Slot, name string) {
		rows = append(rows, orders.CommittedOrder{
			ChildID:  childID,
			Date:     date,
			Slot:     slot,
			ItemName: name,
		})
	}

	for _, so := range students {
		add(so.StudentID, menu.SlotPrimary, so.MainMeal)
		for _, name := range so.FruitBreak {
			add(so.StudentID, menu.SlotSecondary, name)
		}
		for _, name := range so.AfternoonSnack {
			add(so.StudentID, menu.SlotSupplemental, name)
		}
	}
	return rows
}

func sortStudents(students []StudentOrder, mode SortMode) {
	switch mode {
	case SortGrade:
		sort.SliceStable(students, func(i, j int) bool {
			return LeadingInt(students[i].Grade) < LeadingInt(students[j].Grade)
		})
	case SortName:
		col := collate.New(language.Ukrainian)
		sort.SliceStable(students, func(i, j int) bool {
			return col.CompareString(students[i].StudentName, students[j].StudentName) < 0
		})
	}
}

// BuildWeekOverview summarises each day of the window starting at from.
func BuildWeekOverview(
	from calendar.Date,
	days int,
	rows []orders.CommittedOrder,
	snap roster.Snapshot,
) []DayOverview {

	out := make([]DayOverview, 0, days)
	for i := 0; i < days; i++ {
		d := from.AddDays(i)
		sheet := BuildDailySheet(d, rows, snap, SortNone)
		out = append(out, DayOverview{
			Date:                  d,
			TotalStudents:         sheet.TotalStudents,
			StudentsWithAllergies: sheet.StudentsWithAllergies,
		})
	}
	return out
}
