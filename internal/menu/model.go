package menu

import (
	"sort"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
)

// DayCatalog is the published menu of one day, partitioned by slot.
type DayCatalog struct {
	Date  calendar.Date   `json:"date"`
	Slots map[Slot][]Item `json:"slots"`
}

func NewDayCatalog(date calendar.Date, items ...Item) DayCatalog {
	c := DayCatalog{Date: date, Slots: make(map[Slot][]Item)}
	for _, it := range items {
		c.Slots[it.Slot] = append(c.Slots[it.Slot], it)
	}
	return c
}

// Find looks an item up by exact name within a slot.
func (c DayCatalog) Find(slot Slot, name string) (Item, bool) {
	for _, it := range c.Slots[slot] {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// FindByName looks an item up by exact name in any slot.
func (c DayCatalog) FindByName(name string) (Item, bool) {
	for _, slot := range Slots {
		if it, ok := c.Find(slot, name); ok {
			return it, true
		}
	}
	return Item{}, false
}

func (c DayCatalog) Items() []Item {
	var items []Item
	for _, slot := range Slots {
		items = append(items, c.Slots[slot]...)
	}
	return items
}

// Catalog is a date-ordered list of day catalogs.
type Catalog []DayCatalog

func (c Catalog) Day(d calendar.Date) (DayCatalog, bool) {
	for _, day := range c {
		if day.Date == d {
			return day, true
		}
	}
	return DayCatalog{}, false
}

// GroupByDay partitions items into day catalogs ordered by date.
func GroupByDay(items []Item) Catalog {
	byDate := make(map[calendar.Date][]Item)
	var dates []calendar.Date
	for _, it := range items {
		if _, ok := byDate[it.Date]; !ok {
			dates = append(dates, it.Date)
		}
		byDate[it.Date] = append(byDate[it.Date], it)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	catalog := make(Catalog, 0, len(dates))
	for _, d := range dates {
		catalog = append(catalog, NewDayCatalog(d, byDate[d]...))
	}
	return catalog
}
