package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Layout is the ISO 8601 date format used on the wire and in meal_date.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Date is a calendar day with no time-of-day or location attached.
// It is comparable, so it can be used inside map keys.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func Today() Date {
	return FromTime(time.Now())
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is an inclusive span of days.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

func NewRange(from, to Date) (Range, error) {
	if to.Before(from) {
		return Range{}, fmt.Errorf("range end %s is before start %s", to, from)
	}
	return Range{From: from, To: to}, nil
}

// ParseRange parses two ISO dates into a Range.
func ParseRange(from, to string) (Range, error) {
	f, err := Parse(from)
	if err != nil {
		return Range{}, err
	}
	t, err := Parse(to)
	if err != nil {
		return Range{}, err
	}
	return NewRange(f, t)
}

func SingleDay(d Date) Range {
	return Range{From: d, To: d}
}

func MonthRange(year int, month time.Month) Range {
	first := New(year, month, 1)
	return Range{From: first, To: FromTime(first.Time().AddDate(0, 1, -1))}
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

func (r Range) Days() []Date {
	var days []Date
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return r.From.String() + ".." + r.To.String()
}
