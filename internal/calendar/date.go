package calendar

import (
	"fmt"
	"time"
)

// Date is a calendar day without a time of day or location. The zero value
// means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalising overflowing components the way
// time.Date does (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local date according to now.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return DateOf(now())
}

// IsZero reports whether d is the empty date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Years outside this span have no four-digit text form.
const (
	MinYear = 1
	MaxYear = 9999
)

// Valid reports whether d names a real day between MinYear and MaxYear.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return d.Day <= DaysIn(d.Year, d.Month)
}

// Time returns local midnight of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// AddDays moves d by n days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// DaysUntil returns the signed number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(o.Year, o.Month, o.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// MonthOf returns the month d belongs to.
func (d Date) MonthOf() Month {
	return Month{Year: d.Year, Month: d.Month}
}

func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Month identifies a calendar month by its first day.
type Month struct {
	Year  int
	Month time.Month
}

// Add moves the month by n, rolling the year as needed.
func (m Month) Add(n int) Month {
	idx := m.Year*12 + int(m.Month) - 1 + n
	year := idx / 12
	mon := idx % 12
	if mon < 0 {
		mon += 12
		year--
	}
	return Month{Year: year, Month: time.Month(mon + 1)}
}

// Next is Add(1).
func (m Month) Next() Month { return m.Add(1) }

// Prev is Add(-1).
func (m Month) Prev() Month { return m.Add(-1) }

// First returns the first day of the month.
func (m Month) First() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the final day of the month.
func (m Month) Last() Date {
	return Date{Year: m.Year, Month: m.Month, Day: DaysIn(m.Year, m.Month)}
}

// Contains reports whether d falls inside m.
func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Title is the heading rendered above a month grid.
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Range is the selection. Either side may be zero and the order of Start
// and End is not enforced; use Ordered when chronology matters.
type Range struct {
	Start Date
	End   Date
}

// IsEmpty reports whether neither side is set.
func (r Range) IsEmpty() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Ordered returns the chronological (lo, hi) pair. When only one side is
// set, both results equal it.
func (r Range) Ordered() (Date, Date) {
	switch {
	case r.Start.IsZero():
		return r.End, r.End
	case r.End.IsZero():
		return r.Start, r.Start
	case r.End.Before(r.Start):
		return r.End, r.Start
	default:
		return r.Start, r.End
	}
}

// Contains reports whether d lies within the ordered range, inclusive.
func (r Range) Contains(d Date) bool {
	if r.IsEmpty() || d.IsZero() {
		return false
	}
	lo, hi := r.Ordered()
	return !d.Before(lo) && !d.After(hi)
}

func (r Range) String() string {
	return r.Start.String() + " .. " + r.End.String()
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
