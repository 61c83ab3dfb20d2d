package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"

	"github.com/lululau/rangecal/internal/holidays"
)

// Supported Gregorian year range enforced by the upstream lunar library.
const (
	MinSupportedYear = 1900
	MaxSupportedYear = 3000
)

// Layer selects which read-only decoration is attached to day cells.
type Layer int

const (
	LayerNone Layer = iota
	LayerLunar
	LayerHolidays
)

var layerNames = []string{"none", "lunar", "holidays"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[l]
}

// Next cycles to the following layer.
func (l Layer) Next() Layer {
	return Layer((int(l) + 1) % len(layerNames))
}

// ParseLayer maps a config value onto a Layer.
func ParseLayer(s string) (Layer, error) {
	for i, name := range layerNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Layer(i), nil
		}
	}
	return LayerNone, fmt.Errorf("unknown layer %q", s)
}

// Day is one cell of a month grid.
type Day struct {
	Date    Date
	InMonth bool
	IsToday bool

	// Selection classification, filled by Classify.
	InRange bool
	IsStart bool
	IsEnd   bool

	LunarDayAlias   string
	LunarMonthAlias string
	SolarTerm       string
	HolidayInfo     *holidays.HolidayInfo
	hasLunarData    bool
}

// SecondaryLabel selects the lunar string rendered under the day number.
// Solar terms take precedence, followed by the lunar month name on the first
// day of a lunar month.
func (d Day) SecondaryLabel() string {
	if d.SolarTerm != "" {
		return d.SolarTerm
	}
	if d.LunarDayAlias == "初一" && d.LunarMonthAlias != "" {
		return d.LunarMonthAlias
	}
	return d.LunarDayAlias
}

// HasLunarData reports whether lunar metadata was calculated.
func (d Day) HasLunarData() bool {
	return d.hasLunarData
}

// MonthView is a month laid out into weeks starting on WeekStart.
type MonthView struct {
	Month     Month
	WeekStart time.Weekday
	Weeks     [][]Day
}

// Title is the month heading.
func (v MonthView) Title() string {
	return v.Month.Title()
}

// Service materialises month views and their layer decorations.
type Service struct {
	now         func() time.Time
	layer       Layer
	holidayData holidays.Table
}

// Option configures the Service.
type Option func(*Service)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithHolidays sets the holiday data used by LayerHolidays.
func WithHolidays(data holidays.Table) Option {
	return func(s *Service) {
		s.holidayData = data
	}
}

// WithLayer sets the initial decoration layer.
func WithLayer(l Layer) Option {
	return func(s *Service) {
		s.layer = l
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layer returns the active decoration layer.
func (s *Service) Layer() Layer {
	return s.layer
}

// SetLayer switches the decoration layer.
func (s *Service) SetLayer(l Layer) {
	s.layer = l
}

// HasHolidayData reports whether holiday entries were loaded.
func (s *Service) HasHolidayData() bool {
	return len(s.holidayData) > 0
}

// Today returns the service's notion of the current date.
func (s *Service) Today() Date {
	return Today(s.now)
}

var (
	// ErrYearOutOfRange indicates the requested year is unsupported.
	ErrYearOutOfRange = fmt.Errorf("year must be between %d and %d", MinSupportedYear, MaxSupportedYear)
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Month builds the grid for m. Leading and trailing cells from the adjacent
// months are included and flagged with InMonth=false.
func (s *Service) Month(m Month, weekStart time.Weekday) (MonthView, error) {
	if m.Year < MinSupportedYear || m.Year > MaxSupportedYear {
		return MonthView{}, ErrYearOutOfRange
	}
	if m.Month < time.January || m.Month > time.December {
		return MonthView{}, ErrInvalidMonth
	}

	first := m.First()
	lead := (int(first.Time().Weekday()) - int(weekStart) + 7) % 7
	cursor := first.AddDays(-lead)
	last := m.Last()
	today := s.Today()

	weeks := make([][]Day, 0, 6)
	for len(weeks) < 6 {
		week := make([]Day, 7)
		for i := range week {
			week[i] = s.buildDay(cursor, m, today)
			cursor = cursor.AddDays(1)
		}
		weeks = append(weeks, week)
		if cursor.After(last) {
			break
		}
	}

	return MonthView{Month: m, WeekStart: weekStart, Weeks: weeks}, nil
}

// Window builds one view per month in order.
func (s *Service) Window(months []Month, weekStart time.Weekday) ([]MonthView, error) {
	views := make([]MonthView, 0, len(months))
	for _, m := range months {
		view, err := s.Month(m, weekStart)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) buildDay(day Date, current Month, today Date) Day {
	d := Day{
		Date:    day,
		InMonth: current.Contains(day),
		IsToday: day == today,
	}
	switch s.layer {
	case LayerLunar:
		s.decorateLunar(&d)
	case LayerHolidays:
		d.HolidayInfo = s.holidayData.Lookup(day.Year, int(day.Month), day.Day)
	}
	return d
}

func (s *Service) decorateLunar(d *Day) {
	if d.Date.Year < MinSupportedYear || d.Date.Year > MaxSupportedYear {
		return
	}
	cal := calendarlib.BySolar(
		int64(d.Date.Year),
		int64(d.Date.Month),
		int64(d.Date.Day),
		12, 0, 0,
	)
	d.LunarDayAlias = cal.Lunar.DayAlias()
	d.LunarMonthAlias = cal.Lunar.MonthAlias()
	d.hasLunarData = true
	if term := cal.Solar.CurrentSolarterm; term != nil {
		t := d.Date.Time()
		if term.IsInDay(&t) {
			d.SolarTerm = term.Alias()
		}
	}
}
