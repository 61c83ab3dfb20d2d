package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/textwidth"
)

const (
	// CellWidth is the column width of one day cell.
	CellWidth = 4
	// BlockWidth is the width of one month block.
	BlockWidth = CellWidth * 7
	// Gap separates adjacent month blocks.
	Gap = 3
)

var weekdayNames = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	nav      lipgloss.Style
	day      lipgloss.Style
	today    lipgloss.Style
	inRange  lipgloss.Style
	endpoint lipgloss.Style
	disabled lipgloss.Style
	holiday  lipgloss.Style
	workday  lipgloss.Style
	label    lipgloss.Style
	help     lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	button   lipgloss.Style
	muted    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FEC260")),
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A5B4FC")),
		nav:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A5B4FC")),
		day:      lipgloss.NewStyle(),
		today:    lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Underline(true),
		inRange:  lipgloss.NewStyle().Background(lipgloss.Color("#1E3A5F")),
		endpoint: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0F172A")).Background(lipgloss.Color("#60A5FA")),
		disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563")).Strikethrough(true),
		holiday:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		workday:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")),
		failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
		button:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0F172A")).Background(lipgloss.Color("#A5B4FC")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Renderer draws month blocks and the picker chrome.
type Renderer struct {
	svc        *calendar.Service
	noColor    bool
	selectable func(calendar.Date) bool
	st         styles
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithNoColor disables every ANSI style. Selection falls back to bracket
// markers.
func WithNoColor(disable bool) Option {
	return func(r *Renderer) { r.noColor = disable }
}

// WithSelectable greys out dates the rule rejects.
func WithSelectable(fn func(calendar.Date) bool) Option {
	return func(r *Renderer) { r.selectable = fn }
}

// New creates a Renderer backed by svc.
func New(svc *calendar.Service, opts ...Option) *Renderer {
	if svc == nil {
		svc = calendar.NewService()
	}
	r := &Renderer{svc: svc, st: defaultStyles()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Service returns the calendar service used for month views.
func (r *Renderer) Service() *calendar.Service { return r.svc }

// Views builds classified month views for months.
func (r *Renderer) Views(months []calendar.Month, weekStart time.Weekday, sel calendar.Range) ([]calendar.MonthView, error) {
	views, err := r.svc.Window(months, weekStart)
	if err != nil {
		return nil, err
	}
	return calendar.ClassifyAll(views, sel), nil
}

// RowHeight is the number of lines one week occupies under the active
// layer.
func (r *Renderer) RowHeight() int {
	if r.svc.Layer() == calendar.LayerNone {
		return 1
	}
	return 2
}

// nav marks which block edges carry pagination arrows.
type nav struct {
	prev, next bool
}

// block renders one month padded to weeks rows. Every line is exactly
// BlockWidth columns wide.
func (r *Renderer) block(view calendar.MonthView, weeks int, n nav) []string {
	lines := make([]string, 0, 2+weeks*r.RowHeight())
	lines = append(lines, r.titleLine(view.Title(), n))
	lines = append(lines, r.weekdayLine(view.WeekStart))

	blank := strings.Repeat(" ", BlockWidth)
	for i := 0; i < weeks; i++ {
		if i >= len(view.Weeks) {
			for j := 0; j < r.RowHeight(); j++ {
				lines = append(lines, blank)
			}
			continue
		}
		week := view.Weeks[i]
		var days, labels strings.Builder
		for _, d := range week {
			days.WriteString(r.dayCell(d))
			labels.WriteString(r.labelCell(d))
		}
		lines = append(lines, days.String())
		if r.RowHeight() == 2 {
			lines = append(lines, labels.String())
		}
	}
	return lines
}

func (r *Renderer) titleLine(title string, n nav) string {
	left, right := " ", " "
	if n.prev {
		left = r.paint(r.st.nav, "<")
	}
	if n.next {
		right = r.paint(r.st.nav, ">")
	}
	return left + r.paint(r.st.title, textwidth.Center(title, BlockWidth-2)) + right
}

func (r *Renderer) weekdayLine(start time.Weekday) string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString(textwidth.Center(weekdayNames[(int(start)+i)%7], CellWidth))
	}
	return r.paint(r.st.header, b.String())
}

func (r *Renderer) dayCell(d calendar.Day) string {
	if !d.InMonth {
		return strings.Repeat(" ", CellWidth)
	}
	num := fmt.Sprintf("%2d", d.Date.Day)
	if r.noColor {
		switch {
		case d.IsStart || d.IsEnd:
			return "[" + num + "]"
		case d.InRange:
			return "-" + num + "-"
		case r.selectable != nil && !r.selectable(d.Date):
			return " " + strings.Repeat("x", len(num)) + " "
		default:
			return textwidth.Center(num, CellWidth)
		}
	}

	text := textwidth.Center(num, CellWidth)
	st := r.st.day
	switch {
	case r.selectable != nil && !r.selectable(d.Date):
		st = r.st.disabled
	case d.HolidayInfo != nil && d.HolidayInfo.IsHoliday:
		st = r.st.holiday
	case d.HolidayInfo != nil:
		st = r.st.workday
	case d.IsToday:
		st = r.st.today
	}
	switch {
	case d.IsStart || d.IsEnd:
		st = r.st.endpoint
	case d.InRange:
		st = st.Background(r.st.inRange.GetBackground())
	}
	return st.Render(text)
}

func (r *Renderer) labelCell(d calendar.Day) string {
	if !d.InMonth {
		return strings.Repeat(" ", CellWidth)
	}
	var text string
	st := r.st.label
	switch r.svc.Layer() {
	case calendar.LayerLunar:
		text = d.SecondaryLabel()
	case calendar.LayerHolidays:
		if h := d.HolidayInfo; h != nil {
			if h.IsHoliday {
				text, st = h.Name, r.st.holiday
			} else {
				text, st = "班", r.st.workday
			}
		}
	}
	text = textwidth.Center(textwidth.Truncate(text, CellWidth), CellWidth)
	if r.noColor {
		return text
	}
	if d.InRange {
		st = st.Background(r.st.inRange.GetBackground())
	}
	return st.Render(text)
}

func (r *Renderer) paint(st lipgloss.Style, s string) string {
	if r.noColor {
		return s
	}
	return st.Render(s)
}

// strip renders views side by side. The first and last blocks carry the
// pagination arrows when arrows is set.
func (r *Renderer) strip(views []calendar.MonthView, arrows bool) []string {
	weeks := 0
	for _, v := range views {
		weeks = max(weeks, len(v.Weeks))
	}
	gap := strings.Repeat(" ", Gap)
	var rows []string
	for i, v := range views {
		n := nav{prev: arrows && i == 0, next: arrows && i == len(views)-1}
		block := r.block(v, weeks, n)
		if rows == nil {
			rows = block
			continue
		}
		for j := range rows {
			rows[j] += gap + block[j]
		}
	}
	return rows
}

// StripWidth is the width of n blocks side by side.
func StripWidth(n int) int {
	if n <= 0 {
		return 0
	}
	return n*BlockWidth + (n-1)*Gap
}

// Legend explains the holiday colours.
func (r *Renderer) Legend() string {
	legend := "blue = public holiday  orange = make-up workday (班)"
	return r.paint(r.st.muted, legend)
}
