package render

import (
	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/drag"
)

// TargetKind identifies what a screen cell belongs to.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetDay
	TargetPrev
	TargetNext
	TargetStartField
	TargetEndField
	TargetClear
	TargetSubmit
)

// Target is the result of a hit test.
type Target struct {
	Kind TargetKind
	Date calendar.Date
}

type zone struct {
	x0, y0, x1, y1 int // half-open
	target         Target
}

func (z zone) contains(x, y int) bool {
	return x >= z.x0 && x < z.x1 && y >= z.y0 && y < z.y1
}

// Layout records where the last render put things, in screen cells
// relative to the view's top-left corner.
type Layout struct {
	// Bounds is the month grid area, used for drag exit detection.
	Bounds drag.Bounds

	gridX     int
	weeksTop  int
	rowHeight int
	weeks     int
	views     []calendar.MonthView
	zones     []zone
}

func (l *Layout) add(x0, y0, width, height int, t Target) {
	l.zones = append(l.zones, zone{x0: x0, y0: y0, x1: x0 + width, y1: y0 + height, target: t})
}

// Hit maps a screen cell onto the element drawn there. Days outside the
// current month and days under a running slide are not hittable.
func (l Layout) Hit(x, y int) Target {
	for _, z := range l.zones {
		if z.contains(x, y) {
			return z.target
		}
	}
	if d, ok := l.DayAt(x, y); ok {
		return Target{Kind: TargetDay, Date: d}
	}
	return Target{}
}

// DayAt returns the in-month day drawn at (x, y).
func (l Layout) DayAt(x, y int) (calendar.Date, bool) {
	if len(l.views) == 0 || l.rowHeight == 0 {
		return calendar.Date{}, false
	}
	dx, dy := x-l.gridX, y-l.weeksTop
	if dx < 0 || dy < 0 || dy >= l.weeks*l.rowHeight {
		return calendar.Date{}, false
	}
	slot := BlockWidth + Gap
	idx, within := dx/slot, dx%slot
	if idx >= len(l.views) || within >= BlockWidth {
		return calendar.Date{}, false
	}
	view := l.views[idx]
	week, col := dy/l.rowHeight, within/CellWidth
	if week >= len(view.Weeks) {
		return calendar.Date{}, false
	}
	day := view.Weeks[week][col]
	if !day.InMonth {
		return calendar.Date{}, false
	}
	return day.Date, true
}

// Locate returns the top-left cell of d's day number, if it is visible.
func (l Layout) Locate(d calendar.Date) (x, y int, ok bool) {
	for i, view := range l.views {
		for w, week := range view.Weeks {
			for c, day := range week {
				if day.InMonth && day.Date == d {
					return l.gridX + i*(BlockWidth+Gap) + c*CellWidth, l.weeksTop + w*l.rowHeight, true
				}
			}
		}
	}
	return 0, 0, false
}
