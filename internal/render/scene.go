package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/datetext"
	"github.com/lululau/rangecal/internal/drag"
	"github.com/lululau/rangecal/internal/field"
	"github.com/lululau/rangecal/internal/picker"
	"github.com/lululau/rangecal/internal/textwidth"
	"github.com/lululau/rangecal/internal/window"
)

// FieldWidth is the column width reserved for a date field.
const FieldWidth = 20

const (
	clearButton  = "[ Clear ]"
	submitButton = "[ Submit ]"
)

// Scene is everything one frame of the picker shows.
type Scene struct {
	Snapshot picker.Snapshot
	Config   config.Config
	// Fields holds the rendered text inputs. An empty entry falls back to
	// the snapshot's field text.
	Fields [2]string
	Help   string
	Status string
}

// Render draws the scene and reports where each interactive element
// landed.
func (r *Renderer) Render(sc Scene) (string, Layout, error) {
	var (
		lines  []string
		layout Layout
	)
	snap := sc.Snapshot
	cfg := sc.Config

	if !snap.Open {
		lines = append(lines, r.summary(snap))
		lines = append(lines, r.paint(r.st.help, "press o to open the picker"))
		if sc.Status != "" {
			lines = append(lines, r.paint(r.st.failure, sc.Status))
		}
		return strings.Join(lines, "\n"), layout, nil
	}

	if cfg.ShowHeader {
		lines = append(lines, r.header(snap), "")
	}

	fieldsY := len(lines)
	lines = append(lines, r.fieldRow(sc, &layout, fieldsY))
	lines = append(lines, r.indicatorRow(snap))
	lines = append(lines, "")

	grid, err := r.grid(sc, &layout, len(lines))
	if err != nil {
		return "", Layout{}, err
	}
	lines = append(lines, grid...)

	if cfg.ShowFooter {
		lines = append(lines, "", r.summary(snap))
		buttons := r.paint(r.st.button, clearButton)
		layout.add(0, len(lines), len(clearButton), 1, Target{Kind: TargetClear})
		if cfg.ShowSubmit {
			x := len(clearButton) + 2
			buttons += "  " + r.paint(r.st.button, submitButton)
			layout.add(x, len(lines), len(submitButton), 1, Target{Kind: TargetSubmit})
		}
		lines = append(lines, buttons)
	}
	if cfg.ShowTooltips && sc.Help != "" {
		lines = append(lines, "", r.paint(r.st.help, sc.Help))
	}
	if sc.Status != "" {
		lines = append(lines, r.paint(r.st.failure, sc.Status))
	}
	return strings.Join(lines, "\n"), layout, nil
}

func (r *Renderer) header(snap picker.Snapshot) string {
	title := "Select a date range"
	if snap.Mode == drag.ModeSingle {
		title = "Select a date"
	}
	right := ""
	if l := r.svc.Layer(); l != calendar.LayerNone {
		right = "layer: " + l.String()
	}
	width := StripWidth(len(snap.Months))
	pad := width - textwidth.StringWidth(title) - textwidth.StringWidth(right)
	if pad < 1 {
		pad = 1
	}
	return r.paint(r.st.title, title) + strings.Repeat(" ", pad) + r.paint(r.st.muted, right)
}

func (r *Renderer) fieldRow(sc Scene, layout *Layout, y int) string {
	label := func(s string) string { return r.paint(r.st.header, s) }
	text := func(w field.Which) string {
		if v := sc.Fields[w]; v != "" {
			return textwidth.PadRight(v, FieldWidth)
		}
		t := sc.Snapshot.Fields[w].Text
		if t == "" {
			t = r.paint(r.st.muted, datetext.Layout)
		}
		return textwidth.PadRight(t, FieldWidth)
	}

	if sc.Snapshot.Mode == drag.ModeSingle {
		layout.add(6, y, FieldWidth, 1, Target{Kind: TargetStartField})
		return label("Date  ") + text(field.Start)
	}
	layout.add(6, y, FieldWidth, 1, Target{Kind: TargetStartField})
	endX := 6 + FieldWidth + 2 + 6
	layout.add(endX, y, FieldWidth, 1, Target{Kind: TargetEndField})
	return label("Start ") + text(field.Start) + "  " + label("End   ") + text(field.End)
}

func (r *Renderer) indicatorRow(snap picker.Snapshot) string {
	var parts []string
	for _, f := range snap.Fields {
		if snap.Mode == drag.ModeSingle && f.Which == field.End {
			continue
		}
		switch f.Indicator.Kind {
		case field.IndicatorSuccess:
			parts = append(parts, r.paint(r.st.success, f.Which.String()+": "+f.Indicator.Message))
		case field.IndicatorError:
			parts = append(parts, r.paint(r.st.failure, f.Which.String()+": "+f.Indicator.Message))
		}
	}
	return strings.Join(parts, "   ")
}

// grid draws the month strip at line top, sliding it when a pagination is
// running.
func (r *Renderer) grid(sc Scene, layout *Layout, top int) ([]string, error) {
	snap := sc.Snapshot
	views, err := r.Views(snap.Months, sc.Config.WeekStart, snap.Range)
	if err != nil {
		return nil, err
	}
	width := StripWidth(len(views))

	var lines []string
	if snap.Sliding {
		incoming, err := r.Views([]calendar.Month{snap.Incoming}, sc.Config.WeekStart, snap.Range)
		if err != nil {
			return nil, err
		}
		lines = r.slide(views, incoming[0], snap.Frame, width)
	} else {
		lines = r.strip(views, true)
		layout.views = views
		layout.gridX = 0
		layout.weeksTop = top + 2
		layout.rowHeight = r.RowHeight()
		layout.weeks = (len(lines) - 2) / r.RowHeight()
		layout.add(0, top, 1, 1, Target{Kind: TargetPrev})
		layout.add(width-1, top, 1, 1, Target{Kind: TargetNext})
	}
	layout.Bounds = drag.Bounds{Left: 0, Top: top, Right: width - 1, Bottom: top + len(lines) - 1}
	return lines, nil
}

// slide renders the window plus the incoming month and cuts a
// window-wide view out of it at the frame's offset.
func (r *Renderer) slide(views []calendar.MonthView, incoming calendar.MonthView, f window.Frame, width int) []string {
	var all []calendar.MonthView
	var left int
	step := float64(BlockWidth + Gap)
	if f.Direction == window.Prev {
		all = append([]calendar.MonthView{incoming}, views...)
		left = int(math.Round(step * f.Offset))
	} else {
		all = append(append([]calendar.MonthView{}, views...), incoming)
		left = int(math.Round(step * (1 - f.Offset)))
	}
	strip := r.strip(all, false)
	out := make([]string, len(strip))
	for i, line := range strip {
		out[i] = ansi.Cut(line, left, left+width)
	}
	return out
}

func (r *Renderer) summary(snap picker.Snapshot) string {
	return r.paint(r.st.muted, Summary(snap.Range, snap.Mode))
}

// Summary describes a selection in one line.
func Summary(rng calendar.Range, mode drag.Mode) string {
	if rng.IsEmpty() {
		return "No dates selected"
	}
	lo, hi := rng.Ordered()
	if mode == drag.ModeSingle || rng.End.IsZero() || lo == hi {
		return "Selected: " + datetext.Format(lo)
	}
	return fmt.Sprintf("Selected: %s -> %s (%d days)", datetext.Format(lo), datetext.Format(hi), lo.DaysUntil(hi)+1)
}
