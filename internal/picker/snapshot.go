package picker

import (
	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/drag"
	"github.com/lululau/rangecal/internal/field"
	"github.com/lululau/rangecal/internal/window"
)

// FieldSnapshot is the render state of one date field.
type FieldSnapshot struct {
	Which     field.Which
	Text      string
	State     field.State
	Indicator field.Indicator
}

// Snapshot is a consistent, read-only copy of everything a view needs.
type Snapshot struct {
	Range    calendar.Range
	Months   []calendar.Month
	Frame    window.Frame
	Incoming calendar.Month
	// Sliding is true while Incoming is being revealed.
	Sliding  bool
	Fields   [2]FieldSnapshot
	Dragging bool
	Open     bool
	Mode     drag.Mode
	Display  config.Display
}

// Snapshot copies the coordinator's stored state.
func (c *Coordinator) Snapshot() Snapshot {
	s := Snapshot{
		Range:    c.rng,
		Months:   c.window.Months(),
		Frame:    c.window.Frame(),
		Dragging: c.drag.State() == drag.Dragging,
		Open:     c.IsOpen(),
		Mode:     c.cfg.Mode,
		Display:  c.cfg.Display,
	}
	s.Incoming, s.Sliding = c.window.Incoming()
	for i, f := range c.fields {
		s.Fields[i] = FieldSnapshot{
			Which:     f.Which(),
			Text:      f.Text(),
			State:     f.State(),
			Indicator: f.Indicator(),
		}
	}
	return s
}
