// Package drag tracks a pointer drag across day cells and turns it into
// range proposals, auto-advancing the month window while the pointer is held
// past the widget's right edge.
package drag

import (
	"log/slog"
	"time"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
)

const (
	// AutoAdvanceDelay is how long the pointer must stay past the right
	// edge before the first auto-advance.
	AutoAdvanceDelay = time.Second
	// AutoAdvanceInterval is the cadence of further auto-advances.
	AutoAdvanceInterval = time.Second
)

// Mode is the selection mode.
type Mode int

const (
	ModeRange Mode = iota
	ModeSingle
)

// State of the gesture.
type State int

const (
	Idle State = iota
	Dragging
)

// Sink receives the controller's proposals. The coordinator is the only
// implementation outside tests.
type Sink interface {
	ProposeRange(r calendar.Range)
	AutoAdvance()
}

// Guard is a scoped resource held for the lifetime of a drag, e.g.
// suppressing text selection or enabling global pointer capture. The
// returned release func is called exactly once.
type Guard interface {
	Acquire() (release func())
}

// GuardFunc adapts a function to Guard.
type GuardFunc func() func()

// Acquire implements Guard.
func (f GuardFunc) Acquire() func() { return f() }

// Bounds is the widget's bounding box in pointer coordinates, inclusive.
type Bounds struct {
	Left, Top, Right, Bottom int
}

// Controller owns the active drag gesture.
type Controller struct {
	clock      clock.Clock
	sink       Sink
	guard      Guard
	selectable func(calendar.Date) bool
	mode       Mode
	logger     *slog.Logger

	state   State
	anchor  calendar.Date
	last    calendar.Range
	bounds  Bounds
	outside bool
	timer   clock.Timer
	release func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithGuard sets the resource acquired for each drag.
func WithGuard(g Guard) Option {
	return func(c *Controller) { c.guard = g }
}

// WithSelectable installs the date predicate consulted before a press or
// extension is accepted.
func WithSelectable(fn func(calendar.Date) bool) Option {
	return func(c *Controller) { c.selectable = fn }
}

// WithMode sets single or range selection.
func WithMode(m Mode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an idle controller.
func New(clk clock.Clock, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		clock:  clk,
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the gesture state.
func (c *Controller) State() State { return c.state }

// Anchor returns the date the active drag started on.
func (c *Controller) Anchor() (calendar.Date, bool) {
	return c.anchor, c.state == Dragging
}

// Outside reports whether the pointer is past the right edge.
func (c *Controller) Outside() bool { return c.outside }

// AutoAdvancing reports whether the auto-advance timer is armed.
func (c *Controller) AutoAdvancing() bool { return c.timer != nil }

// SetBounds updates the widget bounding box used for exit detection.
func (c *Controller) SetBounds(b Bounds) { c.bounds = b }

// SetMode switches between single and range selection. It only affects
// gestures started afterwards.
func (c *Controller) SetMode(m Mode) {
	if c.state == Idle {
		c.mode = m
	}
}

// Press starts a drag on d. Unselectable dates are ignored.
func (c *Controller) Press(d calendar.Date) bool {
	if c.state != Idle || !c.accepts(d) {
		return false
	}
	c.state = Dragging
	c.anchor = d
	c.outside = false
	c.last = calendar.Range{}
	if c.guard != nil {
		c.release = c.guard.Acquire()
	}
	c.propose(calendar.Range{Start: d})
	c.logger.Debug("drag started", "anchor", d)
	return true
}

// Enter extends the drag onto d. The range is re-sorted on every call so
// dragging back past the anchor flips start and end.
func (c *Controller) Enter(d calendar.Date) {
	if c.state != Dragging || !c.accepts(d) {
		return
	}
	if c.mode == ModeSingle {
		c.propose(calendar.Range{Start: d})
		return
	}
	lo, hi := calendar.Range{Start: c.anchor, End: d}.Ordered()
	c.propose(calendar.Range{Start: lo, End: hi})
}

// Move reports the pointer position. Only the right edge arms auto-advance.
func (c *Controller) Move(x, y int) {
	if c.state != Dragging {
		return
	}
	outside := x > c.bounds.Right
	if outside == c.outside {
		return
	}
	c.outside = outside
	if outside {
		c.arm()
	} else {
		c.disarm()
	}
}

// Release ends the drag; the last proposed range stays as the selection.
func (c *Controller) Release() {
	c.end("release")
}

// Cancel ends the drag from outside the gesture. Like Release, it keeps
// the last proposed range.
func (c *Controller) Cancel() {
	c.end("cancel")
}

// Close tears the controller down.
func (c *Controller) Close() {
	c.end("close")
}

func (c *Controller) end(reason string) {
	c.disarm()
	c.outside = false
	if c.release != nil {
		release := c.release
		c.release = nil
		release()
	}
	if c.state == Dragging {
		c.logger.Debug("drag ended", "reason", reason, "range", c.last)
	}
	c.state = Idle
	c.anchor = calendar.Date{}
}

func (c *Controller) accepts(d calendar.Date) bool {
	if d.IsZero() {
		return false
	}
	return c.selectable == nil || c.selectable(d)
}

func (c *Controller) propose(r calendar.Range) {
	if r == c.last {
		return
	}
	c.last = r
	c.sink.ProposeRange(r)
}

func (c *Controller) arm() {
	if c.timer != nil {
		return
	}
	c.timer = c.clock.AfterFunc(AutoAdvanceDelay, c.first)
}

func (c *Controller) first() {
	c.timer = nil
	if c.state != Dragging || !c.outside {
		return
	}
	c.timer = c.clock.Every(AutoAdvanceInterval, c.fire)
	c.sink.AutoAdvance()
}

func (c *Controller) fire() {
	if c.state != Dragging || !c.outside {
		c.disarm()
		return
	}
	c.sink.AutoAdvance()
}

func (c *Controller) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
