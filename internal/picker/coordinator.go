// Package picker is the top of the selection core. A Coordinator owns the
// authoritative selection range and reconciles the drag controller, both
// date fields and the month window through a single update path.
package picker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/drag"
	"github.com/lululau/rangecal/internal/field"
	"github.com/lululau/rangecal/internal/registry"
	"github.com/lululau/rangecal/internal/window"
)

// ErrValidationBlocked is returned by CommitAndClose while a date field
// still shows a validation error.
var ErrValidationBlocked = errors.New("a date field has an unresolved error")

// Options wires a Coordinator to its collaborators and listeners.
type Options struct {
	Clock  clock.Clock
	Config config.Config
	// Selectable is the external rule set. Nil accepts every date.
	Selectable func(calendar.Date) bool
	// Registry coordinates popup instances. Nil disables coordination.
	Registry *registry.Registry
	// Guard is held for the lifetime of each drag.
	Guard  drag.Guard
	Logger *slog.Logger

	OnChange func(calendar.Range)
	OnSubmit func(start, end calendar.Date)
	OnClear  func()
	// OnClose fires when a popup closes, whether by submit, Close or
	// another instance taking over.
	OnClose func()
}

// Coordinator is the sole writer of the selection range.
type Coordinator struct {
	opts   Options
	cfg    config.Config
	clock  clock.Clock
	logger *slog.Logger

	rng    calendar.Range
	drag   *drag.Controller
	window *window.Manager
	fields [2]*field.Editor

	id        string
	open      bool
	unmounted bool
}

// New mounts a coordinator seeded from opts.Config. The default range is
// applied without firing OnChange.
func New(opts Options) *Coordinator {
	if opts.Clock == nil {
		opts.Clock = clock.NewLoop()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		opts:   opts,
		cfg:    opts.Config,
		clock:  opts.Clock,
		logger: logger,
		rng:    opts.Config.DefaultRange,
		open:   opts.Config.Display == config.DisplayEmbedded,
	}

	today := c.today()
	c.window = window.New(c.clock, c.cfg.Months, today.MonthOf(), window.WithLogger(logger))
	if !c.rng.Start.IsZero() {
		c.window.Recenter(c.rng.Start.MonthOf(), window.AnchorStart)
	}

	c.fields[field.Start] = field.New(field.Start, c.clock, logger)
	c.fields[field.End] = field.New(field.End, c.clock, logger)
	c.syncFields()

	c.drag = drag.New(c.clock, c,
		drag.WithGuard(opts.Guard),
		drag.WithSelectable(opts.Selectable),
		drag.WithMode(c.cfg.Mode),
		drag.WithLogger(logger),
	)

	if opts.Registry != nil {
		c.id = opts.Registry.Register(c.deactivated)
		if c.open {
			opts.Registry.Activate(c.id)
		}
	}
	return c
}

// ID is the registry id, empty without a registry.
func (c *Coordinator) ID() string { return c.id }

// Range returns the authoritative selection.
func (c *Coordinator) Range() calendar.Range { return c.rng }

// Config returns the props currently in effect.
func (c *Coordinator) Config() config.Config { return c.cfg }

// IsOpen reports whether the picker is showing.
func (c *Coordinator) IsOpen() bool { return c.open && !c.unmounted }

// Months returns the visible month window.
func (c *Coordinator) Months() []calendar.Month { return c.window.Months() }

// Frame returns the window's animation frame.
func (c *Coordinator) Frame() window.Frame { return c.window.Frame() }

// Incoming returns the month being revealed by a running pagination.
func (c *Coordinator) Incoming() (calendar.Month, bool) { return c.window.Incoming() }

// Field exposes a date field for rendering.
func (c *Coordinator) Field(which field.Which) *field.Editor { return c.fields[which] }

// Dragging reports whether a drag gesture is in progress.
func (c *Coordinator) Dragging() bool { return c.drag.State() == drag.Dragging }

// SelectStart sets the start date.
func (c *Coordinator) SelectStart(d calendar.Date) {
	if c.unmounted {
		return
	}
	r := c.rng
	r.Start = d
	c.apply(r, nil)
}

// SelectEnd sets the end date. It is ignored in single mode.
func (c *Coordinator) SelectEnd(d calendar.Date) {
	if c.unmounted || c.cfg.Mode == drag.ModeSingle {
		return
	}
	r := c.rng
	r.End = d
	c.apply(r, nil)
}

// Clear empties the selection and both fields, ends any drag and re-centres
// the window on today.
func (c *Coordinator) Clear() {
	if c.unmounted {
		return
	}
	c.drag.Cancel()
	for _, f := range c.fields {
		f.Reset()
	}
	c.apply(calendar.Range{}, nil)
	c.window.Recenter(c.today().MonthOf(), window.AnchorCenter)
	c.logger.Debug("selection cleared")
	if c.opts.OnClear != nil {
		c.opts.OnClear()
	}
}

// CancelDrag ends an active drag, keeping the range it last proposed.
func (c *Coordinator) CancelDrag() {
	if c.unmounted {
		return
	}
	c.drag.Cancel()
}

// CommitAndClose commits any pending field edits and submits the ordered
// range. It fails with ErrValidationBlocked while a field shows an error.
func (c *Coordinator) CommitAndClose() error {
	if c.unmounted {
		return nil
	}
	c.drag.Release()
	for _, f := range c.fields {
		if f.State() == field.Editing {
			_ = c.CommitField(f.Which())
		}
	}
	for _, f := range c.fields {
		if f.State() == field.ShowingError {
			return fmt.Errorf("%w: %s: %v", ErrValidationBlocked, f.Which(), f.Err())
		}
	}

	lo, hi := c.rng.Ordered()
	c.logger.Info("selection submitted", "start", lo, "end", hi)
	if c.opts.OnSubmit != nil {
		c.opts.OnSubmit(lo, hi)
	}
	if c.cfg.Display == config.DisplayPopup {
		c.Close()
	}
	return nil
}

// TypeField buffers raw text typed into a field.
func (c *Coordinator) TypeField(which field.Which, text string) {
	if c.unmounted {
		return
	}
	c.fields[which].Type(text)
}

// DiscardField drops unsaved text and any error in a field.
func (c *Coordinator) DiscardField(which field.Which) {
	if c.unmounted {
		return
	}
	c.fields[which].Dismiss()
}

// CommitField validates and commits a field's text. On success the range
// is updated and the window jumps to the committed month.
func (c *Coordinator) CommitField(which field.Which) error {
	if c.unmounted {
		return nil
	}
	if which == field.End && c.cfg.Mode == drag.ModeSingle {
		return nil
	}
	sibling := c.fields[1-which].Committed()
	d, changed, err := c.fields[which].Commit(sibling)
	if err != nil || !changed {
		return err
	}

	r := c.rng
	anchor := window.AnchorStart
	if which == field.End {
		r.End = d
		anchor = window.AnchorEnd
	} else {
		r.Start = d
	}
	c.apply(r, c.fields[which])
	if !d.IsZero() {
		c.window.Recenter(d.MonthOf(), anchor)
	}
	return nil
}

// PointerDown starts a drag on a day cell.
func (c *Coordinator) PointerDown(d calendar.Date) bool {
	if !c.IsOpen() {
		return false
	}
	return c.drag.Press(d)
}

// PointerEnter extends an active drag onto a day cell.
func (c *Coordinator) PointerEnter(d calendar.Date) {
	if !c.IsOpen() {
		return
	}
	c.drag.Enter(d)
}

// PointerMove reports the raw pointer position for bounds-exit detection.
func (c *Coordinator) PointerMove(x, y int) {
	if !c.IsOpen() {
		return
	}
	c.drag.Move(x, y)
}

// PointerUp ends the drag.
func (c *Coordinator) PointerUp() {
	if c.unmounted {
		return
	}
	c.drag.Release()
}

// SetBounds tells the drag controller where the widget is.
func (c *Coordinator) SetBounds(b drag.Bounds) {
	c.drag.SetBounds(b)
}

// Paginate pages the window by one month with animation.
func (c *Coordinator) Paginate(dir window.Direction) bool {
	if !c.IsOpen() {
		return false
	}
	return c.window.Paginate(dir)
}

// JumpToday re-centres the window on the current month without animation.
func (c *Coordinator) JumpToday() {
	if c.unmounted {
		return
	}
	c.window.Recenter(c.today().MonthOf(), window.AnchorCenter)
}

// Reconfigure applies changed props. The selection is left untouched.
func (c *Coordinator) Reconfigure(cfg config.Config) {
	if c.unmounted {
		return
	}
	cfg.DefaultRange = c.cfg.DefaultRange
	embedding := cfg.Display == config.DisplayEmbedded && c.cfg.Display != config.DisplayEmbedded
	c.cfg = cfg
	if embedding && !c.open {
		c.open = true
		if c.opts.Registry != nil {
			c.opts.Registry.Activate(c.id)
		}
	}
	c.drag.SetMode(cfg.Mode)
	c.window.Resize(cfg.Months)
	c.logger.Debug("props reconfigured", "mode", cfg.Mode, "months", cfg.Months)
}

// Open shows a popup picker, closing any other open instance.
func (c *Coordinator) Open() {
	if c.unmounted || c.open {
		return
	}
	c.open = true
	if c.opts.Registry != nil {
		c.opts.Registry.Activate(c.id)
	}
}

// Close hides the picker, cancelling the drag, animation and indicator
// timers. Embedded pickers stay open.
func (c *Coordinator) Close() {
	if c.unmounted || c.cfg.Display == config.DisplayEmbedded {
		return
	}
	if c.opts.Registry != nil {
		c.opts.Registry.Deactivate(c.id)
	}
	c.hide()
}

// Unmount tears everything down. The coordinator is inert afterwards.
func (c *Coordinator) Unmount() {
	if c.unmounted {
		return
	}
	c.drag.Close()
	c.window.Close()
	for _, f := range c.fields {
		f.Close()
	}
	if c.opts.Registry != nil {
		c.opts.Registry.Unregister(c.id)
	}
	c.open = false
	c.unmounted = true
	c.logger.Debug("picker unmounted")
}

// ProposeRange implements drag.Sink.
func (c *Coordinator) ProposeRange(r calendar.Range) {
	c.apply(r, nil)
}

// AutoAdvance implements drag.Sink.
func (c *Coordinator) AutoAdvance() {
	if !c.window.Paginate(window.Next) {
		c.logger.Debug("auto-advance skipped, window animating")
	}
}

// apply is the one place the range is written. A text commit passes the
// committed field; its sibling keeps its own state, error included.
func (c *Coordinator) apply(r calendar.Range, committed *field.Editor) {
	if c.unmounted || r == c.rng {
		return
	}
	c.rng = r
	if committed != nil {
		committed.Sync(c.valueOf(committed.Which()))
	} else {
		c.syncFields()
	}
	if c.opts.OnChange != nil {
		c.opts.OnChange(r)
	}
}

func (c *Coordinator) syncFields() {
	c.fields[field.Start].Sync(c.rng.Start)
	c.fields[field.End].Sync(c.rng.End)
}

func (c *Coordinator) valueOf(which field.Which) calendar.Date {
	if which == field.End {
		return c.rng.End
	}
	return c.rng.Start
}

func (c *Coordinator) deactivated() {
	c.hide()
}

func (c *Coordinator) hide() {
	if !c.open {
		return
	}
	c.drag.Cancel()
	c.window.Close()
	for _, f := range c.fields {
		f.Dismiss()
	}
	c.open = false
	if c.opts.OnClose != nil {
		c.opts.OnClose()
	}
}

func (c *Coordinator) today() calendar.Date {
	return calendar.DateOf(c.clock.Now())
}
