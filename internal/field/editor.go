// Package field implements the text-entry side of the picker: one Editor per
// date field buffers raw keystrokes, validates on commit and shows transient
// success/error indicators.
package field

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
	"github.com/lululau/rangecal/internal/datetext"
)

// IndicatorDuration is how long a success or error indicator stays visible.
const IndicatorDuration = 1500 * time.Millisecond

// ErrRangeOrder indicates a start after the committed end, or an end before
// the committed start.
var ErrRangeOrder = errors.New("start date must not be after end date")

// Which identifies the field.
type Which int

const (
	Start Which = iota
	End
)

func (w Which) String() string {
	if w == End {
		return "end"
	}
	return "start"
}

// State is the editor's lifecycle state.
type State int

const (
	Idle State = iota
	Editing
	ShowingError
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case ShowingError:
		return "error"
	default:
		return "idle"
	}
}

// IndicatorKind tells the view which transient badge to draw.
type IndicatorKind int

const (
	IndicatorNone IndicatorKind = iota
	IndicatorSuccess
	IndicatorError
)

// Indicator is the transient feedback shown next to a field.
type Indicator struct {
	Kind    IndicatorKind
	Message string
}

// Editor is the per-field text controller.
type Editor struct {
	which  Which
	clock  clock.Clock
	logger *slog.Logger

	state         State
	raw           string
	committedText string
	committed     calendar.Date
	err           error
	indicator     Indicator
	timer         clock.Timer
}

// New creates an idle, empty editor.
func New(which Which, clk clock.Clock, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		which:  which,
		clock:  clk,
		logger: logger.With("field", which.String()),
	}
}

// Which returns the field identity.
func (e *Editor) Which() Which { return e.which }

// State returns the lifecycle state.
func (e *Editor) State() State { return e.state }

// Text returns what the field currently displays.
func (e *Editor) Text() string { return e.raw }

// Committed returns the last successfully committed date.
func (e *Editor) Committed() calendar.Date { return e.committed }

// Err returns the unresolved validation error, if any.
func (e *Editor) Err() error { return e.err }

// Indicator returns the transient badge to render.
func (e *Editor) Indicator() Indicator { return e.indicator }

// Type replaces the buffered text. Any visible error is dismissed without
// re-validating.
func (e *Editor) Type(text string) {
	e.stopTimer()
	e.err = nil
	e.indicator = Indicator{}
	e.state = Editing
	e.raw = text
}

// Commit validates the buffered text against the sibling field's committed
// value. changed is false when there was nothing to commit.
func (e *Editor) Commit(sibling calendar.Date) (d calendar.Date, changed bool, err error) {
	if e.state != Editing {
		return e.committed, false, nil
	}
	if e.raw == e.committedText {
		e.state = Idle
		return e.committed, false, nil
	}

	d, err = datetext.Parse(e.raw)
	if err == nil {
		err = e.checkOrder(d, sibling)
	}
	if err != nil {
		e.fail(err)
		return e.committed, false, err
	}

	e.committed = d
	e.committedText = datetext.Format(d)
	e.raw = e.committedText
	e.state = Idle
	e.show(Indicator{Kind: IndicatorSuccess, Message: "saved"}, e.clearIndicator)
	e.logger.Debug("field committed", "date", d)
	return d, true, nil
}

// Sync mirrors a value written by a non-text source. It is ignored while
// the user is editing.
func (e *Editor) Sync(d calendar.Date) {
	if e.state == Editing {
		return
	}
	if e.state == ShowingError {
		e.stopTimer()
		e.err = nil
		e.indicator = Indicator{}
	}
	e.state = Idle
	e.committed = d
	e.committedText = datetext.Format(d)
	e.raw = e.committedText
}

// Reset returns the editor to an empty idle field.
func (e *Editor) Reset() {
	e.stopTimer()
	*e = Editor{which: e.which, clock: e.clock, logger: e.logger}
}

// Dismiss drops any transient state (unsaved text, error, indicator) and
// returns to the committed value.
func (e *Editor) Dismiss() {
	e.stopTimer()
	e.err = nil
	e.indicator = Indicator{}
	e.state = Idle
	e.raw = e.committedText
}

// Close cancels pending indicator timers.
func (e *Editor) Close() {
	e.stopTimer()
}

func (e *Editor) checkOrder(d, sibling calendar.Date) error {
	if d.IsZero() || sibling.IsZero() {
		return nil
	}
	switch {
	case e.which == Start && d.After(sibling):
		return fmt.Errorf("%w: %s is after %s", ErrRangeOrder, datetext.Format(d), datetext.Format(sibling))
	case e.which == End && d.Before(sibling):
		return fmt.Errorf("%w: %s is before %s", ErrRangeOrder, datetext.Format(d), datetext.Format(sibling))
	}
	return nil
}

func (e *Editor) fail(err error) {
	e.err = err
	e.state = ShowingError
	e.logger.Debug("field rejected input", "text", e.raw, "error", err)
	e.show(Indicator{Kind: IndicatorError, Message: Message(err)}, e.expireError)
}

func (e *Editor) expireError() {
	e.timer = nil
	e.err = nil
	e.indicator = Indicator{}
	e.state = Idle
	e.raw = e.committedText
}

func (e *Editor) clearIndicator() {
	e.timer = nil
	e.indicator = Indicator{}
}

func (e *Editor) show(ind Indicator, expire func()) {
	e.stopTimer()
	e.indicator = ind
	if e.clock != nil {
		e.timer = e.clock.AfterFunc(IndicatorDuration, expire)
	}
}

func (e *Editor) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Message maps a validation error onto the short text shown in the field's
// error badge.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, datetext.ErrFormat):
		return "use the format " + datetext.Layout
	case errors.Is(err, datetext.ErrInvalidDate):
		return "invalid date"
	case errors.Is(err, ErrRangeOrder):
		return "start must be on or before end"
	default:
		return err.Error()
	}
}
