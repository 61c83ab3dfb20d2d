// Package window owns the rolling window of visible months and the slide
// animation played when it pages forward or back.
package window

import (
	"log/slog"
	"time"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
)

const (
	// SlideDuration is the total time from a pagination request until the
	// window settles on its new months.
	SlideDuration = 300 * time.Millisecond
	// FrameInterval defers the transition by one frame so the snapped
	// starting offset is drawn before the slide begins.
	FrameInterval = 16 * time.Millisecond

	DefaultSize = 3
	MaxSize     = 12
)

// Direction of a pagination.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Step is the month delta for d.
func (d Direction) Step() int {
	if d == Prev {
		return -1
	}
	return 1
}

// Anchor selects where Recenter places its month.
type Anchor int

const (
	// AnchorStart puts the month in the first slot.
	AnchorStart Anchor = iota
	// AnchorEnd puts the month in the centre slot.
	AnchorEnd
	// AnchorCenter is AnchorEnd under another name, used for "today".
	AnchorCenter
)

// Phase of the slide animation.
type Phase int

const (
	PhaseNone Phase = iota
	// PhasePrepare: content snapped to the reveal offset, no transition.
	PhasePrepare
	// PhaseSlide: timed transition from the reveal offset back to zero.
	PhaseSlide
)

// Frame describes what the renderer should draw right now.
type Frame struct {
	Phase     Phase
	Direction Direction
	// Offset is how far, in month slots, the content is displaced from its
	// resting position. It is 1 during PhasePrepare and falls to 0 over
	// PhaseSlide.
	Offset float64
}

// Animating reports whether a pagination is in flight.
func (f Frame) Animating() bool {
	return f.Phase != PhaseNone
}

// Manager is the single writer of the month window.
type Manager struct {
	clock    clock.Clock
	logger   *slog.Logger
	onSettle func([]calendar.Month)

	months []calendar.Month
	frame  Frame
	target calendar.Month

	slideStart time.Time
	frameTimer clock.Timer
	doneTimer  clock.Timer
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// OnSettle registers a callback run after every completed pagination.
func OnSettle(fn func([]calendar.Month)) Option {
	return func(m *Manager) {
		m.onSettle = fn
	}
}

// New creates a settled window of size months centred on center.
func New(clk clock.Clock, size int, center calendar.Month, opts ...Option) *Manager {
	m := &Manager{
		clock:  clk,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.months = build(clampSize(size), center, AnchorCenter)
	return m
}

// Months returns a copy of the current window.
func (m *Manager) Months() []calendar.Month {
	out := make([]calendar.Month, len(m.months))
	copy(out, m.months)
	return out
}

// Size is the number of months in the window.
func (m *Manager) Size() int { return len(m.months) }

// Center returns the month in the centre slot.
func (m *Manager) Center() calendar.Month {
	return m.months[len(m.months)/2]
}

// Incoming returns the month being revealed by the running pagination.
func (m *Manager) Incoming() (calendar.Month, bool) {
	if !m.frame.Animating() {
		return calendar.Month{}, false
	}
	if m.frame.Direction == Prev {
		return m.months[0].Prev(), true
	}
	return m.months[len(m.months)-1].Next(), true
}

// Frame reports the animation state, with the slide progress computed from
// the clock.
func (m *Manager) Frame() Frame {
	f := m.frame
	if f.Phase == PhaseSlide {
		span := SlideDuration - FrameInterval
		elapsed := m.clock.Now().Sub(m.slideStart)
		f.Offset = 1 - float64(elapsed)/float64(span)
		if f.Offset < 0 {
			f.Offset = 0
		}
		if f.Offset > 1 {
			f.Offset = 1
		}
	}
	return f
}

// Paginate starts a one-month slide in dir. It returns false, doing
// nothing, while another pagination is still animating.
func (m *Manager) Paginate(dir Direction) bool {
	if m.frame.Animating() {
		m.logger.Debug("pagination dropped", "direction", dir)
		return false
	}
	m.target = m.Center().Add(dir.Step())
	m.frame = Frame{Phase: PhasePrepare, Direction: dir, Offset: 1}
	m.frameTimer = m.clock.AfterFunc(FrameInterval, m.beginSlide)
	m.doneTimer = m.clock.AfterFunc(SlideDuration, m.settle)
	m.logger.Debug("pagination started", "direction", dir, "target", m.target)
	return true
}

// Recenter replaces the window immediately, cancelling any animation.
func (m *Manager) Recenter(month calendar.Month, anchor Anchor) {
	m.stopTimers()
	m.frame = Frame{}
	m.months = build(len(m.months), month, anchor)
}

// Resize changes the window length, keeping the centre month.
func (m *Manager) Resize(size int) {
	size = clampSize(size)
	if size == len(m.months) {
		return
	}
	center := m.Center()
	m.stopTimers()
	m.frame = Frame{}
	m.months = build(size, center, AnchorCenter)
}

// Close cancels pending animation timers.
func (m *Manager) Close() {
	m.stopTimers()
	m.frame = Frame{}
}

func (m *Manager) beginSlide() {
	m.frameTimer = nil
	m.slideStart = m.clock.Now()
	m.frame.Phase = PhaseSlide
}

func (m *Manager) settle() {
	m.doneTimer = nil
	if m.frameTimer != nil {
		m.frameTimer.Stop()
		m.frameTimer = nil
	}
	m.months = build(len(m.months), m.target, AnchorCenter)
	m.frame = Frame{}
	m.logger.Debug("window settled", "center", m.target)
	if m.onSettle != nil {
		m.onSettle(m.Months())
	}
}

func (m *Manager) stopTimers() {
	for _, t := range []clock.Timer{m.frameTimer, m.doneTimer} {
		if t != nil {
			t.Stop()
		}
	}
	m.frameTimer, m.doneTimer = nil, nil
}

func build(size int, month calendar.Month, anchor Anchor) []calendar.Month {
	first := month
	if anchor != AnchorStart {
		first = month.Add(-(size / 2))
	}
	months := make([]calendar.Month, size)
	for i := range months {
		months[i] = first.Add(i)
	}
	return months
}

func clampSize(n int) int {
	switch {
	case n < 1:
		return DefaultSize
	case n > MaxSize:
		return MaxSize
	default:
		return n
	}
}

// Consecutive reports whether months are strictly consecutive.
func Consecutive(months []calendar.Month) bool {
	for i := 1; i < len(months); i++ {
		if months[i] != months[i-1].Next() {
			return false
		}
	}
	return true
}
