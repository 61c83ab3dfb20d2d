// Package clock provides cancellable timer handles. Every timer owned by the
// selection core goes through a Clock so tests can drive time explicitly and
// teardown can stop everything that is still pending.
package clock

import (
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from firing again. It reports whether the
	// timer was still active.
	Stop() bool
}

// Clock schedules callbacks. Implementations must run callbacks on the
// caller's event loop, never concurrently with other state transitions.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f after d and then every d until stopped.
	Every(d time.Duration, f func()) Timer
}

// Loop is a wall clock whose callbacks are delivered through a channel so
// the owner can run them on its own event loop.
type Loop struct {
	fired chan *loopTimer
}

// NewLoop creates a Loop with a small delivery buffer.
func NewLoop() *Loop {
	return &Loop{fired: make(chan *loopTimer, 64)}
}

// Now returns the wall time.
func (l *Loop) Now() time.Time { return time.Now() }

// AfterFunc implements Clock.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return l.start(d, 0, f)
}

// Every implements Clock.
func (l *Loop) Every(d time.Duration, f func()) Timer {
	return l.start(d, d, f)
}

// Next blocks until a timer is due and returns a function that runs its
// callback. Dispatch must happen on the owning loop.
func (l *Loop) Next() func() {
	t := <-l.fired
	return t.dispatch
}

func (l *Loop) start(d, period time.Duration, f func()) *loopTimer {
	t := &loopTimer{loop: l, period: period, f: f}
	t.arm(d)
	return t
}

type loopTimer struct {
	loop    *Loop
	period  time.Duration
	f       func()
	stopped atomic.Bool
	timer   atomic.Pointer[time.Timer]
}

func (t *loopTimer) arm(d time.Duration) {
	t.timer.Store(time.AfterFunc(d, func() {
		if !t.stopped.Load() {
			t.loop.fired <- t
		}
	}))
}

func (t *loopTimer) dispatch() {
	// A Stop may have landed between delivery and dispatch.
	if t.stopped.Load() {
		return
	}
	if t.period > 0 {
		t.arm(t.period)
	} else {
		t.stopped.Store(true)
	}
	t.f()
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	if tm := t.timer.Load(); tm != nil {
		tm.Stop()
	}
	return true
}
