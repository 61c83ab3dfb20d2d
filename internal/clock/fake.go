package clock

import (
	"time"
)

// Fake is a virtual clock. Time only moves through Advance, which fires
// due callbacks synchronously and in deadline order.
type Fake struct {
	now    time.Time
	seq    int
	timers []*fakeTimer
}

// NewFake returns a Fake starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now implements Clock.
func (f *Fake) Now() time.Time { return f.now }

// AfterFunc implements Clock.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return f.add(d, 0, fn)
}

// Every implements Clock.
func (f *Fake) Every(d time.Duration, fn func()) Timer {
	return f.add(d, d, fn)
}

// Pending reports how many timers are still armed.
func (f *Fake) Pending() int {
	n := 0
	for _, t := range f.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing every callback that falls due.
// Callbacks may schedule or stop other timers.
func (f *Fake) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		next := f.nextDue(target)
		if next == nil {
			break
		}
		f.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		next.fn()
	}
	f.now = target
	f.compact()
}

func (f *Fake) add(d, period time.Duration, fn func()) *fakeTimer {
	f.seq++
	t := &fakeTimer{at: f.now.Add(d), period: period, fn: fn, seq: f.seq}
	f.timers = append(f.timers, t)
	return t
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var best *fakeTimer
	for _, t := range f.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (f *Fake) compact() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live
}

type fakeTimer struct {
	at      time.Time
	period  time.Duration
	fn      func()
	seq     int
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
