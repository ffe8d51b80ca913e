// Package xoptiming accounts for the time a span is the active
// context.  A span that is entered and exited many times (for example
// around every suspension of a cooperative task) accumulates only the
// time between each enter and the matching exit.
package xoptiming

import (
	"time"
)

// State is Idle or Active
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Tracker is not safe for concurrent use.  The host serializes the
// callbacks for any one span so no locking is needed.
type Tracker struct {
	created time.Time
	start   time.Time
	state   State
	busy    time.Duration
	closed  bool

	lifetimeAtClose time.Duration
}

// Summary is the final accounting for a span
type Summary struct {
	Busy     time.Duration
	Idle     time.Duration
	Lifetime time.Duration
}

func New(created time.Time) Tracker {
	return Tracker{created: created}
}

func (t *Tracker) State() State { return t.state }

// Busy is the time accumulated so far, not counting an open interval
func (t *Tracker) Busy() time.Duration { return t.busy }

// Enter starts an interval.  It returns false, and changes nothing,
// if the tracker is already Active or closed.
func (t *Tracker) Enter(now time.Time) bool {
	if t.closed || t.state == Active {
		return false
	}
	t.state = Active
	t.start = now
	return true
}

// Exit ends the open interval and adds it to the busy total.  It
// returns false, and changes nothing, if there is no open interval.
func (t *Tracker) Exit(now time.Time) bool {
	if t.closed || t.state != Active {
		return false
	}
	t.fold(now)
	return true
}

func (t *Tracker) fold(now time.Time) {
	if d := now.Sub(t.start); d > 0 {
		t.busy += d
	}
	t.start = time.Time{}
	t.state = Idle
}

// Close folds any open interval and returns the totals.  Calling
// Close again returns the same totals.
func (t *Tracker) Close(now time.Time) Summary {
	if !t.closed {
		if t.state == Active {
			t.fold(now)
		}
		t.closed = true
		if d := now.Sub(t.created); d > 0 && !t.created.IsZero() {
			t.lifetimeAtClose = d
		}
	}
	s := Summary{
		Busy:     t.busy,
		Lifetime: t.lifetimeAtClose,
	}
	if s.Lifetime > s.Busy {
		s.Idle = s.Lifetime - s.Busy
	}
	return s
}

// Milliseconds converts a duration to fractional milliseconds
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
