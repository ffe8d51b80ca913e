package xoptiming_test

import (
	"testing"
	"time"

	"github.com/xoplog/xopbunyan-go/xoptiming"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func TestBusyTimeExcludesIdle(t *testing.T) {
	tr := xoptiming.New(t0)
	assert.True(t, tr.Enter(at(0)))
	assert.True(t, tr.Exit(at(10*time.Millisecond)))
	// idle for 50ms
	assert.True(t, tr.Enter(at(60*time.Millisecond)))
	assert.True(t, tr.Exit(at(65*time.Millisecond)))
	s := tr.Close(at(65 * time.Millisecond))
	assert.Equal(t, 15*time.Millisecond, s.Busy)
	assert.Equal(t, 50*time.Millisecond, s.Idle)
	assert.Equal(t, 65*time.Millisecond, s.Lifetime)
	assert.InDelta(t, 15.0, xoptiming.Milliseconds(s.Busy), 0.0001)
}

func TestCloseWhileActive(t *testing.T) {
	tr := xoptiming.New(t0)
	tr.Enter(at(time.Millisecond))
	assert.Equal(t, xoptiming.Active, tr.State())
	s := tr.Close(at(4 * time.Millisecond))
	assert.Equal(t, 3*time.Millisecond, s.Busy)
	assert.Equal(t, xoptiming.Idle, tr.State())
	assert.Equal(t, s, tr.Close(at(time.Hour)), "close is idempotent")
	assert.False(t, tr.Enter(at(time.Hour)), "closed tracker ignores enter")
	assert.False(t, tr.Exit(at(time.Hour)), "closed tracker ignores exit")
}

func TestProtocolViolationsDoNotDoubleCount(t *testing.T) {
	tr := xoptiming.New(t0)
	assert.False(t, tr.Exit(at(0)), "exit before enter")
	assert.True(t, tr.Enter(at(0)))
	assert.False(t, tr.Enter(at(5*time.Millisecond)), "double enter ignored")
	assert.True(t, tr.Exit(at(10*time.Millisecond)))
	assert.False(t, tr.Exit(at(20*time.Millisecond)), "double exit ignored")
	assert.Equal(t, 10*time.Millisecond, tr.Busy())
}

func TestBackwardsClock(t *testing.T) {
	tr := xoptiming.New(t0)
	tr.Enter(at(10 * time.Millisecond))
	tr.Exit(at(5 * time.Millisecond))
	s := tr.Close(at(0))
	assert.Equal(t, time.Duration(0), s.Busy)
	assert.Equal(t, time.Duration(0), s.Idle)
}

func TestSubMillisecondPrecision(t *testing.T) {
	assert.Equal(t, 0.25, xoptiming.Milliseconds(250*time.Microsecond))
	assert.Equal(t, 1.000001, xoptiming.Milliseconds(time.Millisecond+time.Nanosecond))
	assert.Equal(t, "active", xoptiming.Active.String())
	assert.Equal(t, "idle", xoptiming.Idle.String())
}
