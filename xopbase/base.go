package xopbase

import (
	"github.com/xoplog/xopbunyan-go/xopnum"
)

// SpanID is assigned by the host.  Zero means "no span": events
// that happen outside of any span use it as their current span.
type SpanID uint64

func (id SpanID) IsZero() bool { return id == 0 }

// Metadata describes where a span or event comes from.  Target, File,
// and Line are optional: zero values mean the host didn't say.
type Metadata struct {
	Name   string
	Level  xopnum.Level
	Target string
	File   string
	Line   int
}

// Layer is the bottom half of a tracer -- the part that turns span
// lifecycle callbacks and events into output.  There can be many Layer
// implementations.
//
// The host guarantees that callbacks for a single span (OnNewSpan,
// OnRecord, OnEnter, OnExit, OnClose) are not made concurrently with
// each other.  Callbacks for different spans, and OnEvent calls, can
// happen at any time from any goroutine.  A Layer must never panic into
// the host.
type Layer interface {
	// ID must be unique per Layer instance
	ID() string

	// OnNewSpan is called once per span.  The parent may be zero or may
	// name a span that has already closed.
	OnNewSpan(id SpanID, parent SpanID, meta Metadata, fields []Field)

	// OnRecord adds to, or overwrites, the fields of a span.
	OnRecord(id SpanID, fields []Field)

	// OnEnter and OnExit bracket the intervals during which the span is
	// the active context.  A span may be entered and exited many times.
	OnEnter(id SpanID)
	OnExit(id SpanID)

	// OnClose is the last callback for a span.
	OnClose(id SpanID)

	// OnEvent is a single log statement.  Current is the innermost
	// span that is active, or zero.
	OnEvent(current SpanID, meta Metadata, msg string, fields []Field)
}
