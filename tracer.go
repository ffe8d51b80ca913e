/*
Package xop is a small host for xopbase.Layer: it hands out span ids,
keeps the current span in a context.Context, and turns log statements
into OnEvent calls.

	tracer := xop.NewTracer(bunyanLayer)
	ctx, span := tracer.Start(ctx, xopnum.InfoLevel, "request", xopbase.Str("service", "api"))
	defer span.Close()
	span.InScope(func() {
		span.Info().Str("path", r.URL.Path).Msg("handling")
	})
*/
package xop

import (
	"context"
	"sync/atomic"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"
)

type Tracer struct {
	layer    xopbase.Layer
	nextID   *atomic.Uint64
	minLevel xopnum.Level
}

type TracerOption func(*Tracer)

// WithMinLevel drops spans and events below level.  Events in a
// dropped span are attributed to the nearest enclosing span that
// was kept.
func WithMinLevel(level xopnum.Level) TracerOption {
	return func(t *Tracer) {
		t.minLevel = level
	}
}

func NewTracer(layer xopbase.Layer, opts ...TracerOption) *Tracer {
	if layer == nil {
		layer = xopbase.Discard
	}
	t := &Tracer{
		layer:  layer,
		nextID: new(atomic.Uint64),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Default discards everything.  It is used when a context has no span.
var Default = NewTracer(xopbase.Discard)

// MinLevel returns a Tracer that shares the layer and span ids of t
// but has a different minimum level.
func (t *Tracer) MinLevel(level xopnum.Level) *Tracer {
	n := *t
	n.minLevel = level
	return &n
}

func (t *Tracer) Layer() xopbase.Layer { return t.layer }

func (t *Tracer) Enabled(level xopnum.Level) bool { return level >= t.minLevel }

// Start creates a span that is a child of the span in ctx, if any.
// The returned context carries the new span.  A span below the
// minimum level is returned disabled and ctx is returned unchanged.
func (t *Tracer) Start(ctx context.Context, level xopnum.Level, name string, fields ...xopbase.Field) (context.Context, *Span) {
	return t.start(ctx, level, name, fields, 3)
}

func (t *Tracer) start(ctx context.Context, level xopnum.Level, name string, fields []xopbase.Field, skip int) (context.Context, *Span) {
	parent := SpanFromContext(ctx)
	if !t.Enabled(level) {
		return ctx, &Span{tracer: t, parent: parent, disabled: true}
	}
	s := &Span{
		tracer: t,
		id:     xopbase.SpanID(t.nextID.Add(1)),
		parent: parent,
	}
	s.meta = callerMetadata(skip)
	s.meta.Name = name
	s.meta.Level = level
	var parentID xopbase.SpanID
	if p := parent.current(); p != nil && p.tracer.nextID == t.nextID {
		parentID = p.id
	}
	t.layer.OnNewSpan(s.id, parentID, s.meta, fields)
	return ContextWithSpan(ctx, s), s
}

// Line starts an event in the current span of ctx
func (t *Tracer) Line(ctx context.Context, level xopnum.Level) *Line {
	return t.line(SpanFromContext(ctx), level, 3)
}

func (t *Tracer) Trace(ctx context.Context) *Line { return t.line(SpanFromContext(ctx), xopnum.TraceLevel, 3) }
func (t *Tracer) Debug(ctx context.Context) *Line { return t.line(SpanFromContext(ctx), xopnum.DebugLevel, 3) }
func (t *Tracer) Info(ctx context.Context) *Line  { return t.line(SpanFromContext(ctx), xopnum.InfoLevel, 3) }
func (t *Tracer) Warn(ctx context.Context) *Line  { return t.line(SpanFromContext(ctx), xopnum.WarnLevel, 3) }
func (t *Tracer) Error(ctx context.Context) *Line { return t.line(SpanFromContext(ctx), xopnum.ErrorLevel, 3) }
func (t *Tracer) Alert(ctx context.Context) *Line { return t.line(SpanFromContext(ctx), xopnum.AlertLevel, 3) }
