package xop

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"
)

// Span is a unit of work.  The layer callbacks for one span are
// serialized so a Span may be used from several goroutines.
type Span struct {
	tracer   *Tracer
	id       xopbase.SpanID
	parent   *Span
	meta     xopbase.Metadata
	mu       sync.Mutex
	closed   atomic.Bool
	disabled bool
}

// ID is zero for disabled spans
func (s *Span) ID() xopbase.SpanID { return s.id }

func (s *Span) Name() string { return s.meta.Name }

// Enabled is false for spans that were below the minimum level
func (s *Span) Enabled() bool { return s != nil && !s.disabled }

func (s *Span) call(f func(layer xopbase.Layer, id xopbase.SpanID)) {
	if s == nil || s.disabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	f(s.tracer.layer, s.id)
}

// Enter marks the span as the active context until Exit
func (s *Span) Enter() {
	s.call(xopbase.Layer.OnEnter)
}

func (s *Span) Exit() {
	s.call(xopbase.Layer.OnExit)
}

// Record adds fields to the span.  Later values replace earlier ones
// with the same key.
func (s *Span) Record(fields ...xopbase.Field) {
	s.call(func(layer xopbase.Layer, id xopbase.SpanID) {
		layer.OnRecord(id, fields)
	})
}

// Close ends the span.  Calling Close more than once is fine.
func (s *Span) Close() {
	if s == nil || s.disabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return
	}
	s.tracer.layer.OnClose(s.id)
}

// InScope runs f with the span entered
func (s *Span) InScope(f func()) {
	s.Enter()
	defer s.Exit()
	f()
}

// Context returns ctx with s as its current span
func (s *Span) Context(ctx context.Context) context.Context {
	return ContextWithSpan(ctx, s)
}

// current is the nearest span, starting with s, that is enabled and
// not closed.
func (s *Span) current() *Span {
	for ; s != nil; s = s.parent {
		if !s.disabled && !s.closed.Load() {
			return s
		}
	}
	return nil
}

// Span starts a child span
func (s *Span) Span(level xopnum.Level, name string, fields ...xopbase.Field) *Span {
	_, child := s.getTracer().start(ContextWithSpan(context.Background(), s), level, name, fields, 3)
	return child
}

func (s *Span) getTracer() *Tracer {
	if s == nil {
		return Default
	}
	return s.tracer
}

func (s *Span) Line(level xopnum.Level) *Line { return s.getTracer().line(s, level, 3) }
func (s *Span) Trace() *Line                  { return s.getTracer().line(s, xopnum.TraceLevel, 3) }
func (s *Span) Debug() *Line                  { return s.getTracer().line(s, xopnum.DebugLevel, 3) }
func (s *Span) Info() *Line                   { return s.getTracer().line(s, xopnum.InfoLevel, 3) }
func (s *Span) Warn() *Line                   { return s.getTracer().line(s, xopnum.WarnLevel, 3) }
func (s *Span) Error() *Line                  { return s.getTracer().line(s, xopnum.ErrorLevel, 3) }
func (s *Span) Alert() *Line                  { return s.getTracer().line(s, xopnum.AlertLevel, 3) }
