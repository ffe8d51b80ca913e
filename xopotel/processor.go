package xopotel

import (
	"context"
	"encoding/binary"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Level is the attribute that, when set on a span or span event,
// chooses its level.  The value is a level name like "warn".
const Level attribute.Key = "xop.level"

type SpanProcessor struct {
	layer xopbase.Layer
	level xopnum.Level
}

var _ sdktrace.SpanProcessor = &SpanProcessor{}

type Option func(*SpanProcessor)

// WithDefaultLevel sets the level of spans and events that do not
// have a Level attribute.  The default is Info.
func WithDefaultLevel(level xopnum.Level) Option {
	return func(p *SpanProcessor) {
		p.level = level
	}
}

func NewSpanProcessor(layer xopbase.Layer, opts ...Option) *SpanProcessor {
	p := &SpanProcessor{
		layer: layer,
		level: xopnum.InfoLevel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SpanID converts an Open Telemetry span id. Invalid ids become 0.
func SpanID(id oteltrace.SpanID) xopbase.SpanID {
	if !id.IsValid() {
		return 0
	}
	return xopbase.SpanID(binary.BigEndian.Uint64(id[:]))
}

func (p *SpanProcessor) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	id := SpanID(s.SpanContext().SpanID())
	var parent xopbase.SpanID
	// remote parents were never sent to the layer
	if s.Parent().IsValid() && !s.Parent().IsRemote() {
		parent = SpanID(s.Parent().SpanID())
	}
	attrs := s.Attributes()
	meta := xopbase.Metadata{
		Name:   s.Name(),
		Level:  p.levelOf(attrs),
		Target: s.InstrumentationScope().Name,
	}
	p.layer.OnNewSpan(id, parent, meta, Fields(attrs))
	p.layer.OnEnter(id)
}

func (p *SpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	id := SpanID(s.SpanContext().SpanID())
	var end []xopbase.Field
	if attrs := s.Attributes(); len(attrs) != 0 {
		end = Fields(attrs)
	}
	if status := s.Status(); status.Code != codes.Unset {
		end = append(end, xopbase.Str("otel.status_code", status.Code.String()))
		if status.Description != "" {
			end = append(end, xopbase.Str("otel.status_description", status.Description))
		}
	}
	if n := s.DroppedAttributes(); n > 0 {
		end = append(end, xopbase.Int("otel.dropped_attributes_count", n))
	}
	if len(end) != 0 {
		p.layer.OnRecord(id, end)
	}
	target := s.InstrumentationScope().Name
	for _, event := range s.Events() {
		level := p.levelOf(event.Attributes)
		if event.Name == "exception" && !hasLevel(event.Attributes) {
			level = xopnum.ErrorLevel
		}
		p.layer.OnEvent(id, xopbase.Metadata{
			Level:  level,
			Target: target,
		}, event.Name, Fields(event.Attributes))
	}
	p.layer.OnExit(id)
	p.layer.OnClose(id)
}

func (p *SpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *SpanProcessor) ForceFlush(context.Context) error { return nil }

func hasLevel(attrs []attribute.KeyValue) bool {
	for _, a := range attrs {
		if a.Key == Level {
			return true
		}
	}
	return false
}

func (p *SpanProcessor) levelOf(attrs []attribute.KeyValue) xopnum.Level {
	for _, a := range attrs {
		if a.Key == Level && a.Value.Type() == attribute.STRING {
			if level, err := xopnum.LevelString(a.Value.AsString()); err == nil {
				return level
			}
		}
	}
	return p.level
}

// Fields converts attributes.  The Level attribute is left out.
func Fields(attrs []attribute.KeyValue) []xopbase.Field {
	fields := make([]xopbase.Field, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == Level {
			continue
		}
		k := string(a.Key)
		switch a.Value.Type() {
		case attribute.BOOL:
			fields = append(fields, xopbase.Bool(k, a.Value.AsBool()))
		case attribute.INT64:
			fields = append(fields, xopbase.Int64(k, a.Value.AsInt64()))
		case attribute.FLOAT64:
			fields = append(fields, xopbase.Float64(k, a.Value.AsFloat64()))
		case attribute.STRING:
			fields = append(fields, xopbase.Str(k, a.Value.AsString()))
		default:
			fields = append(fields, xopbase.Any(k, a.Value.AsInterface()))
		}
	}
	return fields
}
