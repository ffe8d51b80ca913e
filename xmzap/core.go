package xmzap

import (
	"sort"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const spanKey = "xop.current_span"

// InSpan marks log entries as belonging to a span.  Use it with
// zap.Logger.With on a logger built from NewCore.
func InSpan(id xopbase.SpanID) zap.Field {
	return zap.Uint64(spanKey, uint64(id))
}

type core struct {
	zapcore.LevelEnabler
	layer   xopbase.Layer
	current xopbase.SpanID
	fields  []xopbase.Field
}

var _ zapcore.Core = &core{}

// NewCore creates a zapcore.Core that sends entries to layer as
// events.
func NewCore(layer xopbase.Layer, enab zapcore.LevelEnabler) zapcore.Core {
	return &core{
		LevelEnabler: enab,
		layer:        layer,
	}
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	n := &core{
		LevelEnabler: c.LevelEnabler,
		layer:        c.layer,
		current:      c.current,
		fields:       make([]xopbase.Field, len(c.fields), len(c.fields)+len(fields)),
	}
	copy(n.fields, c.fields)
	for _, f := range fields {
		if f.Key == spanKey && f.Type == zapcore.Uint64Type {
			n.current = xopbase.SpanID(f.Integer)
			continue
		}
		n.fields = append(n.fields, convert(f)...)
	}
	return n
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	current := c.current
	all := make([]xopbase.Field, len(c.fields), len(c.fields)+len(fields))
	copy(all, c.fields)
	for _, f := range fields {
		if f.Key == spanKey && f.Type == zapcore.Uint64Type {
			current = xopbase.SpanID(f.Integer)
			continue
		}
		all = append(all, convert(f)...)
	}
	meta := xopbase.Metadata{
		Level:  Level(ent.Level),
		Target: ent.LoggerName,
	}
	if ent.Caller.Defined {
		meta.File = ent.Caller.File
		meta.Line = ent.Caller.Line
	}
	c.layer.OnEvent(current, meta, ent.Message, all)
	return nil
}

func (c *core) Sync() error { return nil }

// convert uses zap's own encoding of the field so that every zap
// field type is handled.  Some fields (errors) produce more than
// one key.
func convert(f zapcore.Field) []xopbase.Field {
	enc := zapcore.NewMapObjectEncoder()
	f.AddTo(enc)
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]xopbase.Field, len(keys))
	for i, k := range keys {
		out[i] = fromValue(k, enc.Fields[k])
	}
	return out
}

func fromValue(k string, v interface{}) xopbase.Field {
	switch t := v.(type) {
	case nil:
		return xopbase.Null(k)
	case string:
		return xopbase.Str(k, t)
	case bool:
		return xopbase.Bool(k, t)
	case int:
		return xopbase.Int(k, t)
	case int64:
		return xopbase.Int64(k, t)
	case int32:
		return xopbase.Int64(k, int64(t))
	case int16:
		return xopbase.Int64(k, int64(t))
	case int8:
		return xopbase.Int64(k, int64(t))
	case uint64:
		return xopbase.Uint64(k, t)
	case uint:
		return xopbase.Uint64(k, uint64(t))
	case uint32:
		return xopbase.Uint64(k, uint64(t))
	case uint16:
		return xopbase.Uint64(k, uint64(t))
	case uint8:
		return xopbase.Uint64(k, uint64(t))
	case float64:
		return xopbase.Float64(k, t)
	case float32:
		return xopbase.Float64(k, float64(t))
	case time.Time:
		return xopbase.Time(k, t)
	case time.Duration:
		return xopbase.Duration(k, t)
	default:
		return xopbase.Any(k, v)
	}
}
