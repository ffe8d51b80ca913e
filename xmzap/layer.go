/*
Package xmzap connects zap and xopbase.Layer in both directions.

Layer wraps a zap logger so that it functions as a xopbase.Layer: spans
and events become zap log entries.

NewCore is a zapcore.Core that sends zap log entries to a xopbase.Layer
as events, so libraries that log with zap can feed a Bunyan layer.
*/
package xmzap

import (
	"strconv"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLayer struct {
	id        string
	zapLogger *zap.Logger
}

var _ xopbase.Layer = &zapLayer{}

// Layer wraps a zap logger so that it can function as a xopbase.Layer.
// Note that the levels don't match exactly: Trace becomes Debug and
// Alert becomes Error.
func Layer(zapLogger *zap.Logger) xopbase.Layer {
	return &zapLayer{
		id:        "xmzap-" + uuid.New().String(),
		zapLogger: zapLogger,
	}
}

func (z *zapLayer) ID() string { return z.id }

func (z *zapLayer) log(level xopnum.Level, msg string, fields []zap.Field) {
	if ce := z.zapLogger.Check(ZapLevel(level), msg); ce != nil {
		ce.Write(fields...)
	}
}

func spanRef(key string, id xopbase.SpanID) zap.Field {
	return zap.String(key, "span-"+strconv.FormatUint(uint64(id), 10))
}

func (z *zapLayer) OnNewSpan(id xopbase.SpanID, parent xopbase.SpanID, meta xopbase.Metadata, fields []xopbase.Field) {
	zf := make([]zap.Field, 0, len(fields)+3)
	zf = append(zf,
		zap.String("xop.type", "span"),
		spanRef("xop.span", id),
	)
	if !parent.IsZero() {
		zf = append(zf, spanRef("xop.parent_span", parent))
	}
	z.log(meta.Level, meta.Name, append(zf, Fields(fields)...))
}

func (z *zapLayer) OnRecord(id xopbase.SpanID, fields []xopbase.Field) {
	z.log(xopnum.DebugLevel, "span data", append([]zap.Field{
		zap.String("xop.type", "record"),
		spanRef("xop.span", id),
	}, Fields(fields)...))
}

func (z *zapLayer) OnEnter(xopbase.SpanID) {}
func (z *zapLayer) OnExit(xopbase.SpanID)  {}

func (z *zapLayer) OnClose(id xopbase.SpanID) {
	z.log(xopnum.DebugLevel, "span done", []zap.Field{
		zap.String("xop.type", "done"),
		spanRef("xop.span", id),
	})
}

func (z *zapLayer) OnEvent(current xopbase.SpanID, meta xopbase.Metadata, msg string, fields []xopbase.Field) {
	zf := make([]zap.Field, 0, len(fields)+1)
	if !current.IsZero() {
		zf = append(zf, spanRef("xop.span", current))
	}
	z.log(meta.Level, msg, append(zf, Fields(fields)...))
}

// Fields converts xopbase fields to zap fields
func Fields(fields []xopbase.Field) []zap.Field {
	zf := make([]zap.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case xopbase.IntDataType:
			zf[i] = zap.Int64(f.Key, f.Int)
		case xopbase.UintDataType:
			zf[i] = zap.Uint64(f.Key, f.Uint)
		case xopbase.FloatDataType:
			zf[i] = zap.Float64(f.Key, f.Float)
		case xopbase.BoolDataType:
			zf[i] = zap.Bool(f.Key, f.BoolValue())
		case xopbase.StringDataType, xopbase.ErrorDataType:
			zf[i] = zap.String(f.Key, f.String)
		case xopbase.TimeDataType:
			zf[i] = zap.Time(f.Key, f.TimeValue())
		case xopbase.DurationDataType:
			zf[i] = zap.Duration(f.Key, f.DurationValue())
		case xopbase.NullDataType:
			zf[i] = zap.Reflect(f.Key, nil)
		default:
			zf[i] = zap.Any(f.Key, f.Any)
		}
	}
	return zf
}

// ZapLevel converts a level to the closest zap level
func ZapLevel(level xopnum.Level) zapcore.Level {
	switch {
	case level < xopnum.InfoLevel:
		return zapcore.DebugLevel
	case level < xopnum.WarnLevel:
		return zapcore.InfoLevel
	case level < xopnum.ErrorLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Level converts a zap level.  DPanic, Panic, and Fatal become Alert.
func Level(level zapcore.Level) xopnum.Level {
	switch {
	case level < zapcore.InfoLevel:
		return xopnum.DebugLevel
	case level == zapcore.InfoLevel:
		return xopnum.InfoLevel
	case level == zapcore.WarnLevel:
		return xopnum.WarnLevel
	case level == zapcore.ErrorLevel:
		return xopnum.ErrorLevel
	default:
		return xopnum.AlertLevel
	}
}
