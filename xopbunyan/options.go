package xopbunyan

import (
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopident"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xoputil"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// WithName sets the Bunyan "name" of every record.  It should be
// the name of the service or application.
func WithName(name string) Option {
	return func(l *Logger) {
		l.name = name
	}
}

// WithSchemaVersion overrides "v".  The Bunyan format is at version 0
// and tooling checks it, so this is rarely wanted.
func WithSchemaVersion(v int) Option {
	return func(l *Logger) {
		l.schemaVersion = v
	}
}

// WithLevelMap replaces the table that converts levels into Bunyan
// level numbers.  The default is xopnum.DefaultLevelMap.
func WithLevelMap(m xopnum.LevelMap) Option {
	return func(l *Logger) {
		if m != nil {
			l.levels = m.Copy()
		}
	}
}

// WithTimeFormatter specifies how "time" should be serialized.
// The default is time.RFC3339Nano in UTC.  Nil keeps the default.
func WithTimeFormatter(formatter TimeFormatter) Option {
	return func(l *Logger) {
		if formatter != nil {
			l.timeFormatter = formatter
		}
	}
}

// WithClock replaces time.Now.  It is used for timestamps and for
// span timing.
func WithClock(clock xoputil.Clock) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithIdentity sets where "hostname" and "pid" come from.  The
// default is the current process.  The provider is asked once.
func WithIdentity(p xopident.Provider) Option {
	return func(l *Logger) {
		if p != nil {
			l.identity = xopident.Cached(p)
		}
	}
}

// WithDefaultFields adds fields to every record.  Span and event
// fields override them.  May be used more than once.
func WithDefaultFields(fields ...xopbase.Field) Option {
	return func(l *Logger) {
		l.defaultFields = append(l.defaultFields, fields...)
	}
}

// WithSkipFields omits fields from all records.  Optional keys like
// "target", "file", and "line" may be skipped.  Skipping a core field
// like "name" makes New return a *SkipFieldError.
func WithSkipFields(keys ...string) Option {
	return func(l *Logger) {
		for _, key := range keys {
			if IsCoreKey(key) {
				l.setErr(&SkipFieldError{Key: key})
				return
			}
			l.skip[key] = struct{}{}
		}
	}
}

// WithSpanIDs adds "span_id" and "parent_span_id" (when there is a
// parent).  Ids are formatted as "span-<id>".
func WithSpanIDs(b bool) Option {
	return func(l *Logger) {
		l.spanIDs = b
	}
}

// WithSpanType adds "span_type" which is one of "START", "END", or
// "EVENT".  When true, span records use the bare span name as their
// message and event messages are not decorated.
func WithSpanType(b bool) Option {
	return func(l *Logger) {
		l.spanType = b
	}
}

// WithMessageStyle picks how span messages are synthesized.  The
// default is PlainMessages.
func WithMessageStyle(style MessageStyle) Option {
	return func(l *Logger) {
		l.style = style
	}
}

// WithSpanFields controls if events include the fields of the span
// they're in (and its ancestors).  The default is true.
func WithSpanFields(b bool) Option {
	return func(l *Logger) {
		l.spanFields = b
	}
}

// WithSpanStarts controls the record written when a span starts.  When
// false, spans are only written when they close.  The default is true.
func WithSpanStarts(b bool) Option {
	return func(l *Logger) {
		l.spanStarts = b
	}
}

// WithIdleTime adds "idle_milliseconds" to span end records: the
// part of the span's lifetime when it was not entered.
func WithIdleTime(b bool) Option {
	return func(l *Logger) {
		l.idleTime = b
	}
}

// WithMergeCache controls caching of inherited fields on each span.
// With the cache, an event in a deep span tree only merges again when
// some span on its path has changed fields.  The default is true.
func WithMergeCache(b bool) Option {
	return func(l *Logger) {
		l.mergeCache = b
	}
}

// WithBreaker puts a circuit breaker in front of the writer so that a
// sink that keeps failing is not waited on for every record.
func WithBreaker(settings xopbytes.BreakerSettings) Option {
	return func(l *Logger) {
		l.breaker = &settings
	}
}

// WithErrorReporter is told about every sink failure and every value
// that could not be encoded.  It must not call back into the Logger.
func WithErrorReporter(f func(error)) Option {
	return func(l *Logger) {
		l.errorReporter = f
	}
}

// WithDiagnostics sends the Logger's own warnings (protocol violations,
// sink failures, encoding failures) to a zap logger.
func WithDiagnostics(log *zap.Logger) Option {
	return func(l *Logger) {
		if log == nil {
			log = zap.NewNop()
		}
		l.diag = log
	}
}

// WithPrometheus registers a counter vector, xopbunyan_diagnostics_total,
// labeled by "kind", that mirrors Stats.  Loggers may share a registry.
func WithPrometheus(reg prometheus.Registerer) Option {
	return func(l *Logger) {
		l.registerer = reg
	}
}

func defaultTimeFormatter(b []byte, t time.Time) []byte {
	b = append(b, '"')
	b = t.UTC().AppendFormat(b, time.RFC3339Nano)
	b = append(b, '"')
	return b
}

func (l *Logger) setErr(err error) {
	if l.optErr == nil {
		l.optErr = err
	}
}
