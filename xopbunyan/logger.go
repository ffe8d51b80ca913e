package xopbunyan

import (
	"strings"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopfields"
	"github.com/xoplog/xopbunyan-go/xopident"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xoptiming"
	"github.com/xoplog/xopbunyan-go/xoputil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// New creates a Logger that writes to w.  The only errors are from
// options: skipping a core field or failing to register with
// prometheus.
func New(w xopbytes.BytesWriter, opts ...Option) (*Logger, error) {
	log := &Logger{
		id:            uuid.New(),
		levels:        xopnum.DefaultLevelMap,
		timeFormatter: defaultTimeFormatter,
		clock:         time.Now,
		identity:      xopident.Process(),
		skip:          make(map[string]struct{}),
		spanFields:    true,
		spanStarts:    true,
		mergeCache:    true,
		diag:          zap.NewNop(),
	}
	for _, f := range opts {
		f(log)
	}
	if log.optErr != nil {
		return nil, log.optErr
	}
	if log.registerer != nil {
		cv, err := newPrometheusCounter(log.registerer)
		if err != nil {
			return nil, err
		}
		log.stats.prom = cv
	}
	if log.breaker != nil {
		w = xopbytes.Breaker(w, *log.breaker)
	}
	log.emitter = xopbytes.NewEmitter(w)
	log.defaults = xopfields.FromFields(log.defaultFields, log.degraded)

	b := xoputil.JBuilder{}
	b.AppendString(`{"v":`)
	b.AddInt64(int64(log.schemaVersion))
	b.AddUncheckedKey(NameKey)
	b.AddString(log.name)
	log.prefix = b.B

	if err := log.identity.Err(); err != nil {
		log.diag.Warn("xopbunyan: hostname lookup failed", zap.Error(err))
		log.report(err)
	}
	b = xoputil.JBuilder{}
	// appended after the level value, so it carries its own comma
	b.AppendByte(',')
	b.AddUncheckedKey(HostnameKey)
	b.AddString(log.identity.Hostname())
	b.AddUncheckedKey(PIDKey)
	b.AddInt64(int64(log.identity.PID()))
	log.identityKV = b.B
	return log, nil
}

// MustNew is New for option sets known to be valid
func MustNew(w xopbytes.BytesWriter, opts ...Option) *Logger {
	log, err := New(w, opts...)
	if err != nil {
		panic(err.Error())
	}
	return log
}

func (l *Logger) ID() string { return l.id.String() }

// Stats returns the current diagnostic counters
func (l *Logger) Stats() StatsSnapshot { return l.stats.Snapshot() }

// Close closes the underlying writer.  Spans that are still open are
// not written.
func (l *Logger) Close() { l.emitter.Close() }

func (l *Logger) lookup(id xopbase.SpanID) *spanNode {
	if id.IsZero() {
		return nil
	}
	v, ok := l.spans.Load(id)
	if !ok {
		return nil
	}
	return v.(*spanNode)
}

func (l *Logger) OnNewSpan(id xopbase.SpanID, parent xopbase.SpanID, meta xopbase.Metadata, fields []xopbase.Field) {
	if id.IsZero() {
		l.violation(UnknownSpan, id)
		return
	}
	now := l.clock()
	n := &spanNode{
		id:     id,
		parent: parent,
		meta:   meta,
		fields: xopfields.NewStore(l.degraded),
		timing: xoptiming.New(now),
	}
	if l.style == BracketedMessages {
		n.upper = strings.ToUpper(meta.Name)
	}
	if parent == id {
		n.parent = 0
		l.violation(AncestorLoop, id)
	}
	_ = n.fields.SetAll(fields)
	if _, loaded := l.spans.LoadOrStore(id, n); loaded {
		l.violation(DuplicateSpan, id)
		return
	}
	if l.spanStarts {
		l.writeSpan(n, spanStartRecord, now, xoptiming.Summary{})
	}
}

func (l *Logger) OnRecord(id xopbase.SpanID, fields []xopbase.Field) {
	n := l.lookup(id)
	if n == nil {
		l.violation(UnknownSpan, id)
		return
	}
	if err := n.fields.SetAll(fields); err != nil {
		l.violation(RecordAfterClose, id)
	}
}

func (l *Logger) OnEnter(id xopbase.SpanID) {
	n := l.lookup(id)
	if n == nil {
		l.violation(UnknownSpan, id)
		return
	}
	if !n.timing.Enter(l.clock()) {
		l.violation(DoubleEnter, id)
	}
}

func (l *Logger) OnExit(id xopbase.SpanID) {
	n := l.lookup(id)
	if n == nil {
		l.violation(UnknownSpan, id)
		return
	}
	if !n.timing.Exit(l.clock()) {
		l.violation(UnmatchedExit, id)
	}
}

// OnClose writes the span end record and forgets the span.  Children
// that are still open lose access to its fields.
func (l *Logger) OnClose(id xopbase.SpanID) {
	if id.IsZero() {
		l.violation(UnknownSpan, id)
		return
	}
	v, ok := l.spans.LoadAndDelete(id)
	if !ok {
		l.violation(UnknownSpan, id)
		return
	}
	n := v.(*spanNode)
	now := l.clock()
	summary := n.timing.Close(now)
	n.fields.Close()
	l.writeSpan(n, spanEndRecord, now, summary)
	n.merged.Store(nil)
}

func (l *Logger) OnEvent(current xopbase.SpanID, meta xopbase.Metadata, msg string, fields []xopbase.Field) {
	now := l.clock()
	n := l.lookup(current)
	if n == nil && !current.IsZero() {
		l.violation(UnknownSpan, current)
	}
	b := l.builder()
	defer b.reclaim()
	b.core(l.eventMessage(n, meta, msg), meta.Level, now)
	b.source(meta)
	if l.spanType {
		b.spanType(eventRecord)
	}
	if n != nil {
		b.spanIDs(n)
	}
	var inherited *xopfields.Snapshot
	if n != nil && l.spanFields {
		inherited = l.resolve(n)
	}
	b.custom(xopfields.MergeAll(l.defaults, inherited, xopfields.FromFields(fields, l.degraded)))
	l.emit(b)
}

func (l *Logger) writeSpan(n *spanNode, rt recordType, now time.Time, summary xoptiming.Summary) {
	b := l.builder()
	defer b.reclaim()
	b.core(l.spanMessage(n, rt), n.meta.Level, now)
	b.source(n.meta)
	if l.spanType {
		b.spanType(rt)
	}
	b.spanIDs(n)
	if rt == spanEndRecord {
		if b.optional(elapsedKey, "elapsed_milliseconds") {
			b.AddMilliseconds(summary.Busy)
		}
		if l.idleTime && b.optional(idleKey, "idle_milliseconds") {
			b.AddMilliseconds(summary.Idle)
		}
	}
	b.custom(xopfields.Merge(l.defaults, l.resolve(n)))
	l.emit(b)
}

func (l *Logger) spanMessage(n *spanNode, rt recordType) string {
	switch {
	case l.spanType:
		return n.meta.Name
	case l.style == BracketedMessages:
		return "[" + n.upper + " - " + rt.String() + "]"
	case rt == spanStartRecord:
		return n.meta.Name + " start"
	default:
		return n.meta.Name + " end"
	}
}

// eventMessage falls back to the target when there is no message
func (l *Logger) eventMessage(n *spanNode, meta xopbase.Metadata, msg string) string {
	if msg == "" {
		msg = meta.Target
	}
	if n == nil || l.spanType || l.style != BracketedMessages {
		return msg
	}
	return "[" + n.upper + " - " + eventRecord.String() + "] " + msg
}

func (l *Logger) emit(b *builder) {
	b.AppendByte('}')
	if err := l.emitter.Emit(b.B); err != nil {
		l.sinkFailure(err)
		return
	}
	l.stats.add(LineWritten)
}
