package xopbunyan

import (
	"sync/atomic"

	"github.com/xoplog/xopbunyan-go/xopbase"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Diagnostic is a kind of thing the Logger counts about itself
type Diagnostic int

const (
	UnknownSpan Diagnostic = iota
	DuplicateSpan
	DoubleEnter
	UnmatchedExit
	RecordAfterClose
	AncestorLoop
	Degraded
	SinkFailure
	LineWritten
	numDiagnostics
)

var diagnosticNames = [numDiagnostics]string{
	UnknownSpan:      "unknown_span",
	DuplicateSpan:    "duplicate_span",
	DoubleEnter:      "double_enter",
	UnmatchedExit:    "unmatched_exit",
	RecordAfterClose: "record_after_close",
	AncestorLoop:     "ancestor_loop",
	Degraded:         "degraded",
	SinkFailure:      "sink_failure",
	LineWritten:      "line_written",
}

func (d Diagnostic) String() string {
	if d < 0 || d >= numDiagnostics {
		return "unknown"
	}
	return diagnosticNames[d]
}

// Stats counts diagnostics.  It is safe for concurrent use.
type Stats struct {
	counts [numDiagnostics]atomic.Int64
	prom   *prometheus.CounterVec
}

// StatsSnapshot is a copy of the counters at one point in time
type StatsSnapshot struct {
	UnknownSpan      int64 `json:"unknown_span"`
	DuplicateSpan    int64 `json:"duplicate_span"`
	DoubleEnter      int64 `json:"double_enter"`
	UnmatchedExit    int64 `json:"unmatched_exit"`
	RecordAfterClose int64 `json:"record_after_close"`
	AncestorLoop     int64 `json:"ancestor_loop"`
	Degraded         int64 `json:"degraded"`
	SinkFailures     int64 `json:"sink_failures"`
	Lines            int64 `json:"lines"`
}

// Violations is the total of all protocol violations
func (s StatsSnapshot) Violations() int64 {
	return s.UnknownSpan + s.DuplicateSpan + s.DoubleEnter + s.UnmatchedExit + s.RecordAfterClose + s.AncestorLoop
}

func (s *Stats) add(d Diagnostic) {
	s.counts[d].Add(1)
	if s.prom != nil {
		s.prom.WithLabelValues(d.String()).Inc()
	}
}

func (s *Stats) Get(d Diagnostic) int64 {
	return s.counts[d].Load()
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		UnknownSpan:      s.Get(UnknownSpan),
		DuplicateSpan:    s.Get(DuplicateSpan),
		DoubleEnter:      s.Get(DoubleEnter),
		UnmatchedExit:    s.Get(UnmatchedExit),
		RecordAfterClose: s.Get(RecordAfterClose),
		AncestorLoop:     s.Get(AncestorLoop),
		Degraded:         s.Get(Degraded),
		SinkFailures:     s.Get(SinkFailure),
		Lines:            s.Get(LineWritten),
	}
}

func newPrometheusCounter(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xopbunyan",
		Name:      "diagnostics_total",
		Help:      "Lines written, values degraded, sink failures, and host protocol violations seen by xopbunyan loggers",
	}, []string{"kind"})
	err := reg.Register(cv)
	if err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, errors.Wrap(err, "register prometheus counter")
	}
	return cv, nil
}

// violation counts a host protocol mistake.  The callback that
// noticed it does nothing else.
func (l *Logger) violation(d Diagnostic, id xopbase.SpanID) {
	l.stats.add(d)
	l.diag.Warn("xopbunyan: host protocol violation",
		zap.Stringer("kind", d),
		zap.Uint64("span_id", uint64(id)))
}

func (l *Logger) degraded(key string, err error) {
	l.stats.add(Degraded)
	err = errors.Wrapf(err, "field %q", key)
	l.diag.Warn("xopbunyan: value replaced with error string", zap.Error(err))
	l.report(err)
}

func (l *Logger) sinkFailure(err error) {
	l.stats.add(SinkFailure)
	l.diag.Warn("xopbunyan: write failed", zap.Error(err))
	l.report(err)
}

func (l *Logger) report(err error) {
	if l.errorReporter != nil {
		l.errorReporter(err)
	}
}
