package xopbunyan

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopfields"
	"github.com/xoplog/xopbunyan-go/xopident"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xoptiming"
	"github.com/xoplog/xopbunyan-go/xoputil"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var _ xopbase.Layer = &Logger{}

type Option func(*Logger)

// TimeFormatter is the function signature for custom time formatters
// if anything other than time.RFC3339Nano in UTC is desired.  The
// value, including any quotes, must be appended to the byte slice
// (which must be returned).
//
// For example:
//
//	func timeFormatter(b []byte, t time.Time) []byte {
//		b = append(b, '"')
//		b = append(b, []byte(t.Format(time.RFC3339))...)
//		b = append(b, '"')
//		return b
//	}
type TimeFormatter func(b []byte, t time.Time) []byte

type Logger struct {
	emitter       *xopbytes.Emitter
	id            uuid.UUID
	name          string
	schemaVersion int
	levels        xopnum.LevelMap
	timeFormatter TimeFormatter
	clock         xoputil.Clock
	identity      *xopident.Identity
	defaultFields []xopbase.Field
	defaults      *xopfields.Snapshot
	skip          map[string]struct{}
	spanIDs       bool
	spanType      bool
	spanFields    bool
	spanStarts    bool
	idleTime      bool
	mergeCache    bool
	style         MessageStyle
	breaker       *xopbytes.BreakerSettings
	errorReporter func(error)
	diag          *zap.Logger
	registerer    prometheus.Registerer
	stats         Stats
	spans         sync.Map // xopbase.SpanID -> *spanNode
	builderPool   sync.Pool
	prefix        []byte // {"v":0,"name":"..."
	identityKV    []byte // ,"hostname":"...","pid":123
	optErr        error
}

// spanNode is the per-span state.  Everything except the field
// snapshot and the merge cache is only touched from the span's own
// callbacks, which the host serializes.
type spanNode struct {
	id     xopbase.SpanID
	parent xopbase.SpanID
	meta   xopbase.Metadata
	upper  string // meta.Name in upper case, for bracketed messages
	fields *xopfields.Store
	timing xoptiming.Tracker
	merged atomic.Pointer[mergedFields]
}

// mergedFields caches the result of merging a span's own fields with
// everything it inherits.  It is valid while both inputs are the same
// pointers that produced it.
type mergedFields struct {
	inherited *xopfields.Snapshot
	own       *xopfields.Snapshot
	merged    *xopfields.Snapshot
}

type builder struct {
	xoputil.JBuilder
	logger  *Logger
	written optionalKey
}

// MessageStyle controls the "msg" of span records and of events
// that happen inside a span.
type MessageStyle int

const (
	// PlainMessages: spans are "name start" and "name end".  Event
	// messages are unchanged.
	PlainMessages MessageStyle = iota
	// BracketedMessages: spans are "[NAME - START]" and "[NAME - END]".
	// Events inside a span are "[NAME - EVENT] message".
	BracketedMessages
)

func (s MessageStyle) String() string {
	switch s {
	case PlainMessages:
		return "plain"
	case BracketedMessages:
		return "bracketed"
	default:
		return "style(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseMessageStyle accepts the names returned by MessageStyle.String
func ParseMessageStyle(s string) (MessageStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return PlainMessages, nil
	case "bracketed", "brackets":
		return BracketedMessages, nil
	default:
		return PlainMessages, errors.Errorf("unknown message style %q", s)
	}
}

type recordType int

const (
	spanStartRecord recordType = iota
	spanEndRecord
	eventRecord
)

func (t recordType) String() string {
	switch t {
	case spanStartRecord:
		return "START"
	case spanEndRecord:
		return "END"
	default:
		return "EVENT"
	}
}

// Core field names.  None of them can be skipped or overridden by a
// custom field.
const (
	VersionKey  = "v"
	NameKey     = "name"
	MessageKey  = "msg"
	LevelKey    = "level"
	HostnameKey = "hostname"
	PIDKey      = "pid"
	TimeKey     = "time"
)

var coreKeys = map[string]struct{}{
	VersionKey:  {},
	NameKey:     {},
	MessageKey:  {},
	LevelKey:    {},
	HostnameKey: {},
	PIDKey:      {},
	TimeKey:     {},
}

// IsCoreKey reports if key is one of the required Bunyan fields
func IsCoreKey(key string) bool {
	_, ok := coreKeys[key]
	return ok
}

// optionalKey is a bit per optional key so that a builder can
// remember which ones were written to the current record.
type optionalKey uint16

const (
	targetKey optionalKey = 1 << iota
	lineKey
	fileKey
	spanTypeKey
	parentSpanIDKey
	spanIDKey
	elapsedKey
	idleKey
)

var optionalKeys = map[string]optionalKey{
	"target":               targetKey,
	"line":                 lineKey,
	"file":                 fileKey,
	"span_type":            spanTypeKey,
	"parent_span_id":       parentSpanIDKey,
	"span_id":              spanIDKey,
	"elapsed_milliseconds": elapsedKey,
	"idle_milliseconds":    idleKey,
}

// SkipFieldError is returned when asked to skip a core field
type SkipFieldError struct {
	Key string
}

func (e *SkipFieldError) Error() string {
	return e.Key + " is a core field in the bunyan log format, it can't be skipped"
}
