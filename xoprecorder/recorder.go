/*
Package xoprecorder provides an introspective xopbase.Layer. Every
callback is saved to memory and can be examined. Memory is only freed
when the logger is cleaned up with garbage collection.
*/
package xoprecorder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xoplog/xopbunyan-go/xopbase"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/muir/list"
)

type EventType int

const (
	SpanStart   EventType = iota // spanStart
	SpanRecord                   // record
	SpanEnter                    // enter
	SpanExit                     // exit
	SpanDone                     // spanDone
	LineEvent                    // line
	CustomEvent                  // custom
)

var eventTypeNames = []string{"spanStart", "record", "enter", "exit", "spanDone", "line", "custom"}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventTypeNames[t]
}

var _ xopbase.Layer = &Logger{}

type Opt func(*Logger)

// WithIDPrefix changes the prefix of ID()
func WithIDPrefix(prefix string) Opt {
	return func(log *Logger) {
		log.idPrefix = prefix
	}
}

func New(opts ...Opt) *Logger {
	log := &Logger{
		idPrefix:  "xoprecorder-",
		SpanIndex: make(map[xopbase.SpanID]*Span),
	}
	for _, opt := range opts {
		opt(log)
	}
	log.id = log.idPrefix + uuid.New().String()
	return log
}

type Logger struct {
	lock      sync.Mutex
	Spans     []*Span
	Lines     []*Line
	Events    []*Event
	SpanIndex map[xopbase.SpanID]*Span
	id        string
	idPrefix  string
}

// Span is everything recorded about one span.  Fields are in the
// order they were recorded, duplicates included.
type Span struct {
	ID       xopbase.SpanID
	ParentID xopbase.SpanID
	Parent   *Span // nil if the parent was not recorded
	Meta     xopbase.Metadata
	Fields   []xopbase.Field
	Spans    []*Span
	Lines    []*Line
	Enters   int
	Exits    int
	Closed   bool
	logger   *Logger
}

type Line struct {
	Span    *Span // nil for events outside of any recorded span
	Current xopbase.SpanID
	Meta    xopbase.Metadata
	Message string
	Fields  []xopbase.Field
}

type Event struct {
	Type EventType
	Span *Span
	Line *Line
	// Fields is what was passed with SpanStart and SpanRecord
	Fields []xopbase.Field
	Msg    string
}

// WithLock is provided for thread-safe introspection of the logger
func (log *Logger) WithLock(f func(*Logger) error) error {
	log.lock.Lock()
	defer log.lock.Unlock()
	return f(log)
}

func (log *Logger) CustomEvent(msg string, args ...interface{}) {
	log.lock.Lock()
	defer log.lock.Unlock()
	log.Events = append(log.Events, &Event{
		Type: CustomEvent,
		Msg:  fmt.Sprintf(msg, args...),
	})
}

func (log *Logger) ID() string { return log.id }

// copyFields takes ownership of fields: callers may reuse the slice,
// and values passed with Any may be modified after the call.
func copyFields(fields []xopbase.Field) []xopbase.Field {
	fields = list.Copy(fields)
	for i, f := range fields {
		if f.Type == xopbase.AnyDataType && f.Any != nil {
			fields[i].Any = deepcopy.Copy(f.Any)
		}
	}
	return fields
}

func (log *Logger) OnNewSpan(id xopbase.SpanID, parent xopbase.SpanID, meta xopbase.Metadata, fields []xopbase.Field) {
	fields = copyFields(fields)
	log.lock.Lock()
	defer log.lock.Unlock()
	s := &Span{
		ID:       id,
		ParentID: parent,
		Meta:     meta,
		Fields:   fields,
		logger:   log,
	}
	if p, ok := log.SpanIndex[parent]; ok && !parent.IsZero() {
		s.Parent = p
		p.Spans = append(p.Spans, s)
	}
	log.Spans = append(log.Spans, s)
	log.SpanIndex[id] = s
	log.Events = append(log.Events, &Event{
		Type:   SpanStart,
		Span:   s,
		Fields: fields,
	})
}

func (log *Logger) spanEvent(id xopbase.SpanID, et EventType, fields []xopbase.Field, f func(*Span)) {
	log.lock.Lock()
	defer log.lock.Unlock()
	s, ok := log.SpanIndex[id]
	if !ok {
		log.Events = append(log.Events, &Event{
			Type: CustomEvent,
			Msg:  fmt.Sprintf("%s for unknown span %d", et, id),
		})
		return
	}
	f(s)
	log.Events = append(log.Events, &Event{
		Type:   et,
		Span:   s,
		Fields: fields,
	})
}

func (log *Logger) OnRecord(id xopbase.SpanID, fields []xopbase.Field) {
	fields = copyFields(fields)
	log.spanEvent(id, SpanRecord, fields, func(s *Span) {
		s.Fields = append(s.Fields, fields...)
	})
}

func (log *Logger) OnEnter(id xopbase.SpanID) {
	log.spanEvent(id, SpanEnter, nil, func(s *Span) { s.Enters++ })
}

func (log *Logger) OnExit(id xopbase.SpanID) {
	log.spanEvent(id, SpanExit, nil, func(s *Span) { s.Exits++ })
}

func (log *Logger) OnClose(id xopbase.SpanID) {
	log.spanEvent(id, SpanDone, nil, func(s *Span) { s.Closed = true })
}

func (log *Logger) OnEvent(current xopbase.SpanID, meta xopbase.Metadata, msg string, fields []xopbase.Field) {
	line := &Line{
		Current: current,
		Meta:    meta,
		Message: msg,
		Fields:  copyFields(fields),
	}
	log.lock.Lock()
	defer log.lock.Unlock()
	if s, ok := log.SpanIndex[current]; ok && !current.IsZero() {
		line.Span = s
		s.Lines = append(s.Lines, line)
	}
	log.Lines = append(log.Lines, line)
	log.Events = append(log.Events, &Event{
		Type: LineEvent,
		Span: line.Span,
		Line: line,
	})
}

// Field returns the last value recorded for key on the span, or
// on any of its recorded ancestors.
func (s *Span) Field(key string) (xopbase.Field, bool) {
	s.logger.lock.Lock()
	defer s.logger.lock.Unlock()
	return s.field(key)
}

// field is Field for callers that already hold the logger lock
func (s *Span) field(key string) (xopbase.Field, bool) {
	for span := s; span != nil; span = span.Parent {
		for i := len(span.Fields) - 1; i >= 0; i-- {
			if span.Fields[i].Key == key {
				return span.Fields[i], true
			}
		}
	}
	return xopbase.Field{}, false
}

// Field returns the value recorded for key with the line itself
func (line *Line) Field(key string) (xopbase.Field, bool) {
	for i := len(line.Fields) - 1; i >= 0; i-- {
		if line.Fields[i].Key == key {
			return line.Fields[i], true
		}
	}
	return xopbase.Field{}, false
}

// Text is the message followed by the line's fields in "k=v" form
func (line *Line) Text() string {
	var b strings.Builder
	b.WriteString(line.Message)
	for _, f := range line.Fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		fmt.Fprint(&b, f.Value())
	}
	return b.String()
}
