package xop

import (
	"fmt"
	"sync"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"
)

// Line is an event being built.  It must be finished with Msg, Msgf,
// or Msgs, after which it must not be used.
type Line struct {
	tracer  *Tracer
	current xopbase.SpanID
	meta    xopbase.Metadata
	fields  []xopbase.Field
	skip    bool
}

var linePool sync.Pool // *Line

func (t *Tracer) line(s *Span, level xopnum.Level, skip int) *Line {
	line, _ := linePool.Get().(*Line)
	if line == nil {
		line = &Line{}
	}
	line.tracer = t
	line.fields = line.fields[:0]
	line.skip = !t.Enabled(level)
	if line.skip {
		return line
	}
	line.meta = callerMetadata(skip)
	line.meta.Level = level
	line.current = 0
	if c := s.current(); c != nil && c.tracer.nextID == t.nextID {
		line.current = c.id
	}
	return line
}

func (line *Line) add(f xopbase.Field) *Line {
	if !line.skip {
		line.fields = append(line.fields, f)
	}
	return line
}

func (line *Line) Str(k string, v string) *Line             { return line.add(xopbase.Str(k, v)) }
func (line *Line) Int(k string, v int) *Line                { return line.add(xopbase.Int(k, v)) }
func (line *Line) Int64(k string, v int64) *Line            { return line.add(xopbase.Int64(k, v)) }
func (line *Line) Uint64(k string, v uint64) *Line          { return line.add(xopbase.Uint64(k, v)) }
func (line *Line) Float64(k string, v float64) *Line        { return line.add(xopbase.Float64(k, v)) }
func (line *Line) Bool(k string, v bool) *Line              { return line.add(xopbase.Bool(k, v)) }
func (line *Line) Time(k string, v time.Time) *Line         { return line.add(xopbase.Time(k, v)) }
func (line *Line) Duration(k string, v time.Duration) *Line { return line.add(xopbase.Duration(k, v)) }
func (line *Line) Err(k string, v error) *Line              { return line.add(xopbase.Err(k, v)) }
func (line *Line) Field(f xopbase.Field) *Line              { return line.add(f) }

// Any is encoded by the layer.  For JSON layers that means
// encoding/json.  The value must not be modified until the Line is
// sent.
func (line *Line) Any(k string, v interface{}) *Line { return line.add(xopbase.Any(k, v)) }

func (line *Line) Stringer(k string, v fmt.Stringer) *Line {
	if line.skip {
		return line
	}
	return line.add(xopbase.Str(k, v.String()))
}

// Msg sends the line
func (line *Line) Msg(msg string) {
	if !line.skip {
		line.tracer.layer.OnEvent(line.current, line.meta, msg, line.fields)
	}
	line.reclaim()
}

func (line *Line) Msgf(msg string, v ...interface{}) {
	if line.skip {
		line.reclaim()
		return
	}
	line.Msg(fmt.Sprintf(msg, v...))
}

func (line *Line) Msgs(v ...interface{}) {
	if line.skip {
		line.reclaim()
		return
	}
	line.Msg(fmt.Sprint(v...))
}

const maxFieldsToKeep = 64

func (line *Line) reclaim() {
	if cap(line.fields) > maxFieldsToKeep {
		return
	}
	for i := range line.fields {
		line.fields[i] = xopbase.Field{}
	}
	line.tracer = nil
	linePool.Put(line)
}
