package xoprecorder

import (
	"fmt"
	"strings"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"
)

// predicate is a named test. The name shows up in assertion messages
// through String().
type predicate[T any] struct {
	test func(T) bool
	name string
}

func (p predicate[T]) String() string { return p.name }

func matchAll[T any](v T, predicates []predicate[T]) bool {
	for _, p := range predicates {
		if !p.test(v) {
			return false
		}
	}
	return true
}

type (
	LinePredicate = predicate[*Line]
	SpanPredicate = predicate[*Span]
)

// LinesIn matches lines whose span matches sp
func LinesIn(sp SpanPredicate) LinePredicate {
	return LinePredicate{
		test: func(line *Line) bool { return line.Span != nil && sp.test(line.Span) },
		name: "span " + sp.name,
	}
}

func MessageEquals(msg string) LinePredicate {
	return LinePredicate{
		test: func(line *Line) bool { return line.Message == msg },
		name: fmt.Sprintf("message is %q", msg),
	}
}

// TextContains looks at the message and field values together
func TextContains(s string) LinePredicate {
	return LinePredicate{
		test: func(line *Line) bool { return strings.Contains(line.Text(), s) },
		name: fmt.Sprintf("text has %q", s),
	}
}

func AtLevel(level xopnum.Level) LinePredicate {
	return LinePredicate{
		test: func(line *Line) bool { return line.Meta.Level == level },
		name: "level " + level.String(),
	}
}

// LineHasField matches lines that carry key, whatever its value
func LineHasField(key string) LinePredicate {
	return LinePredicate{
		test: func(line *Line) bool { _, ok := line.Field(key); return ok },
		name: "line field " + key,
	}
}

func NameEquals(name string) SpanPredicate {
	return SpanPredicate{
		test: func(span *Span) bool { return span.Meta.Name == name },
		name: fmt.Sprintf("name is %q", name),
	}
}

func IsClosed() SpanPredicate {
	return SpanPredicate{
		test: func(span *Span) bool { return span.Closed },
		name: "closed",
	}
}

// SpanHasField matches spans where key is set on the span or any
// recorded ancestor.  Span predicates run with the logger locked.
func SpanHasField(key string) SpanPredicate {
	return SpanPredicate{
		test: func(span *Span) bool { _, ok := span.field(key); return ok },
		name: "span field " + key,
	}
}

// ChildOf matches spans whose direct parent has the given id
func ChildOf(parent xopbase.SpanID) SpanPredicate {
	return SpanPredicate{
		test: func(span *Span) bool { return span.ParentID == parent },
		name: fmt.Sprintf("child of %d", parent),
	}
}

func (log *Logger) FindLines(predicates ...LinePredicate) []*Line {
	log.lock.Lock()
	defer log.lock.Unlock()
	var found []*Line
	for _, line := range log.Lines {
		if matchAll(line, predicates) {
			found = append(found, line)
		}
	}
	return found
}

func (log *Logger) CountLines(predicates ...LinePredicate) int {
	return len(log.FindLines(predicates...))
}

// FindSpanByLine returns the span of the matching lines, or nil when
// nothing matches or the matches are spread over more than one span.
func (log *Logger) FindSpanByLine(predicates ...LinePredicate) *Span {
	var span *Span
	for i, line := range log.FindLines(predicates...) {
		if i > 0 && line.Span != span {
			return nil
		}
		span = line.Span
	}
	return span
}

// FindSpans returns matching spans in the order they started
func (log *Logger) FindSpans(predicates ...SpanPredicate) []*Span {
	log.lock.Lock()
	defer log.lock.Unlock()
	var found []*Span
	for _, span := range log.Spans {
		if matchAll(span, predicates) {
			found = append(found, span)
		}
	}
	return found
}

// FindSpan returns the first matching span or nil
func (log *Logger) FindSpan(predicates ...SpanPredicate) *Span {
	if spans := log.FindSpans(predicates...); len(spans) != 0 {
		return spans[0]
	}
	return nil
}
