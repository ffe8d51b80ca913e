package xoprecorder

import (
	"github.com/xoplog/xopbunyan-go/xopbase"
)

// Replay sends the recorded callbacks, in the order they were
// received, to another layer.
func (log *Logger) Replay(dest xopbase.Layer) {
	log.lock.Lock()
	events := make([]*Event, len(log.Events))
	copy(events, log.Events)
	log.lock.Unlock()

	for _, event := range events {
		switch event.Type {
		case CustomEvent:
			// ignore
		case SpanStart:
			dest.OnNewSpan(event.Span.ID, event.Span.ParentID, event.Span.Meta, event.Fields)
		case SpanRecord:
			dest.OnRecord(event.Span.ID, event.Fields)
		case SpanEnter:
			dest.OnEnter(event.Span.ID)
		case SpanExit:
			dest.OnExit(event.Span.ID)
		case SpanDone:
			dest.OnClose(event.Span.ID)
		case LineEvent:
			dest.OnEvent(event.Line.Current, event.Line.Meta, event.Line.Message, event.Line.Fields)
		}
	}
}
