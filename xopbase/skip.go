package xopbase

// Discard is a Layer that ignores everything
var Discard Layer = discard{}

type discard struct{}

func (discard) ID() string                                  { return "discard" }
func (discard) OnNewSpan(SpanID, SpanID, Metadata, []Field) {}
func (discard) OnRecord(SpanID, []Field)                    {}
func (discard) OnEnter(SpanID)                              {}
func (discard) OnExit(SpanID)                               {}
func (discard) OnClose(SpanID)                              {}
func (discard) OnEvent(SpanID, Metadata, string, []Field)   {}
