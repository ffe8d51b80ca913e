package xopbase

import (
	"strings"
)

// Layers fans callbacks out to several layers in order.
type Layers []Layer

var _ Layer = Layers{}

// Multi combines layers.  Nil layers are dropped and a single layer
// is returned unwrapped.
func Multi(layers ...Layer) Layer {
	combined := make(Layers, 0, len(layers))
	for _, layer := range layers {
		switch l := layer.(type) {
		case nil:
		case Layers:
			combined = append(combined, l...)
		default:
			combined = append(combined, l)
		}
	}
	if len(combined) == 1 {
		return combined[0]
	}
	return combined
}

func (ls Layers) ID() string {
	ids := make([]string, len(ls))
	for i, l := range ls {
		ids[i] = l.ID()
	}
	return strings.Join(ids, "+")
}

func (ls Layers) OnNewSpan(id SpanID, parent SpanID, meta Metadata, fields []Field) {
	for _, l := range ls {
		l.OnNewSpan(id, parent, meta, fields)
	}
}

func (ls Layers) OnRecord(id SpanID, fields []Field) {
	for _, l := range ls {
		l.OnRecord(id, fields)
	}
}

func (ls Layers) OnEnter(id SpanID) {
	for _, l := range ls {
		l.OnEnter(id)
	}
}

func (ls Layers) OnExit(id SpanID) {
	for _, l := range ls {
		l.OnExit(id)
	}
}

func (ls Layers) OnClose(id SpanID) {
	for _, l := range ls {
		l.OnClose(id)
	}
}

func (ls Layers) OnEvent(current SpanID, meta Metadata, msg string, fields []Field) {
	for _, l := range ls {
		l.OnEvent(current, meta, msg, fields)
	}
}
