/*
Package xopotel feeds Open Telemetry spans into a xopbase.Layer.

SpanProcessor is a go.opentelemetry.io/otel/sdk/trace.SpanProcessor.
Register it with a TracerProvider and every span the provider records
is also sent to the layer:

	layer, _ := xopbunyan.New(xopbytes.WriteToIOWriter(os.Stdout), xopbunyan.WithName("svc"))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(xopotel.NewSpanProcessor(layer)))

Open Telemetry only shows a span to processors when it starts and when
it ends, so each span is entered at start and exited at end.  Span
events are sent when the span ends, before it is closed.  Attributes
set after the start are recorded when the span ends.

Span ids are the 8-byte Open Telemetry span ids read as big-endian
integers.
*/
package xopotel
