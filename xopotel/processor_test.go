package xopotel_test

import (
	"context"
	"testing"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbunyan"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopident"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xopotel"
	"github.com/xoplog/xopbunyan-go/xoprecorder"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func run(t *testing.T, layer xopbase.Layer) (root, child oteltrace.Span) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(xopotel.NewSpanProcessor(layer)))
	defer func() { assert.NoError(t, tp.Shutdown(context.Background())) }()
	tracer := tp.Tracer("app/db")

	ctx, root := tracer.Start(context.Background(), "request",
		oteltrace.WithAttributes(attribute.String("service", "api")))
	_, child = tracer.Start(ctx, "db_query",
		oteltrace.WithAttributes(attribute.String("query", "SELECT 1"), attribute.String("xop.level", "debug")))
	child.AddEvent("query complete", oteltrace.WithAttributes(attribute.Int("rows", 1), attribute.StringSlice("tables", []string{"t"})))
	child.RecordError(errors.New("disk slow"))
	child.SetAttributes(attribute.Bool("cached", false))
	child.SetStatus(codes.Error, "partial")
	child.End()
	root.End()
	return root, child
}

func TestProcessorRecords(t *testing.T) {
	rec := xoprecorder.New()
	root, child := run(t, rec)

	require.Len(t, rec.Spans, 2)
	r := rec.Spans[0]
	c := rec.Spans[1]
	assert.Equal(t, xopotel.SpanID(root.SpanContext().SpanID()), r.ID)
	assert.Equal(t, xopotel.SpanID(child.SpanContext().SpanID()), c.ID)
	assert.Same(t, r, c.Parent)
	assert.Equal(t, "db_query", c.Meta.Name)
	assert.Equal(t, "app/db", c.Meta.Target)
	assert.Equal(t, xopnum.DebugLevel, c.Meta.Level)
	assert.Equal(t, xopnum.InfoLevel, r.Meta.Level)
	assert.Equal(t, 1, c.Enters)
	assert.Equal(t, 1, c.Exits)
	assert.True(t, c.Closed)

	f, ok := c.Field("otel.status_code")
	require.True(t, ok)
	assert.Equal(t, "Error", f.String)
	f, ok = c.Field("cached")
	require.True(t, ok)
	assert.False(t, f.BoolValue())
	_, ok = c.Field("xop.level")
	assert.False(t, ok)

	require.Len(t, rec.Lines, 2)
	assert.Equal(t, "query complete", rec.Lines[0].Message)
	rows, ok := rec.Lines[0].Field("rows")
	require.True(t, ok)
	assert.Equal(t, int64(1), rows.Int)
	tables, ok := rec.Lines[0].Field("tables")
	require.True(t, ok)
	assert.Equal(t, []string{"t"}, tables.Any)
	assert.Equal(t, "exception", rec.Lines[1].Message)
	assert.Equal(t, xopnum.ErrorLevel, rec.Lines[1].Meta.Level)

	var order []xoprecorder.EventType
	for _, e := range rec.Events {
		if e.Span == c {
			order = append(order, e.Type)
		}
	}
	assert.Equal(t, []xoprecorder.EventType{
		xoprecorder.SpanStart,
		xoprecorder.SpanEnter,
		xoprecorder.SpanRecord,
		xoprecorder.LineEvent,
		xoprecorder.LineEvent,
		xoprecorder.SpanExit,
		xoprecorder.SpanDone,
	}, order)
}

func TestProcessorToBunyan(t *testing.T) {
	var buf xopbytes.Buffer
	layer := xopbunyan.MustNew(&buf,
		xopbunyan.WithName("otel"),
		xopbunyan.WithIdentity(xopident.Static{Host: "h", Pid: 1}))
	run(t, layer)
	assert.Len(t, buf.Lines(), 6)
	assert.Zero(t, layer.Stats().Violations())
}

func TestDefaultLevel(t *testing.T) {
	rec := xoprecorder.New()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(
		xopotel.NewSpanProcessor(rec, xopotel.WithDefaultLevel(xopnum.WarnLevel))))
	_, span := tp.Tracer("x").Start(context.Background(), "s")
	span.End()
	require.Len(t, rec.Spans, 1)
	assert.Equal(t, xopnum.WarnLevel, rec.Spans[0].Meta.Level)
}

func TestInvalidSpanID(t *testing.T) {
	assert.Zero(t, xopotel.SpanID(oteltrace.SpanID{}))
	assert.Equal(t, xopbase.SpanID(0x0102030405060708), xopotel.SpanID(oteltrace.SpanID{1, 2, 3, 4, 5, 6, 7, 8}))
}
