package main

import (
	"context"
	"fmt"
	"time"

	xop "github.com/xoplog/xopbunyan-go"
	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbunyan"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xopotel"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type demoFlags struct {
	workers int
	events  int
	otel    bool
}

func (a *app) demoCmd() *cobra.Command {
	var f demoFlags
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "write a request with concurrent workers as Bunyan lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, diag, err := a.options()
			if err != nil {
				return err
			}
			defer func() { _ = diag.Sync() }()
			layer, err := xopbunyan.New(xopbytes.WriteToIOWriter(cmd.OutOrStdout()), opts...)
			if err != nil {
				return err
			}
			if f.otel {
				err = runOtelDemo(cmd.Context(), layer, cmd, f)
			} else {
				err = runDemo(cmd.Context(), layer, f)
			}
			stats := layer.Stats()
			diag.Info("demo complete",
				zap.Int64("lines", stats.Lines),
				zap.Int64("violations", stats.Violations()),
				zap.Int64("sink_failures", stats.SinkFailures))
			return err
		},
	}
	cmd.Flags().IntVar(&f.workers, "workers", 3, "number of concurrent worker spans")
	cmd.Flags().IntVar(&f.events, "events", 2, "events per worker")
	cmd.Flags().BoolVar(&f.otel, "otel", false, "create the spans with Open Telemetry and also print them with the stdout exporter on stderr")
	return cmd
}

func runDemo(ctx context.Context, layer xopbase.Layer, f demoFlags) error {
	tracer := xop.NewTracer(layer)
	ctx, request := tracer.Start(ctx, xopnum.InfoLevel, "request",
		xopbase.Str("service", "demo"), xopbase.Int("workers", f.workers))
	defer request.Close()
	request.Enter()
	defer request.Exit()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < f.workers; i++ {
		i := i
		g.Go(func() error {
			ctx, worker := tracer.Start(ctx, xopnum.DebugLevel, "worker", xopbase.Int("worker", i))
			defer worker.Close()
			worker.InScope(func() {
				for n := 0; n < f.events; n++ {
					tracer.Info(ctx).Int("step", n).Duration("pause", time.Millisecond).Msg("step done")
					time.Sleep(time.Millisecond)
				}
				worker.Record(xopbase.Int("steps", f.events))
			})
			return ctx.Err()
		})
	}
	err := g.Wait()
	if err != nil {
		tracer.Error(ctx).Err("error", err).Msg("workers failed")
	}
	request.Record(xopbase.Bool("ok", err == nil))
	return err
}

func runOtelDemo(ctx context.Context, layer xopbase.Layer, cmd *cobra.Command, f demoFlags) error {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()))
	if err != nil {
		return errors.Wrap(err, "create stdout exporter")
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(xopotel.NewSpanProcessor(layer)),
		sdktrace.WithSyncer(exporter),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer("xopbunyan/demo")

	ctx, request := tracer.Start(ctx, "request", oteltrace.WithAttributes(
		attribute.String("service", "demo"), attribute.Int("workers", f.workers)))
	defer request.End()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < f.workers; i++ {
		i := i
		g.Go(func() error {
			_, worker := tracer.Start(ctx, "worker", oteltrace.WithAttributes(
				attribute.Int("worker", i), attribute.String(string(xopotel.Level), "debug")))
			defer worker.End()
			for n := 0; n < f.events; n++ {
				worker.AddEvent(fmt.Sprintf("step %d done", n), oteltrace.WithAttributes(attribute.Int("step", n)))
			}
			worker.SetAttributes(attribute.Int("steps", f.events))
			return ctx.Err()
		})
	}
	return g.Wait()
}
