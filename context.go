package xop

import (
	"context"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/xoplog/xopbunyan-go/xopnum"
)

type contextKeyType struct{}

var contextKey = contextKeyType{}

func ContextWithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, contextKey, span)
}

// SpanFromContext returns nil if there is no span in ctx
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(contextKey).(*Span)
	return s
}

// TracerFromContext returns the tracer of the span in ctx or Default
func TracerFromContext(ctx context.Context) *Tracer {
	if s := SpanFromContext(ctx); s != nil {
		return s.tracer
	}
	return Default
}

// PackageLevel returns a function that finds the tracer in a context
// and sets its minimum level for the calling package.  An environment
// variable named XOPLEVEL_ plus the last element of the package path,
// for example XOPLEVEL_db, overrides level.  It can hold a level name
// or number.  A level of zero leaves the tracer as it is.
//
//	package db
//	var tracer = xop.PackageLevel(xopnum.InfoLevel)
func PackageLevel(level xopnum.Level) func(context.Context) *Tracer {
	if pkg := path.Base(callerMetadata(2).Target); pkg != "." && pkg != "/" {
		if l, ok := envLevel(os.LookupEnv("XOPLEVEL_" + pkg)); ok {
			level = l
		}
	}
	if level == 0 {
		return TracerFromContext
	}
	return func(ctx context.Context) *Tracer {
		return TracerFromContext(ctx).MinLevel(level)
	}
}

func envLevel(v string, set bool) (xopnum.Level, bool) {
	if !set {
		return 0, false
	}
	if l, err := xopnum.LevelString(v); err == nil {
		return l, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return xopnum.Level(n), err == nil
}
