package xmzap_test

import (
	"testing"
	"time"

	"github.com/xoplog/xopbunyan-go/xmzap"
	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xoprecorder"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCoreSendsEvents(t *testing.T) {
	rec := xoprecorder.New()
	rec.OnNewSpan(5, 0, xopbase.Metadata{Name: "request"}, []xopbase.Field{xopbase.Str("service", "api")})
	log := zap.New(xmzap.NewCore(rec, zapcore.DebugLevel), zap.AddCaller()).Named("db")
	log.With(xmzap.InSpan(5), zap.String("component", "pool")).
		Warn("slow query", zap.Int("ms", 250), zap.Duration("took", time.Second), zap.Error(errors.New("timeout")))
	log.Debug("outside")

	require.Len(t, rec.Lines, 2)
	line := rec.Lines[0]
	assert.Equal(t, "slow query", line.Message)
	assert.Equal(t, xopnum.WarnLevel, line.Meta.Level)
	assert.Equal(t, "db", line.Meta.Target)
	assert.NotEmpty(t, line.Meta.File)
	assert.Equal(t, xopbase.SpanID(5), line.Current)
	require.NotNil(t, line.Span)

	for key, want := range map[string]interface{}{
		"component": "pool",
		"ms":        int64(250),
		"took":      time.Second,
		"error":     "timeout",
	} {
		f, ok := line.Field(key)
		if assert.True(t, ok, key) {
			assert.Equal(t, want, f.Value(), key)
		}
	}
	_, ok := line.Field("xop.current_span")
	assert.False(t, ok)
	assert.Zero(t, rec.Lines[1].Current)
	assert.Equal(t, xopnum.DebugLevel, rec.Lines[1].Meta.Level)
}

func TestCoreLevelFilter(t *testing.T) {
	rec := xoprecorder.New()
	log := zap.New(xmzap.NewCore(rec, zapcore.WarnLevel))
	log.Info("dropped")
	log.Error("kept")
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, xopnum.ErrorLevel, rec.Lines[0].Meta.Level)
}

func TestLayerWritesToZap(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	layer := xmzap.Layer(zap.New(obs))
	layer.OnNewSpan(1, 0, xopbase.Metadata{Name: "request", Level: xopnum.InfoLevel}, []xopbase.Field{xopbase.Str("service", "api")})
	layer.OnNewSpan(2, 1, xopbase.Metadata{Name: "child", Level: xopnum.TraceLevel}, nil)
	layer.OnEvent(2, xopbase.Metadata{Level: xopnum.AlertLevel}, "bad", []xopbase.Field{xopbase.Int("n", 3)})
	layer.OnClose(2)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "api", entries[0].ContextMap()["service"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "span-1", entries[1].ContextMap()["xop.parent_span"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, int64(3), entries[2].ContextMap()["n"])
	assert.Equal(t, "span-2", entries[2].ContextMap()["xop.span"])
	assert.Equal(t, "done", entries[3].ContextMap()["xop.type"])
}

func TestLevelConversion(t *testing.T) {
	assert.Equal(t, xopnum.AlertLevel, xmzap.Level(zapcore.FatalLevel))
	assert.Equal(t, xopnum.AlertLevel, xmzap.Level(zapcore.DPanicLevel))
	assert.Equal(t, zapcore.DebugLevel, xmzap.ZapLevel(xopnum.TraceLevel))
	assert.Equal(t, zapcore.ErrorLevel, xmzap.ZapLevel(xopnum.AlertLevel))
}
