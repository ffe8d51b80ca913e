package xopbunyan_test

import (
	"testing"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbunyan"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopnum"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	c, err := xopbunyan.DecodeConfig(map[string]interface{}{
		"name":          "svc",
		"span_ids":      "true",
		"idle_time":     true,
		"message_style": "bracketed",
		"skip_fields":   "file,line",
		"default_fields": map[string]interface{}{
			"region": "us-east-1",
			"shard":  3,
		},
		"levels": map[string]interface{}{"alert": "50"},
	})
	require.NoError(t, err)
	assert.Equal(t, "svc", c.Name)
	assert.True(t, c.SpanIDs)
	assert.True(t, c.IdleTime)
	assert.True(t, c.SpanFields, "defaults are kept")
	assert.True(t, c.MergeCache)
	assert.Equal(t, []string{"file", "line"}, c.SkipFields)
	assert.Equal(t, 50, c.Levels["alert"])

	opts, err := c.Options()
	require.NoError(t, err)
	h := newHarness(t, opts...)
	h.log.OnNewSpan(1, 0, xopbase.Metadata{Name: "job", Level: xopnum.AlertLevel, File: "x.go", Line: 9}, nil)
	rec := h.last()
	assert.Equal(t, "svc", rec["name"])
	assert.Equal(t, "[JOB - START]", rec["msg"])
	assert.Equal(t, float64(50), rec["level"])
	assert.Equal(t, "span-1", rec["span_id"])
	assert.Equal(t, "us-east-1", rec["region"])
	assert.Equal(t, float64(3), rec["shard"])
	assert.NotContains(t, rec, "file")
	assert.NotContains(t, rec, "line")
}

func TestDecodeConfigErrors(t *testing.T) {
	_, err := xopbunyan.DecodeConfig(map[string]interface{}{"nmae": "typo"})
	assert.Error(t, err)

	c := xopbunyan.DefaultConfig()
	c.MessageStyle = "fancy"
	_, err = c.Options()
	assert.Error(t, err)

	c = xopbunyan.DefaultConfig()
	c.Levels = map[string]int{"loud": 70}
	_, err = c.Options()
	assert.Error(t, err)

	c = xopbunyan.DefaultConfig()
	c.SkipFields = []string{"pid"}
	opts, err := c.Options()
	require.NoError(t, err)
	_, err = xopbunyan.New(nil, opts...)
	var skipErr *xopbunyan.SkipFieldError
	assert.ErrorAs(t, err, &skipErr)
	assert.PanicsWithValue(t, "pid is a core field in the bunyan log format, it can't be skipped", func() {
		xopbunyan.MustNew(&xopbytes.Buffer{}, opts...)
	})
}

func TestPrometheusCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := newHarness(t, xopbunyan.WithPrometheus(reg))
	b := newHarness(t, xopbunyan.WithPrometheus(reg))
	a.log.OnEvent(0, info(""), "one", nil)
	b.log.OnEvent(0, info(""), "two", nil)
	b.log.OnExit(12)

	families, err := reg.Gather()
	require.NoError(t, err)
	got := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != "xopbunyan_diagnostics_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" {
					got[lp.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(2), got["line_written"])
	assert.Equal(t, float64(1), got["unknown_span"])
}

func TestMessageStyleNames(t *testing.T) {
	for _, style := range []xopbunyan.MessageStyle{xopbunyan.PlainMessages, xopbunyan.BracketedMessages} {
		parsed, err := xopbunyan.ParseMessageStyle(style.String())
		require.NoError(t, err)
		assert.Equal(t, style, parsed)
	}
}
