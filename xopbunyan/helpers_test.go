package xopbunyan_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopbunyan"
	"github.com/xoplog/xopbunyan-go/xopbytes"
	"github.com/xoplog/xopbunyan-go/xopident"
	"github.com/xoplog/xopbunyan-go/xopnum"
	"github.com/xoplog/xopbunyan-go/xoputil"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC)

type harness struct {
	t     *testing.T
	buf   *xopbytes.Buffer
	clock *xoputil.ManualClock
	log   *xopbunyan.Logger
}

func newHarness(t *testing.T, opts ...xopbunyan.Option) *harness {
	h := &harness{
		t:     t,
		buf:   &xopbytes.Buffer{},
		clock: xoputil.NewManualClock(epoch),
	}
	base := []xopbunyan.Option{
		xopbunyan.WithName("test-app"),
		xopbunyan.WithClock(h.clock.Clock()),
		xopbunyan.WithIdentity(xopident.Static{Host: "testhost", Pid: 4242}),
	}
	log, err := xopbunyan.New(h.buf, append(base, opts...)...)
	require.NoError(t, err)
	h.log = log
	return h
}

func info(name string) xopbase.Metadata {
	return xopbase.Metadata{Name: name, Level: xopnum.InfoLevel}
}

// records decodes every line written so far
func (h *harness) records() []map[string]interface{} {
	lines := h.buf.Lines()
	recs := make([]map[string]interface{}, len(lines))
	for i, line := range lines {
		require.NoErrorf(h.t, json.Unmarshal([]byte(line), &recs[i]), "line %d: %s", i, line)
	}
	return recs
}

func (h *harness) last() map[string]interface{} {
	recs := h.records()
	require.NotEmpty(h.t, recs)
	return recs[len(recs)-1]
}

func (h *harness) event(current xopbase.SpanID, msg string, fields ...xopbase.Field) map[string]interface{} {
	h.log.OnEvent(current, info(""), msg, fields)
	return h.last()
}
