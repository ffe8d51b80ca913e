package xopfields_test

import (
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopfields"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicky struct{}

func (panicky) MarshalJSON() ([]byte, error) { panic("kaboom") }

func TestStoreLastWriteWins(t *testing.T) {
	s := xopfields.NewStore(nil)
	assert.Nil(t, s.Snapshot(), "empty store")
	require.NoError(t, s.Set(xopbase.Int("a", 1)))
	require.NoError(t, s.SetAll([]xopbase.Field{
		xopbase.Str("b", "two"),
		xopbase.Int("a", 3),
	}))
	snap := s.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.Keys(), "insertion order kept")
	assert.Equal(t, `{"a":3,"b":"two"}`, snap.String())
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := xopfields.NewStore(nil)
	require.NoError(t, s.Set(xopbase.Int("x", 1)))
	before := s.Snapshot()
	require.NoError(t, s.Set(xopbase.Int("x", 2)))
	require.NoError(t, s.Set(xopbase.Int("y", 2)))
	assert.Equal(t, `{"x":1}`, before.String())
	assert.Equal(t, `{"x":2,"y":2}`, s.Snapshot().String())
}

func TestClosedStore(t *testing.T) {
	s := xopfields.NewStore(nil)
	require.NoError(t, s.Set(xopbase.Int("x", 1)))
	s.Close()
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Set(xopbase.Int("x", 2)), xopfields.ErrClosed)
	assert.Equal(t, `{"x":1}`, s.Snapshot().String())
}

func TestDegradedValues(t *testing.T) {
	var degradedKeys []string
	s := xopfields.NewStore(func(key string, err error) {
		assert.Error(t, err)
		degradedKeys = append(degradedKeys, key)
	})
	require.NoError(t, s.SetAll([]xopbase.Field{
		xopbase.Str("before", "ok"),
		xopbase.Float64("nan", math.NaN()),
		xopbase.Any("chan", make(chan int)),
		xopbase.Any("panic", panicky{}),
		xopbase.Str("after", "ok"),
	}))
	assert.Equal(t, []string{"nan", "chan", "panic"}, degradedKeys)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s.Snapshot().String()), &decoded))
	assert.Equal(t, "ok", decoded["before"])
	assert.Equal(t, "ok", decoded["after"])
	for _, k := range degradedKeys {
		v, ok := decoded[k].(string)
		if assert.True(t, ok, k) {
			assert.Contains(t, v, "<error: ", k)
		}
	}
}

func TestEncode(t *testing.T) {
	ts := time.Date(2024, 3, 4, 5, 6, 7, 8, time.UTC)
	cases := []struct {
		field xopbase.Field
		want  string
	}{
		{xopbase.Int("a", -7), `-7`},
		{xopbase.Uint64("a", 7), `7`},
		{xopbase.Float64("a", 0.5), `0.5`},
		{xopbase.Bool("a", true), `true`},
		{xopbase.Str("a", "line\nbreak"), `"line\nbreak"`},
		{xopbase.Time("a", ts), `"2024-03-04T05:06:07.000000008Z"`},
		{xopbase.Duration("a", time.Millisecond), `1000000`},
		{xopbase.Null("a"), `null`},
		{xopbase.Any("a", nil), `null`},
		{xopbase.Any("a", map[string]int{"k": 1}), `{"k":1}`},
		{xopbase.Any("a", json.RawMessage(`{"raw":true}`)), `{"raw":true}`},
	}
	for _, tc := range cases {
		got, err := xopfields.Encode(tc.field)
		require.NoError(t, err, tc.want)
		assert.Equal(t, tc.want, string(got))
	}
	got, err := xopfields.Encode(xopbase.Any("a", json.RawMessage(`{bad`)))
	assert.Error(t, err)
	var degraded string
	require.NoError(t, json.Unmarshal(got, &degraded), string(got))
	assert.True(t, strings.HasPrefix(degraded, "<error: "), degraded)
}

func TestConcurrentSnapshotReads(t *testing.T) {
	s := xopfields.NewStore(nil)
	require.NoError(t, s.Set(xopbase.Int("n", 0)))
	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := s.Snapshot()
				var decoded map[string]int
				if !assert.NoError(t, json.Unmarshal([]byte(snap.String()), &decoded)) {
					return
				}
				assert.Equal(t, decoded["n"], decoded["m"], "writes are published whole")
			}
		}()
	}
	for i := 1; i < 2000; i++ {
		require.NoError(t, s.SetAll([]xopbase.Field{xopbase.Int("n", i), xopbase.Int("m", i)}))
	}
	close(done)
	wg.Wait()
}
