package xopident_test

import (
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xoplog/xopbunyan-go/xopident"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type countingProvider struct {
	hostCalls int32
	pidCalls  int32
	err       error
}

func (c *countingProvider) Hostname() (string, error) {
	atomic.AddInt32(&c.hostCalls, 1)
	return "box", c.err
}

func (c *countingProvider) PID() int {
	atomic.AddInt32(&c.pidCalls, 1)
	return 42
}

func TestCachedOnce(t *testing.T) {
	p := &countingProvider{}
	id := xopident.Cached(p)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "box", id.Hostname())
			assert.Equal(t, 42, id.PID())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.hostCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.pidCalls))
	assert.NoError(t, id.Err())
}

func TestCachedError(t *testing.T) {
	id := xopident.Cached(&countingProvider{err: errors.New("no network")})
	assert.EqualError(t, id.Err(), "no network")
	assert.Empty(t, id.Hostname())
}

func TestProcess(t *testing.T) {
	assert.Equal(t, os.Getpid(), xopident.Process().PID())
	assert.Same(t, xopident.Process(), xopident.Process())
	id := xopident.Cached(xopident.Static{Host: "h", Pid: 7})
	assert.Equal(t, "h", id.Hostname())
	assert.Equal(t, 7, id.PID())
}
