package xopbytes

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Emitter is the single ordering point for output.  Each line is
// written inside one exclusive section so lines from different
// goroutines never interleave.
type Emitter struct {
	mu       sync.Mutex
	writer   BytesWriter
	lines    int64
	failures int64
}

func NewEmitter(w BytesWriter) *Emitter {
	return &Emitter{writer: w}
}

// Emit writes one record.  The record must be a single line; a
// trailing '\n' is added if it is missing (line may be appended to).
// A failure to write is returned as a *DeliveryError and does not
// stop later calls from being attempted.
func (e *Emitter) Emit(line []byte) error {
	body := line
	if n := len(body); n > 0 && body[n-1] == '\n' {
		body = body[:n-1]
	} else {
		line = append(line, '\n')
	}
	if bytes.IndexByte(body, '\n') != -1 {
		atomic.AddInt64(&e.failures, 1)
		return &DeliveryError{Err: ErrEmbeddedNewline}
	}
	e.mu.Lock()
	err := e.writer.Write(line)
	e.mu.Unlock()
	if err != nil {
		atomic.AddInt64(&e.failures, 1)
		return &DeliveryError{Err: err}
	}
	atomic.AddInt64(&e.lines, 1)
	return nil
}

// Lines is the count of lines successfully written
func (e *Emitter) Lines() int64 { return atomic.LoadInt64(&e.lines) }

// Failures is the count of lines that were not written
func (e *Emitter) Failures() int64 { return atomic.LoadInt64(&e.failures) }

func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.writer.Close()
}
