package xopbytes

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var _ BytesWriter = IOWriter{}

type IOWriter struct {
	io.Writer
}

func WriteToIOWriter(w io.Writer) BytesWriter {
	return IOWriter{
		Writer: w,
	}
}

func (iow IOWriter) Write(line []byte) error {
	n, err := iow.Writer.Write(line)
	if err != nil {
		return errors.Wrap(err, "write")
	}
	if n != len(line) {
		return io.ErrShortWrite
	}
	return nil
}

func (iow IOWriter) Close() {
	if wc, ok := iow.Writer.(io.WriteCloser); ok {
		_ = wc.Close()
	}
}

// Buffer is an in-memory BytesWriter that is safe to read while it is
// being written.
type Buffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

var _ BytesWriter = &Buffer{}

func (b *Buffer) Write(line []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.b.Write(line)
	return nil
}

func (b *Buffer) Close() {}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Lines returns the non-empty lines written so far
func (b *Buffer) Lines() []string {
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
