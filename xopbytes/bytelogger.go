// Package xopbytes is the output end of the Bunyan layer: finished
// lines go through an Emitter into a BytesWriter.
package xopbytes

import (
	"fmt"

	"github.com/pkg/errors"
)

// BytesWriter is a sink for complete lines.  Write is never called
// concurrently by an Emitter.
type BytesWriter interface {
	Write(line []byte) error
	Close() // no point in returning an error
}

// DeliveryError means that a line was not accepted by the sink.  The
// Emitter that returned it keeps working.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failure: %s", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
func (e *DeliveryError) Cause() error  { return e.Err }

// ErrEmbeddedNewline means a line was rejected before it reached the
// sink because it would have broken the one-record-per-line format.
var ErrEmbeddedNewline = errors.New("line contains a raw newline")

// IsDeliveryError reports if err is, or wraps, a *DeliveryError
func IsDeliveryError(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}
