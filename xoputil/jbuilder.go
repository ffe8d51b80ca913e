package xoputil

import (
	"math"
	"strconv"
	"time"
)

// JBuilder appends hand-built JSON to B.  Structure is not checked:
// callers open and close their own objects.
type JBuilder struct {
	B []byte
}

func (b *JBuilder) Reset() { b.B = b.B[:0] }

// Comma separates values.  Nothing is added at the start of the
// buffer or right after '{', '[', or ':'.
func (b *JBuilder) Comma() {
	if n := len(b.B); n > 0 {
		if c := b.B[n-1]; c != '{' && c != '[' && c != ':' {
			b.B = append(b.B, ',')
		}
	}
}

// Append* copy raw bytes with no quoting or escaping
func (b *JBuilder) AppendByte(v byte)     { b.B = append(b.B, v) }
func (b *JBuilder) AppendBytes(v []byte)  { b.B = append(b.B, v...) }
func (b *JBuilder) AppendString(v string) { b.B = append(b.B, v...) }

// AddString writes v as a quoted, escaped JSON string
func (b *JBuilder) AddString(v string) {
	b.B = append(b.B, '"')
	b.string(v)
	b.B = append(b.B, '"')
}

// AddSafeString quotes v without escaping it
func (b *JBuilder) AddSafeString(v string) {
	b.B = append(append(append(b.B, '"'), v...), '"')
}

func (b *JBuilder) AddInt64(i int64)   { b.B = strconv.AppendInt(b.B, i, 10) }
func (b *JBuilder) AddUint64(i uint64) { b.B = strconv.AppendUint(b.B, i, 10) }
func (b *JBuilder) AddBool(v bool)     { b.B = strconv.AppendBool(b.B, v) }
func (b *JBuilder) AddNull()           { b.B = append(b.B, "null"...) }

// AddFloat64 writes f in the shortest form that round-trips.  Check
// FloatIsJSON first: NaN and the infinities have no JSON form.
func (b *JBuilder) AddFloat64(f float64) {
	b.B = strconv.AppendFloat(b.B, f, 'f', -1, 64)
}

// AddMilliseconds writes d as fractional milliseconds
func (b *JBuilder) AddMilliseconds(d time.Duration) {
	b.AddFloat64(float64(d) / float64(time.Millisecond))
}

// AddKey writes `"k":`, escaping k, preceded by a comma when needed
func (b *JBuilder) AddKey(k string) {
	b.Comma()
	b.AddString(k)
	b.B = append(b.B, ':')
}

// AddUncheckedKey is AddKey for keys known to need no escaping
func (b *JBuilder) AddUncheckedKey(k string) {
	b.Comma()
	b.AddSafeString(k)
	b.B = append(b.B, ':')
}

func FloatIsJSON(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
