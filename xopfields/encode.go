package xopfields

import (
	"encoding/json"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xoputil"

	"github.com/pkg/errors"
)

// Encode turns a field value into JSON.  It never fails: a value that
// cannot be represented becomes the string "<error: ...>" and the
// reason is returned alongside so that the caller can count it.
func Encode(f xopbase.Field) ([]byte, error) {
	b := xoputil.JBuilder{
		B: make([]byte, 0, 16),
	}
	err := appendValue(&b, f)
	if err != nil {
		b.Reset()
		b.AddString(degraded(err))
	}
	return b.B, err
}

func degraded(err error) string {
	return "<error: " + err.Error() + ">"
}

func appendValue(b *xoputil.JBuilder, f xopbase.Field) error {
	switch f.Type {
	case xopbase.IntDataType:
		b.AddInt64(f.Int)
	case xopbase.UintDataType:
		b.AddUint64(f.Uint)
	case xopbase.FloatDataType:
		if !xoputil.FloatIsJSON(f.Float) {
			return errors.Errorf("unsupported float value %v", f.Float)
		}
		b.AddFloat64(f.Float)
	case xopbase.BoolDataType:
		b.AddBool(f.BoolValue())
	case xopbase.StringDataType, xopbase.ErrorDataType:
		b.AddString(f.String)
	case xopbase.TimeDataType:
		b.AddString(f.TimeValue().Format(time.RFC3339Nano))
	case xopbase.DurationDataType:
		b.AddInt64(f.Int)
	case xopbase.NullDataType:
		b.AddNull()
	case xopbase.AnyDataType:
		enc, err := marshalAny(f.Any)
		if err != nil {
			return err
		}
		b.AppendBytes(enc)
	default:
		return errors.Errorf("field %q has unknown data type %d", f.Key, f.Type)
	}
	return nil
}

func marshalAny(v interface{}) (enc []byte, err error) {
	if v == nil {
		return []byte("null"), nil
	}
	defer func() {
		if r := recover(); r != nil {
			enc = nil
			err = errors.Errorf("panic while encoding %T: %v", v, r)
		}
	}()
	enc, err = json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %T", v)
	}
	return enc, nil
}

// MustEncodeString is a convenience for values known to be strings
func MustEncodeString(s string) []byte {
	b := xoputil.JBuilder{}
	b.AddString(s)
	return b.B
}
