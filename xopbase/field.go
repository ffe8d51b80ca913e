package xopbase

import (
	"time"
)

// DataType records how a Field value was provided so that layers
// can encode it without reflection.
type DataType int

const (
	UnsetDataType DataType = iota
	IntDataType
	UintDataType
	FloatDataType
	BoolDataType
	StringDataType
	TimeDataType
	DurationDataType
	ErrorDataType
	AnyDataType
	NullDataType
)

// Field is one key/value pair.  Only the member matching Type is used.
type Field struct {
	Key    string
	Type   DataType
	Int    int64
	Uint   uint64
	Float  float64
	String string
	Any    interface{}
}

func Int(k string, v int) Field         { return Int64(k, int64(v)) }
func Int64(k string, v int64) Field     { return Field{Key: k, Type: IntDataType, Int: v} }
func Uint64(k string, v uint64) Field   { return Field{Key: k, Type: UintDataType, Uint: v} }
func Float64(k string, v float64) Field { return Field{Key: k, Type: FloatDataType, Float: v} }
func Str(k string, v string) Field      { return Field{Key: k, Type: StringDataType, String: v} }
func Null(k string) Field               { return Field{Key: k, Type: NullDataType} }

func Bool(k string, v bool) Field {
	f := Field{Key: k, Type: BoolDataType}
	if v {
		f.Int = 1
	}
	return f
}

func Time(k string, v time.Time) Field {
	return Field{Key: k, Type: TimeDataType, Any: v}
}

func Duration(k string, v time.Duration) Field {
	return Field{Key: k, Type: DurationDataType, Int: int64(v)}
}

// Err records err.Error().  A nil error is recorded as null.
func Err(k string, err error) Field {
	if err == nil {
		return Null(k)
	}
	return Field{Key: k, Type: ErrorDataType, String: err.Error()}
}

// Any is serialized with encoding/json by layers that produce JSON.
// Values that cannot be serialized are replaced by an error string.
func Any(k string, v interface{}) Field {
	return Field{Key: k, Type: AnyDataType, Any: v}
}

func (f Field) BoolValue() bool { return f.Int != 0 }

func (f Field) DurationValue() time.Duration { return time.Duration(f.Int) }

func (f Field) TimeValue() time.Time {
	t, _ := f.Any.(time.Time)
	return t
}

// Value returns the field as a plain Go value
func (f Field) Value() interface{} {
	switch f.Type {
	case IntDataType:
		return f.Int
	case UintDataType:
		return f.Uint
	case FloatDataType:
		return f.Float
	case BoolDataType:
		return f.BoolValue()
	case StringDataType, ErrorDataType:
		return f.String
	case TimeDataType:
		return f.TimeValue()
	case DurationDataType:
		return f.DurationValue()
	case AnyDataType:
		return f.Any
	default:
		return nil
	}
}
