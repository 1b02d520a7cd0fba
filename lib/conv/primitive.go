package conv

import (
	"time"

	"github.com/ValentinKolb/dPrefs/lib/native"
)

// --------------------------------------------------------------------------
// Primitive Bindings
// --------------------------------------------------------------------------

var (
	// Bool maps bool to native.Bool. Default: false.
	Bool = BoolConverter{}
	// Int maps int to native.Int. Default: 0.
	Int = IntConverter{}
	// Int64 maps int64 to native.Int. Default: 0.
	Int64 = Int64Converter{}
	// Float64 maps float64 to native.Float64. Default: 0.
	Float64 = Float64Converter{}
	// Float32 maps float32 to native.Float32. Default: 0.
	Float32 = Float32Converter{}
	// String maps string to native.String. Default: "".
	String = StringConverter{}

	// Bytes maps []byte to native.Blob. It has no canonical default.
	Bytes = BytesConverter{}
	// Time maps time.Time to native.Time. It has no canonical default.
	Time = TimeConverter{}
	// Native passes native values through unchanged. Default: native.Null.
	Native = NativeConverter{}
)

var (
	_ DefaultConverter[bool]         = BoolConverter{}
	_ DefaultConverter[int]          = IntConverter{}
	_ DefaultConverter[int64]        = Int64Converter{}
	_ DefaultConverter[float64]      = Float64Converter{}
	_ DefaultConverter[float32]      = Float32Converter{}
	_ DefaultConverter[string]       = StringConverter{}
	_ Converter[[]byte]              = BytesConverter{}
	_ Converter[time.Time]           = TimeConverter{}
	_ DefaultConverter[native.Value] = NativeConverter{}
)

// BoolConverter is the binding behind Bool.
type BoolConverter struct{}

func (BoolConverter) ToNative(v bool) (native.Value, error) { return native.Bool(v), nil }
func (BoolConverter) FromNative(v native.Value) (bool, error) {
	if x, ok := v.(native.Bool); ok {
		return bool(x), nil
	}
	return false, newShapeMismatch(native.KindBool, v)
}
func (BoolConverter) Default() bool { return false }

// IntConverter is the binding behind Int.
type IntConverter struct{}

func (IntConverter) ToNative(v int) (native.Value, error) { return native.Int(v), nil }
func (IntConverter) FromNative(v native.Value) (int, error) {
	if x, ok := v.(native.Int); ok {
		return int(x), nil
	}
	return 0, newShapeMismatch(native.KindInt, v)
}
func (IntConverter) Default() int { return 0 }

type Int64Converter struct{}

func (Int64Converter) ToNative(v int64) (native.Value, error) { return native.Int(v), nil }
func (Int64Converter) FromNative(v native.Value) (int64, error) {
	if x, ok := v.(native.Int); ok {
		return int64(x), nil
	}
	return 0, newShapeMismatch(native.KindInt, v)
}
func (Int64Converter) Default() int64 { return 0 }

type Float64Converter struct{}

func (Float64Converter) ToNative(v float64) (native.Value, error) { return native.Float64(v), nil }
func (Float64Converter) FromNative(v native.Value) (float64, error) {
	if x, ok := v.(native.Float64); ok {
		return float64(x), nil
	}
	return 0, newShapeMismatch(native.KindFloat64, v)
}
func (Float64Converter) Default() float64 { return 0 }

type Float32Converter struct{}

func (Float32Converter) ToNative(v float32) (native.Value, error) { return native.Float32(v), nil }
func (Float32Converter) FromNative(v native.Value) (float32, error) {
	if x, ok := v.(native.Float32); ok {
		return float32(x), nil
	}
	return 0, newShapeMismatch(native.KindFloat32, v)
}
func (Float32Converter) Default() float32 { return 0 }

type StringConverter struct{}

func (StringConverter) ToNative(v string) (native.Value, error) { return native.String(v), nil }
func (StringConverter) FromNative(v native.Value) (string, error) {
	if x, ok := v.(native.String); ok {
		return string(x), nil
	}
	return "", newShapeMismatch(native.KindString, v)
}
func (StringConverter) Default() string { return "" }

// BytesConverter is the binding behind Bytes.
type BytesConverter struct{}

// ToNative copies v so later mutation by the caller does not change the stored value.
func (BytesConverter) ToNative(v []byte) (native.Value, error) {
	if v == nil {
		return native.Blob{}, nil
	}
	return native.Blob(append([]byte(nil), v...)), nil
}
func (BytesConverter) FromNative(v native.Value) ([]byte, error) {
	if x, ok := v.(native.Blob); ok {
		return append([]byte{}, x...), nil
	}
	return nil, newShapeMismatch(native.KindBlob, v)
}

// TimeConverter is the binding behind Time.
type TimeConverter struct{}

func (TimeConverter) ToNative(v time.Time) (native.Value, error) { return native.Time(v), nil }
func (TimeConverter) FromNative(v native.Value) (time.Time, error) {
	if x, ok := v.(native.Time); ok {
		return x.Std(), nil
	}
	return time.Time{}, newShapeMismatch(native.KindTime, v)
}

type NativeConverter struct{}

func (NativeConverter) ToNative(v native.Value) (native.Value, error) {
	if v == nil {
		return native.Null{}, nil
	}
	return v, nil
}
func (NativeConverter) FromNative(v native.Value) (native.Value, error) { return v, nil }
func (NativeConverter) Default() native.Value                           { return native.Null{} }
