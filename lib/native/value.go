package native

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Kind
// --------------------------------------------------------------------------

// Kind identifies the variant of a Value. The numeric values are part of the
// binary codec and must never be reordered.
type Kind uint8

const (
	KindInvalid Kind = iota // 0: never produced by a valid value
	KindNull                // 1: the "no value" marker
	KindBool                // 2: boolean
	KindInt                 // 3: signed 64-bit integer
	KindFloat64             // 4: 64-bit float
	KindFloat32             // 5: 32-bit float
	KindString              // 6: UTF-8 string
	KindBlob                // 7: binary blob
	KindTime                // 8: timestamp
	KindSeq                 // 9: sequence of values
	KindMap                 // 10: string-keyed mapping of values
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat64:
		return "float64"
	case KindFloat32:
		return "float32"
	case KindString:
		return "string"
	case KindBlob:
		return "blob"
	case KindTime:
		return "time"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// KindOf returns the kind of v, treating a nil interface as KindInvalid.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return v.Kind()
}

// --------------------------------------------------------------------------
// Value (sealed)
// --------------------------------------------------------------------------

// Value is the closed set of shapes a backing store can hold directly.
// Only the types declared in this file implement it.
type Value interface {
	// Kind returns the variant tag of the value.
	Kind() Kind
	nativeValue()
}

// Null marks "no value". A store never persists a top-level Null: writing it
// deletes the key. Inside a Seq or Map it is a regular element.
type Null struct{}

// Bool is a native boolean.
type Bool bool

// Int is a native signed 64-bit integer.
type Int int64

// Float64 is a native 64-bit float.
type Float64 float64

// Float32 is a native 32-bit float.
type Float32 float32

// String is a native UTF-8 string.
type String string

// Blob is a native binary blob.
type Blob []byte

// Time is a native timestamp.
type Time time.Time

// Seq is a native homogeneous or heterogeneous sequence.
type Seq []Value

// Map is a native string-keyed mapping.
type Map map[string]Value

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Int) Kind() Kind     { return KindInt }
func (Float64) Kind() Kind { return KindFloat64 }
func (Float32) Kind() Kind { return KindFloat32 }
func (String) Kind() Kind  { return KindString }
func (Blob) Kind() Kind    { return KindBlob }
func (Time) Kind() Kind    { return KindTime }
func (Seq) Kind() Kind     { return KindSeq }
func (Map) Kind() Kind     { return KindMap }

func (Null) nativeValue()    {}
func (Bool) nativeValue()    {}
func (Int) nativeValue()     {}
func (Float64) nativeValue() {}
func (Float32) nativeValue() {}
func (String) nativeValue()  {}
func (Blob) nativeValue()    {}
func (Time) nativeValue()    {}
func (Seq) nativeValue()     {}
func (Map) nativeValue()     {}

// Std returns the wrapped time.Time.
func (t Time) Std() time.Time { return time.Time(t) }

// IsNull reports whether v is the Null marker. A nil interface counts as Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// SortedKeys returns the keys of m in ascending byte order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --------------------------------------------------------------------------
// Equality
// --------------------------------------------------------------------------

// Equal reports whether a and b are structurally equal.
// Floats compare by bit pattern so that NaN equals itself, timestamps compare
// by instant (time.Time.Equal), containers compare element-wise.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch x := a.(type) {
	case nil:
		return true
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float64:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Float64)))
	case Float32:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float32)))
	case String:
		return x == b.(String)
	case Blob:
		return bytes.Equal(x, b.(Blob))
	case Time:
		return x.Std().Equal(b.(Time).Std())
	case Seq:
		y := b.(Seq)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Map:
		y := b.(Map)
		if len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Rendering
// --------------------------------------------------------------------------

// Format renders v in a compact, human-readable form, e.g.
// [1, 2] or {"a": true}. Blobs are shown as their length, times as RFC 3339.
func Format(v Value) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Float64:
		sb.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case Float32:
		sb.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case String:
		sb.WriteString(strconv.Quote(string(x)))
	case Blob:
		sb.WriteString(fmt.Sprintf("<blob %d bytes>", len(x)))
	case Time:
		sb.WriteString(x.Std().Format(time.RFC3339Nano))
	case Seq:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, e)
		}
		sb.WriteByte(']')
	case Map:
		sb.WriteByte('{')
		for i, k := range x.SortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			format(sb, x[k])
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(fmt.Sprintf("<invalid %T>", v))
	}
}

// ToPlain converts v into plain Go values (bool, int64, float64, string,
// []byte, time.Time, []any, map[string]any, nil) suitable for generic
// encoders such as YAML or JSON.
func ToPlain(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float64:
		return float64(x)
	case Float32:
		return float64(x)
	case String:
		return string(x)
	case Blob:
		return []byte(x)
	case Time:
		return x.Std()
	case Seq:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = ToPlain(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = ToPlain(e)
		}
		return out
	default:
		return nil
	}
}
