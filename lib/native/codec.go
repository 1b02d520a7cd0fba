package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// codecVersion is written as the first byte of every encoded value.
const codecVersion byte = 1

// maxDepth bounds container nesting on decode.
const maxDepth = 512

// ErrMalformed is returned (wrapped) by Unmarshal for any input that is not a
// valid encoding.
var ErrMalformed = errors.New("malformed native value")

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Marshal encodes v into the binary representation used by byte-level stores.
//
// Layout: one version byte, then the value. Every value starts with its Kind
// byte followed by a kind-specific payload:
//   - Null: nothing
//   - Bool: 1 byte (0 or 1)
//   - Int, Float64: 8 bytes big endian
//   - Float32: 4 bytes big endian
//   - String, Blob, Time: uint32 length + bytes (Time uses time.Time.MarshalBinary)
//   - Seq: uint32 count + values
//   - Map: uint32 count + (uint32 key length + key + value), keys sorted
func Marshal(v Value) ([]byte, error) {
	size, err := sizeBytes(v, 0)
	if err != nil {
		return nil, err
	}

	result := make([]byte, 1, 1+size)
	result[0] = codecVersion
	return appendValue(result, v)
}

func appendValue(buf []byte, v Value) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("cannot encode nil value")
	case Null:
		return append(buf, byte(KindNull)), nil
	case Bool:
		buf = append(buf, byte(KindBool))
		if x {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case Int:
		buf = append(buf, byte(KindInt))
		return binary.BigEndian.AppendUint64(buf, uint64(x)), nil
	case Float64:
		buf = append(buf, byte(KindFloat64))
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(float64(x))), nil
	case Float32:
		buf = append(buf, byte(KindFloat32))
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(x))), nil
	case String:
		buf = append(buf, byte(KindString))
		return appendBytes(buf, []byte(x)), nil
	case Blob:
		buf = append(buf, byte(KindBlob))
		return appendBytes(buf, x), nil
	case Time:
		data, err := x.Std().MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode time: %w", err)
		}
		buf = append(buf, byte(KindTime))
		return appendBytes(buf, data), nil
	case Seq:
		buf = append(buf, byte(KindSeq))
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(x)))
		for i, e := range x {
			var err error
			if buf, err = appendValue(buf, e); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return buf, nil
	case Map:
		buf = append(buf, byte(KindMap))
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(x)))
		for _, k := range x.SortedKeys() {
			buf = appendBytes(buf, []byte(k))
			var err error
			if buf, err = appendValue(buf, x[k]); err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("cannot encode value of type %T", v)
	}
}

// appendBytes writes a uint32 length prefix followed by data
func appendBytes(buf, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// sizeBytes calculates the encoded size of v (without the version byte)
// and rejects values that cannot be encoded.
func sizeBytes(v Value, depth int) (int, error) {
	if depth > maxDepth {
		return 0, fmt.Errorf("value nested deeper than %d levels", maxDepth)
	}

	switch x := v.(type) {
	case Null:
		return 1, nil
	case Bool:
		return 2, nil
	case Int, Float64:
		return 9, nil
	case Float32:
		return 5, nil
	case String:
		return 5 + len(x), nil
	case Blob:
		if uint64(len(x)) > math.MaxUint32 {
			return 0, fmt.Errorf("blob too large (%d bytes)", len(x))
		}
		return 5 + len(x), nil
	case Time:
		return 5 + 16, nil // MarshalBinary emits at most 16 bytes
	case Seq:
		size := 5
		for _, e := range x {
			n, err := sizeBytes(e, depth+1)
			if err != nil {
				return 0, err
			}
			size += n
		}
		return size, nil
	case Map:
		size := 5
		for k, e := range x {
			n, err := sizeBytes(e, depth+1)
			if err != nil {
				return 0, err
			}
			size += 4 + len(k) + n
		}
		return size, nil
	case nil:
		return 0, fmt.Errorf("cannot encode nil value")
	default:
		return 0, fmt.Errorf("cannot encode value of type %T", v)
	}
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// Unmarshal decodes data produced by Marshal. Any structural problem
// (unknown version or kind, truncation, trailing bytes, duplicate map keys,
// excessive nesting) yields an error wrapping ErrMalformed.
func Unmarshal(data []byte) (Value, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: data too short for header", ErrMalformed)
	}
	if data[0] != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, data[0])
	}

	d := decoder{data: data, pos: 1}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(data)-d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %s (offset %d)", ErrMalformed, fmt.Sprintf(format, args...), d.pos)
}

func (d *decoder) take(n int, what string) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, d.fail("data too short for %s", what)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) length(what string) (int, error) {
	b, err := d.take(4, what+" length")
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(b)), nil
}

func (d *decoder) bytes(what string) ([]byte, error) {
	n, err := d.length(what)
	if err != nil {
		return nil, err
	}
	return d.take(n, what+" data")
}

func (d *decoder) value(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, d.fail("value nested deeper than %d levels", maxDepth)
	}

	tag, err := d.take(1, "kind")
	if err != nil {
		return nil, err
	}

	switch Kind(tag[0]) {
	case KindNull:
		return Null{}, nil
	case KindBool:
		b, err := d.take(1, "bool")
		if err != nil {
			return nil, err
		}
		switch b[0] {
		case 0:
			return Bool(false), nil
		case 1:
			return Bool(true), nil
		default:
			return nil, d.fail("invalid bool byte %d", b[0])
		}
	case KindInt:
		b, err := d.take(8, "int")
		if err != nil {
			return nil, err
		}
		return Int(int64(binary.BigEndian.Uint64(b))), nil
	case KindFloat64:
		b, err := d.take(8, "float64")
		if err != nil {
			return nil, err
		}
		return Float64(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case KindFloat32:
		b, err := d.take(4, "float32")
		if err != nil {
			return nil, err
		}
		return Float32(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case KindString:
		b, err := d.bytes("string")
		if err != nil {
			return nil, err
		}
		return String(b), nil
	case KindBlob:
		b, err := d.bytes("blob")
		if err != nil {
			return nil, err
		}
		// copy so the result does not alias the input buffer
		blob := make([]byte, len(b))
		copy(blob, b)
		return Blob(blob), nil
	case KindTime:
		b, err := d.bytes("time")
		if err != nil {
			return nil, err
		}
		var t time.Time
		if err := t.UnmarshalBinary(b); err != nil {
			return nil, d.fail("invalid time: %v", err)
		}
		return Time(t), nil
	case KindSeq:
		n, err := d.length("seq")
		if err != nil {
			return nil, err
		}
		// every element needs at least one byte
		if n > len(d.data)-d.pos {
			return nil, d.fail("seq count %d exceeds remaining data", n)
		}
		seq := make(Seq, n)
		for i := 0; i < n; i++ {
			if seq[i], err = d.value(depth + 1); err != nil {
				return nil, err
			}
		}
		return seq, nil
	case KindMap:
		n, err := d.length("map")
		if err != nil {
			return nil, err
		}
		// every entry needs at least a key length and a kind byte
		if n > (len(d.data)-d.pos)/5 {
			return nil, d.fail("map count %d exceeds remaining data", n)
		}
		m := make(Map, n)
		for i := 0; i < n; i++ {
			k, err := d.bytes("map key")
			if err != nil {
				return nil, err
			}
			if _, dup := m[string(k)]; dup {
				return nil, d.fail("duplicate map key %q", k)
			}
			if m[string(k)], err = d.value(depth + 1); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return nil, d.fail("unknown kind %d", tag[0])
	}
}
