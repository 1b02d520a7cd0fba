package conv

import (
	"fmt"

	"github.com/ValentinKolb/dPrefs/lib/codec"
	"github.com/ValentinKolb/dPrefs/lib/native"
)

// Structured stores a whole value of T as a single native.Blob produced by c.
// It is the fallback for records that have no field-by-field binding.
//
// FromNative requires a Blob; a codec failure (corrupt data or a blob written
// for an incompatible type) is a DecodeError.
func Structured[T any](c codec.ICodec) StructuredConverter[T] {
	return StructuredConverter[T]{codec: c}
}

// Gob is Structured with the self-describing gob codec.
func Gob[T any]() StructuredConverter[T] {
	return Structured[T](codec.NewGOBCodec())
}

// StructuredConverter converts T through a codec, see Structured.
type StructuredConverter[T any] struct {
	codec codec.ICodec
}

func (c StructuredConverter[T]) ToNative(v T) (native.Value, error) {
	data, err := c.codec.Encode(v)
	if err != nil {
		return nil, &Error{
			Code: ErrCEncode,
			Msg:  fmt.Sprintf("%s encode %T", c.codec.Name(), v),
			Err:  err,
		}
	}
	return native.Blob(data), nil
}

func (c StructuredConverter[T]) FromNative(v native.Value) (T, error) {
	var result T
	blob, ok := v.(native.Blob)
	if !ok {
		return result, newShapeMismatch(native.KindBlob, v)
	}
	if err := c.codec.Decode(blob, &result); err != nil {
		var zero T
		return zero, &Error{
			Code: ErrCDecode,
			Msg:  fmt.Sprintf("%s decode %T", c.codec.Name(), result),
			Err:  err,
		}
	}
	return result, nil
}
