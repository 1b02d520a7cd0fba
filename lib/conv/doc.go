// Package conv defines how Go values are translated to and from the native
// values a preference suite can hold.
//
// Key Components:
//
//   - Converter: the two-way translation between a Go type T and native.Value.
//     Every binding in this package is stateless and safe for concurrent use.
//
//   - DefaultConverter: a Converter that also knows the canonical default of T.
//     Primitives, Optional, Seq and Map are DefaultConverters. Bytes, Time and
//     structured records are not; use WithDefault or pass an explicit default
//     to the accessor.
//
//   - Containers: Optional, Seq and Map compose with any Converter and nest
//     without limit, e.g. Seq(Map(Optional(Int))). Conversion of a container is
//     all-or-nothing: the first failing element aborts the call and the error
//     names the element path, e.g. [1]["a"][0].
//
//   - Structured: stores an entire record as one blob using a codec.ICodec
//     (gob, json or yaml). Gob is the shorthand for the gob codec.
//
//   - Tagged: stores a sum type as a prefix-free tag followed by a payload,
//     e.g. "A:3" or "S:" for a two-variant type.
//
// Errors:
//
//	All failures are *Error values with one of the codes ErrCShapeMismatch,
//	ErrCDecode, ErrCEncode or ErrCElementConversion. Element errors wrap the
//	element's own error, so IsShapeMismatch and the other helpers also match
//	failures deep inside a container.
//
// Conversion is strict: an Int is never read as a float and vice versa.
package conv
