package codec

// ICodec is the interface for all structured encoders used by the
// structured-encoding fallback. An implementation must be able to decode
// everything it encodes into a value of the same Go type.
type ICodec interface {
	// Name returns a short identifier of the format (e.g. "gob")
	Name() string
	// Encode serializes v into a byte array
	// It returns the serialized byte array and an error if any
	Encode(v any) ([]byte, error)
	// Decode deserializes a byte array into v
	// v must be a non-nil pointer
	// It returns an error if the data is malformed or does not fit v
	Decode(b []byte, v any) error
}
