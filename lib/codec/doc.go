// Package codec provides the structured encoders behind the
// structured-encoding fallback of the conv package. It defines a common
// interface and multiple implementations that turn an arbitrary Go value
// into an opaque blob and back.
//
// Key Components:
//
//   - ICodec: Core interface that all codec implementations must satisfy.
//
//   - gobCodecImpl: Go's gob encoding. Self-describing and exact for Go types
//     (including time.Time and []byte), recommended default.
//
//   - jsonCodecImpl: JSON encoding. Human-readable, rejects unknown fields on
//     decode to surface schema mismatches.
//
//   - yamlCodecImpl: YAML encoding (gopkg.in/yaml.v3). Human-readable, rejects
//     unknown fields on decode.
//
// Thread Safety:
//
//	All codec implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	c := codec.NewGOBCodec()
//	data, err := c.Encode(user)
//	// ... store data ...
//	var restored User
//	err = c.Decode(data, &restored)
package codec
