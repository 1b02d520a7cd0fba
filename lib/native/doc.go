// Package native defines the closed set of value shapes a backing store can
// hold directly, together with the binary codec used by byte-level stores.
//
// The package focuses on:
//   - A sealed Value interface: only Null, Bool, Int, Float64, Float32, String,
//     Blob, Time, Seq and Map implement it, so every conversion can switch on
//     the concrete type instead of performing unchecked casts
//   - Structural equality (Equal) that is exact for floats and timestamps
//   - A compact, length-prefixed binary encoding (Marshal / Unmarshal)
//
// Null is the distinguished "no value" marker. Writing a top-level Null to a
// store deletes the key; inside a Seq or Map it is an ordinary element (for
// example a sequence of optional values).
//
// Binary Layout:
//
//	version byte | kind byte | payload
//
// Numbers are big endian and fixed width, strings, blobs and timestamps carry
// a uint32 length prefix, containers a uint32 element count. Map keys are
// written in sorted order, so equal maps always encode to equal bytes. The
// layout is stable within one deployment but is not meant as a portable
// exchange format.
//
// Thread Safety:
//
//	Values are plain Go data. Seq, Map and Blob are reference types and must
//	not be mutated while another goroutine reads them. Marshal and Unmarshal
//	are stateless and safe for concurrent use.
package native
