package conv

import "github.com/ValentinKolb/dPrefs/lib/native"

// Converter translates between a Go type T and the native values a suite stores.
//
// FromNative(ToNative(v)) must yield a value equal to v. Implementations must be
// safe for concurrent use; every converter in this package is stateless.
type Converter[T any] interface {
	// ToNative converts v into its stored representation.
	ToNative(v T) (native.Value, error)
	// FromNative converts a stored value back into T.
	FromNative(v native.Value) (T, error)
}

// Defaulter supplies the canonical default value of a type.
type Defaulter[T any] interface {
	Default() T
}

// DefaultConverter is a Converter that also supplies a canonical default.
// Accessors built with prop.NewDefault require this, so a type without a
// canonical default cannot be used there without an explicit default.
type DefaultConverter[T any] interface {
	Converter[T]
	Defaulter[T]
}

// Defaulted pairs a converter with an explicit default value, see WithDefault.
type Defaulted[T any] struct {
	Converter[T]
	def T
}

// Default returns the attached default.
func (d Defaulted[T]) Default() T { return d.def }

// WithDefault attaches def as the canonical default of c. This lets types such
// as time.Time or structured records be used where a DefaultConverter is
// expected, e.g. as elements of Optional or in prop.NewDefault.
func WithDefault[T any](c Converter[T], def T) Defaulted[T] {
	return Defaulted[T]{Converter: c, def: def}
}
