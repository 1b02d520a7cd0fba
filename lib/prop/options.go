package prop

// Option configures a Prop at construction.
type Option func(*options)

type options struct {
	eagerDefault bool
}

// WithEagerDefault writes the default through to the suite when the key is
// absent at construction time. Two accessors constructed concurrently for the
// same absent key may both write; the last write wins.
func WithEagerDefault() Option {
	return func(o *options) {
		o.eagerDefault = true
	}
}
