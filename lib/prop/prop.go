package prop

import (
	"fmt"

	"github.com/ValentinKolb/dPrefs/lib/conv"
	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/ValentinKolb/dPrefs/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var propLogger = logger.GetLogger("prop")

// --------------------------------------------------------------------------
// Prop
// --------------------------------------------------------------------------

// Prop is a typed accessor for one key of a suite.
//
// A Prop never owns the suite it reads from. Many Props may share a suite;
// each one owns exactly one key. A Prop adds no locking: concurrent reads and
// writes of the same key are ordered only by the suite itself.
type Prop[T any] struct {
	key     string
	suite   store.ISuite
	conv    conv.Converter[T]
	def     T
	metrics *propMetrics
}

// New creates an accessor for key with an explicit default.
func New[T any](key string, suite store.ISuite, c conv.Converter[T], def T, opts ...Option) (*Prop[T], error) {
	if key == "" {
		return nil, store.NewError(store.RetCInvalidOperation, "key must not be empty")
	}
	if suite == nil {
		return nil, store.NewError(store.RetCInvalidOperation, "suite must not be nil")
	}
	if c == nil {
		return nil, store.NewError(store.RetCInvalidOperation, "converter must not be nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Prop[T]{
		key:     key,
		suite:   suite,
		conv:    c,
		def:     def,
		metrics: newPropMetrics(suite.Name()),
	}

	if o.eagerDefault {
		if err := p.writeDefaultIfAbsent(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewDefault creates an accessor whose default comes from the converter.
func NewDefault[T any](key string, suite store.ISuite, c conv.DefaultConverter[T], opts ...Option) (*Prop[T], error) {
	if c == nil {
		return nil, store.NewError(store.RetCInvalidOperation, "converter must not be nil")
	}
	return New[T](key, suite, c, c.Default(), opts...)
}

// writeDefaultIfAbsent is a read followed by a write with nothing in between
// holding the key.
func (p *Prop[T]) writeDefaultIfAbsent() error {
	ok, err := p.suite.Has(p.key)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	propLogger.Debugf("writing default of %q to suite %q", p.key, p.suite.Name())
	return p.Set(p.def)
}

// --------------------------------------------------------------------------
// Interface Methods
// --------------------------------------------------------------------------

// Key returns the key the accessor is bound to.
func (p *Prop[T]) Key() string {
	return p.key
}

// Default returns the value Get returns while the key is absent.
func (p *Prop[T]) Default() T {
	return p.def
}

// Get returns the stored value, or the default if the key is absent.
// A stored value that does not convert is an error; the default is never
// substituted for it.
func (p *Prop[T]) Get() (T, error) {
	raw, ok, err := p.suite.Get(p.key)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		p.metrics.defaultReads.Inc()
		return p.def, nil
	}

	p.metrics.reads.Inc()
	v, err := p.conv.FromNative(raw)
	if err != nil {
		p.metrics.conversionErrors.Inc()
		propLogger.Debugf("cannot read %q from suite %q: %v", p.key, p.suite.Name(), err)
		var zero T
		return zero, fmt.Errorf("read %q: %w", p.key, err)
	}
	return v, nil
}

// MustGet is like Get but panics on error.
func (p *Prop[T]) MustGet() T {
	v, err := p.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Set converts v and writes it to the suite. If the conversion fails the
// suite is not touched. A value that converts to native.Null deletes the key.
func (p *Prop[T]) Set(v T) error {
	raw, err := p.conv.ToNative(v)
	if err != nil {
		p.metrics.conversionErrors.Inc()
		propLogger.Debugf("cannot write %q to suite %q: %v", p.key, p.suite.Name(), err)
		return fmt.Errorf("write %q: %w", p.key, err)
	}

	if native.IsNull(raw) {
		return p.Reset()
	}

	if err := p.suite.Set(p.key, raw); err != nil {
		return err
	}
	p.metrics.writes.Inc()
	return nil
}

// Reset deletes the key, so that Get returns the default again.
func (p *Prop[T]) Reset() error {
	if err := p.suite.Delete(p.key); err != nil {
		return err
	}
	p.metrics.deletes.Inc()
	return nil
}

// IsSet reports whether the suite holds a value for the key.
func (p *Prop[T]) IsSet() (bool, error) {
	return p.suite.Has(p.key)
}
