package conv

import (
	"fmt"
	"slices"

	"github.com/ValentinKolb/dPrefs/lib/native"
)

// --------------------------------------------------------------------------
// Optional
// --------------------------------------------------------------------------

// Optional lifts elem to *T. A nil pointer converts to native.Null, which a
// suite treats as "delete the key"; native.Null converts back to nil.
// The default is nil.
//
// Nesting Optional inside Optional collapses: a non-nil outer pointer to a nil
// inner pointer is stored as Null and reads back as a nil outer pointer.
func Optional[T any](elem Converter[T]) OptionalConverter[T] {
	return OptionalConverter[T]{elem: elem}
}

// OptionalConverter converts *T, see Optional.
type OptionalConverter[T any] struct {
	elem Converter[T]
}

func (c OptionalConverter[T]) ToNative(v *T) (native.Value, error) {
	if v == nil {
		return native.Null{}, nil
	}
	return c.elem.ToNative(*v)
}

func (c OptionalConverter[T]) FromNative(v native.Value) (*T, error) {
	if native.IsNull(v) {
		return nil, nil
	}
	x, err := c.elem.FromNative(v)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

func (c OptionalConverter[T]) Default() *T { return nil }

// --------------------------------------------------------------------------
// Sequence
// --------------------------------------------------------------------------

// Seq lifts elem to []T, stored as a native.Seq with order preserved.
// Conversion stops at the first failing element and returns an
// ElementConversion error naming its index. The default is an empty slice.
func Seq[T any](elem Converter[T]) SeqConverter[T] {
	return SeqConverter[T]{elem: elem}
}

// SeqConverter converts []T, see Seq.
type SeqConverter[T any] struct {
	elem Converter[T]
}

func (c SeqConverter[T]) ToNative(v []T) (native.Value, error) {
	out := make(native.Seq, len(v))
	for i, e := range v {
		n, err := c.elem.ToNative(e)
		if err != nil {
			return nil, newElementError(fmt.Sprintf("[%d]", i), err)
		}
		out[i] = n
	}
	return out, nil
}

func (c SeqConverter[T]) FromNative(v native.Value) ([]T, error) {
	seq, ok := v.(native.Seq)
	if !ok {
		return nil, newShapeMismatch(native.KindSeq, v)
	}
	out := make([]T, len(seq))
	for i, e := range seq {
		x, err := c.elem.FromNative(e)
		if err != nil {
			return nil, newElementError(fmt.Sprintf("[%d]", i), err)
		}
		out[i] = x
	}
	return out, nil
}

func (c SeqConverter[T]) Default() []T { return []T{} }

// --------------------------------------------------------------------------
// Mapping
// --------------------------------------------------------------------------

// Map lifts elem to map[string]T, stored as a native.Map. Conversion stops at
// the first failing entry (in key order, so the reported key is stable) and
// returns an ElementConversion error naming its key. The default is an empty map.
func Map[T any](elem Converter[T]) MapConverter[T] {
	return MapConverter[T]{elem: elem}
}

// MapConverter converts map[string]T, see Map.
type MapConverter[T any] struct {
	elem Converter[T]
}

func (c MapConverter[T]) ToNative(v map[string]T) (native.Value, error) {
	out := make(native.Map, len(v))
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		n, err := c.elem.ToNative(v[k])
		if err != nil {
			return nil, newElementError(fmt.Sprintf("[%q]", k), err)
		}
		out[k] = n
	}
	return out, nil
}

func (c MapConverter[T]) FromNative(v native.Value) (map[string]T, error) {
	m, ok := v.(native.Map)
	if !ok {
		return nil, newShapeMismatch(native.KindMap, v)
	}
	out := make(map[string]T, len(m))
	for _, k := range m.SortedKeys() {
		x, err := c.elem.FromNative(m[k])
		if err != nil {
			return nil, newElementError(fmt.Sprintf("[%q]", k), err)
		}
		out[k] = x
	}
	return out, nil
}

func (c MapConverter[T]) Default() map[string]T { return map[string]T{} }
