package conv

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dPrefs/lib/native"
)

// Variant describes one case of a tagged sum type T.
type Variant[T any] struct {
	// Tag is written in front of the payload. It must not be empty.
	Tag string
	// Match reports whether v belongs to this variant and returns its payload.
	Match func(v T) (payload string, ok bool)
	// Build reconstructs the value from a payload read back from the store.
	Build func(payload string) (T, error)
}

// Tagged builds a converter that stores a sum type as a native.String of the
// form tag+payload.
//
// Tags must be non-empty, unique and prefix-free (no tag is a prefix of
// another), otherwise decoding would be ambiguous; Tagged returns an error for
// such a variant set. On write the first matching variant wins; a value no
// variant matches is an EncodeError. On read an unknown tag or a failing Build
// is a DecodeError.
func Tagged[T any](variants ...Variant[T]) (Converter[T], error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("tagged converter needs at least one variant")
	}
	for i, v := range variants {
		if v.Tag == "" {
			return nil, fmt.Errorf("variant %d has an empty tag", i)
		}
		if v.Match == nil || v.Build == nil {
			return nil, fmt.Errorf("variant %q needs both Match and Build", v.Tag)
		}
		for _, w := range variants[:i] {
			if strings.HasPrefix(v.Tag, w.Tag) || strings.HasPrefix(w.Tag, v.Tag) {
				return nil, fmt.Errorf("tags %q and %q are not prefix-free", w.Tag, v.Tag)
			}
		}
	}
	return taggedConv[T]{variants: variants}, nil
}

// MustTagged is like Tagged but panics on an invalid variant set.
// It is meant for package-level converter declarations.
func MustTagged[T any](variants ...Variant[T]) Converter[T] {
	c, err := Tagged(variants...)
	if err != nil {
		panic(err)
	}
	return c
}

type taggedConv[T any] struct {
	variants []Variant[T]
}

func (c taggedConv[T]) ToNative(v T) (native.Value, error) {
	for _, variant := range c.variants {
		if payload, ok := variant.Match(v); ok {
			return native.String(variant.Tag + payload), nil
		}
	}
	return nil, &Error{Code: ErrCEncode, Msg: fmt.Sprintf("no variant matches %v", v)}
}

func (c taggedConv[T]) FromNative(v native.Value) (T, error) {
	var zero T
	s, ok := v.(native.String)
	if !ok {
		return zero, newShapeMismatch(native.KindString, v)
	}
	for _, variant := range c.variants {
		payload, found := strings.CutPrefix(string(s), variant.Tag)
		if !found {
			continue
		}
		result, err := variant.Build(payload)
		if err != nil {
			return zero, &Error{Code: ErrCDecode, Msg: fmt.Sprintf("variant %q", variant.Tag), Err: err}
		}
		return result, nil
	}
	return zero, &Error{Code: ErrCDecode, Msg: fmt.Sprintf("unknown tag in %q", string(s))}
}
