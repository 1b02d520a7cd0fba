// Package prop provides Prop, a typed accessor for a single key of a suite.
//
// A Prop binds three things: a key, a suite (store.ISuite) and a default. On
// every read it asks the suite for the native value of its key and converts it
// with a conv.Converter; on every write it converts the new value and hands it
// to the suite.
//
// State machine of a key, seen through a Prop:
//
//   - absent: Get returns the default and writes nothing.
//   - present: Get converts the stored value. A value of the wrong shape or a
//     blob that does not decode is returned as an error, never replaced by
//     the default.
//   - Set(v): v is converted first. If the conversion fails the suite is left
//     untouched. If v converts to native.Null (an absent optional) the key is
//     deleted, otherwise it is overwritten.
//   - Reset: the key is deleted.
//
// Defaults are either explicit (New) or taken from the converter (NewDefault).
// NewDefault only accepts a conv.DefaultConverter, so a type without a
// canonical default cannot be bound without giving one:
//
//	count, _ := prop.New("count", suite, conv.Int, 451)
//	note, _ := prop.NewDefault("note", suite, conv.Optional(conv.String))
//
// WithEagerDefault writes the default through at construction time when the key
// is absent. This is a check-then-write without locking: two accessors
// constructed at the same time for the same key may both write their default.
//
// Every Prop counts its reads, default reads, writes, deletes and conversion
// errors in VictoriaMetrics counters labelled with the suite name, e.g.
// dprefs_prop_reads_total{suite="standard"}.
package prop
