package conv

import (
	"math"
	"testing"
	"time"

	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip converts v to native and back and fails the test on any error
func roundTrip[T any](t *testing.T, c Converter[T], v T) T {
	t.Helper()
	n, err := c.ToNative(v)
	require.NoError(t, err)
	result, err := c.FromNative(n)
	require.NoError(t, err)
	return result
}

func TestPrimitiveRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		assert.Equal(t, v, roundTrip(t, Bool, v))
	}
	for _, v := range []int{0, 1, -1, 451, math.MaxInt, math.MinInt} {
		assert.Equal(t, v, roundTrip(t, Int, v))
	}
	for _, v := range []int64{0, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, v, roundTrip(t, Int64, v))
	}
	for _, v := range []float64{0, -0.5, math.Pi, math.MaxFloat64, math.Inf(-1)} {
		assert.Equal(t, v, roundTrip(t, Float64, v))
	}
	for _, v := range []float32{0, 1.25, math.MaxFloat32} {
		assert.Equal(t, v, roundTrip(t, Float32, v))
	}
	for _, v := range []string{"", "hi", "Hearts of Three", "ünïcödé"} {
		assert.Equal(t, v, roundTrip(t, String, v))
	}
	for _, v := range [][]byte{{}, {0}, {1, 2, 3, 255}} {
		assert.Equal(t, v, roundTrip(t, Bytes, v))
	}

	ts := time.Date(1946, 11, 20, 8, 0, 0, 42, time.UTC)
	assert.True(t, ts.Equal(roundTrip(t, Time, ts)))

	nan := roundTrip(t, Float64, math.NaN())
	assert.True(t, math.IsNaN(nan))
}

func TestPrimitiveNativeShape(t *testing.T) {
	tests := []struct {
		name     string
		toNative func() (native.Value, error)
		expected native.Value
	}{
		{"bool", func() (native.Value, error) { return Bool.ToNative(true) }, native.Bool(true)},
		{"int", func() (native.Value, error) { return Int.ToNative(7) }, native.Int(7)},
		{"int64", func() (native.Value, error) { return Int64.ToNative(7) }, native.Int(7)},
		{"float64", func() (native.Value, error) { return Float64.ToNative(0.5) }, native.Float64(0.5)},
		{"float32", func() (native.Value, error) { return Float32.ToNative(0.5) }, native.Float32(0.5)},
		{"string", func() (native.Value, error) { return String.ToNative("hi") }, native.String("hi")},
		{"bytes", func() (native.Value, error) { return Bytes.ToNative([]byte{1}) }, native.Blob{1}},
		{"nil bytes", func() (native.Value, error) { return Bytes.ToNative(nil) }, native.Blob{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := tc.toNative()
			require.NoError(t, err)
			assert.True(t, native.Equal(tc.expected, result), "expected %s, got %s", native.Format(tc.expected), native.Format(result))
		})
	}
}

func TestShapeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		fromNative func() error
	}{
		{"int from float", func() error { _, err := Int.FromNative(native.Float64(1)); return err }},
		{"float from int", func() error { _, err := Float64.FromNative(native.Int(1)); return err }},
		{"float32 from float64", func() error { _, err := Float32.FromNative(native.Float64(1)); return err }},
		{"bool from string", func() error { _, err := Bool.FromNative(native.String("true")); return err }},
		{"string from blob", func() error { _, err := String.FromNative(native.Blob("x")); return err }},
		{"bytes from string", func() error { _, err := Bytes.FromNative(native.String("x")); return err }},
		{"time from int", func() error { _, err := Time.FromNative(native.Int(0)); return err }},
		{"seq from map", func() error { _, err := Seq(Int).FromNative(native.Map{}); return err }},
		{"map from seq", func() error { _, err := Map(Int).FromNative(native.Seq{}); return err }},
		{"int from null", func() error { _, err := Int.FromNative(native.Null{}); return err }},
		{"int from nil", func() error { _, err := Int.FromNative(nil); return err }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fromNative()
			require.Error(t, err)
			assert.True(t, IsShapeMismatch(err), "expected shape mismatch, got %v", err)
			assert.False(t, IsElementConversion(err))
		})
	}
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, false, Bool.Default())
	assert.Equal(t, 0, Int.Default())
	assert.Equal(t, int64(0), Int64.Default())
	assert.Equal(t, float64(0), Float64.Default())
	assert.Equal(t, float32(0), Float32.Default())
	assert.Equal(t, "", String.Default())
	assert.True(t, native.IsNull(Native.Default()))

	// optional is absent regardless of the element default
	assert.Nil(t, Optional(WithDefault(Int, 451)).Default())

	seq := Seq(Int).Default()
	assert.NotNil(t, seq)
	assert.Empty(t, seq)

	m := Map(String).Default()
	assert.NotNil(t, m)
	assert.Empty(t, m)

	far := time.Date(4001, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, far, WithDefault(Time, far).Default())
}

func TestOptional(t *testing.T) {
	c := Optional(String)

	n, err := c.ToNative(nil)
	require.NoError(t, err)
	assert.True(t, native.IsNull(n))

	result, err := c.FromNative(native.Null{})
	require.NoError(t, err)
	assert.Nil(t, result)

	hi := "hi"
	n, err = c.ToNative(&hi)
	require.NoError(t, err)
	assert.Equal(t, native.String("hi"), n)

	result, err = c.FromNative(n)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "hi", *result)

	_, err = c.FromNative(native.Int(1))
	assert.True(t, IsShapeMismatch(err))
}

func TestOptionalOfOptionalCollapses(t *testing.T) {
	c := Optional(Optional(Int))

	var inner *int
	n, err := c.ToNative(&inner)
	require.NoError(t, err)
	assert.True(t, native.IsNull(n))

	result, err := c.FromNative(n)
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = c.FromNative(native.Int(3))
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, *result)
	assert.Equal(t, 3, **result)
}

func TestContainerRoundTrip(t *testing.T) {
	t.Run("seq of seq", func(t *testing.T) {
		v := [][]int{{1}, {2, 3}, {}}
		assert.Equal(t, v, roundTrip(t, Seq(Seq(Int)), v))
	})

	t.Run("map of seq", func(t *testing.T) {
		v := map[string][]string{"a": {"x", "y"}, "b": {}}
		assert.Equal(t, v, roundTrip(t, Map(Seq(String)), v))
	})

	t.Run("optional of seq of map of int", func(t *testing.T) {
		c := Optional(Seq(Map(Int)))
		v := []map[string]int{{"a": 1, "b": 2}, {}, {"c": -3}}
		result := roundTrip(t, c, &v)
		require.NotNil(t, result)
		assert.Equal(t, v, *result)

		assert.Nil(t, roundTrip(t, c, nil))
	})

	t.Run("seq of map of optional", func(t *testing.T) {
		one := 1
		v := []map[string]*int{{"set": &one, "unset": nil}}
		result := roundTrip(t, Seq(Map(Optional(Int))), v)
		require.Len(t, result, 1)
		require.NotNil(t, result[0]["set"])
		assert.Equal(t, 1, *result[0]["set"])
		assert.Contains(t, result[0], "unset")
		assert.Nil(t, result[0]["unset"])
	})

	t.Run("native shape", func(t *testing.T) {
		n, err := Seq(Seq(Int)).ToNative([][]int{{1}, {2, 3}})
		require.NoError(t, err)
		expected := native.Seq{native.Seq{native.Int(1)}, native.Seq{native.Int(2), native.Int(3)}}
		assert.True(t, native.Equal(expected, n), "got %s", native.Format(n))
	})

	t.Run("nil slice stores empty seq", func(t *testing.T) {
		n, err := Seq(Int).ToNative(nil)
		require.NoError(t, err)
		assert.True(t, native.Equal(native.Seq{}, n))
	})
}

func TestElementConversionFailFast(t *testing.T) {
	t.Run("seq", func(t *testing.T) {
		raw := native.Seq{native.Int(1), native.String("two"), native.Float64(3)}
		result, err := Seq(Int).FromNative(raw)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsElementConversion(err))
		assert.True(t, IsShapeMismatch(err))

		var convErr *Error
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, ErrCElementConversion, convErr.Code)
		assert.Equal(t, "[1]", convErr.Path)
	})

	t.Run("map", func(t *testing.T) {
		raw := native.Map{"a": native.Int(1), "b": native.Bool(true), "c": native.Bool(false)}
		result, err := Map(Int).FromNative(raw)
		require.Error(t, err)
		assert.Nil(t, result)

		var convErr *Error
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, `["b"]`, convErr.Path)
	})

	t.Run("nested path", func(t *testing.T) {
		raw := native.Seq{
			native.Map{},
			native.Map{"a": native.Seq{native.String("bad")}},
		}
		_, err := Seq(Map(Seq(Int))).FromNative(raw)
		require.Error(t, err)

		var convErr *Error
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, `[1]["a"][0]`, convErr.Path)
		assert.True(t, IsShapeMismatch(err))
		assert.Contains(t, err.Error(), `[1]["a"][0]`)
	})

	t.Run("to native", func(t *testing.T) {
		c := Seq(MustTagged(Variant[int]{
			Tag:   "p",
			Match: func(v int) (string, bool) { return "", v > 0 },
			Build: func(string) (int, error) { return 1, nil },
		}))
		n, err := c.ToNative([]int{1, 2, -3, 4})
		require.Error(t, err)
		assert.Nil(t, n)
		assert.True(t, IsElementConversion(err))
		assert.True(t, IsEncodeError(err))

		var convErr *Error
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "[2]", convErr.Path)
	})
}

func TestNativePassThrough(t *testing.T) {
	v := native.Map{"a": native.Seq{native.Int(1)}}
	assert.True(t, native.Equal(v, roundTrip[native.Value](t, Native, v)))

	n, err := Native.ToNative(nil)
	require.NoError(t, err)
	assert.True(t, native.IsNull(n))
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: ErrCDecode, Msg: "gob decode", Err: assert.AnError}
	assert.Equal(t, "DecodeError: gob decode: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "Unknown", ErrCode(0).String())
}
