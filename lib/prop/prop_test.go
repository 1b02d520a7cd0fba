package prop

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dPrefs/lib/codec"
	"github.com/ValentinKolb/dPrefs/lib/conv"
	"github.com/ValentinKolb/dPrefs/lib/db"
	"github.com/ValentinKolb/dPrefs/lib/db/engines/maple"
	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/ValentinKolb/dPrefs/lib/store"
	"github.com/ValentinKolb/dPrefs/lib/store/lstore"
	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Test helpers
// --------------------------------------------------------------------------

// countingSuite records how often the suite was written to
type countingSuite struct {
	store.ISuite
	sets    atomic.Int64
	deletes atomic.Int64
}

func (s *countingSuite) Set(key string, value native.Value) error {
	s.sets.Add(1)
	return s.ISuite.Set(key, value)
}

func (s *countingSuite) Delete(key string) error {
	s.deletes.Add(1)
	return s.ISuite.Delete(key)
}

func (s *countingSuite) writes() int64 {
	return s.sets.Load() + s.deletes.Load()
}

var suiteCounter atomic.Int64

// newSuite returns an empty in-memory suite with a unique name, so that
// metrics of different tests do not mix
func newSuite(t *testing.T) *countingSuite {
	t.Helper()
	name := fmt.Sprintf("test-%d", suiteCounter.Add(1))
	s := &countingSuite{ISuite: lstore.NewLocalSuite(name, func() db.KVDB { return maple.NewMapleDB(nil) })}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func counterValue(name, suite string) uint64 {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`%s{suite=%q}`, name, suite)).Get()
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestCountScenario(t *testing.T) {
	s := newSuite(t)

	count, err := New("count", s, conv.Int, 451)
	require.NoError(t, err)
	assert.Equal(t, "count", count.Key())
	assert.Equal(t, 451, count.Default())

	v, err := count.Get()
	require.NoError(t, err)
	assert.Equal(t, 451, v)
	assert.Zero(t, s.writes(), "reading the default must not write")

	require.NoError(t, count.Set(7))
	raw, ok, err := s.Get("count")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, native.Int(7), raw)

	assert.Equal(t, 7, count.MustGet())
}

func TestOptionalNoteScenario(t *testing.T) {
	s := newSuite(t)

	note, err := NewDefault("note", s, conv.Optional(conv.String))
	require.NoError(t, err)
	assert.Nil(t, note.Default())

	hi := "hi"
	require.NoError(t, note.Set(&hi))
	raw, ok, err := s.Get("note")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, native.String("hi"), raw)

	require.NoError(t, note.Set(nil))
	ok, err = s.Has("note")
	require.NoError(t, err)
	assert.False(t, ok, "writing absent must remove the key")

	v, err := note.Get()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDerivedDefaults(t *testing.T) {
	s := newSuite(t)

	b, err := NewDefault("bool", s, conv.Bool)
	require.NoError(t, err)
	assert.False(t, b.MustGet())

	str, err := NewDefault("string", s, conv.String)
	require.NoError(t, err)
	assert.Equal(t, "", str.MustGet())

	arr, err := NewDefault("array", s, conv.Seq(conv.Int))
	require.NoError(t, err)
	assert.NotNil(t, arr.MustGet())
	assert.Empty(t, arr.MustGet())

	dict, err := NewDefault("dict", s, conv.Map(conv.Seq(conv.String)))
	require.NoError(t, err)
	assert.NotNil(t, dict.MustGet())
	assert.Empty(t, dict.MustGet())

	date := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	d, err := NewDefault("date", s, conv.WithDefault(conv.Time, date))
	require.NoError(t, err)
	assert.True(t, date.Equal(d.MustGet()))

	assert.Zero(t, s.writes())
}

func TestEagerDefault(t *testing.T) {
	s := newSuite(t)

	p, err := New("eager", s, conv.String, "initial", WithEagerDefault())
	require.NoError(t, err)

	raw, ok, err := s.Get("eager")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, native.String("initial"), raw)

	set, err := p.IsSet()
	require.NoError(t, err)
	assert.True(t, set)

	// a present value is left alone
	require.NoError(t, p.Set("changed"))
	writes := s.writes()
	_, err = New("eager", s, conv.String, "initial", WithEagerDefault())
	require.NoError(t, err)
	assert.Equal(t, writes, s.writes())
	assert.Equal(t, "changed", p.MustGet())

	// an absent optional default is not stored as a value
	opt, err := NewDefault("eagerOpt", s, conv.Optional(conv.Int), WithEagerDefault())
	require.NoError(t, err)
	set, err = opt.IsSet()
	require.NoError(t, err)
	assert.False(t, set)
}

func TestLazyDefaultDoesNotWrite(t *testing.T) {
	s := newSuite(t)

	p, err := New("lazy", s, conv.Float64, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, p.MustGet())

	set, err := p.IsSet()
	require.NoError(t, err)
	assert.False(t, set)
	assert.Zero(t, s.writes())
}

func TestReset(t *testing.T) {
	s := newSuite(t)

	p, err := New("float", s, conv.Float32, float32(2.5))
	require.NoError(t, err)

	require.NoError(t, p.Set(9.25))
	assert.Equal(t, float32(9.25), p.MustGet())

	require.NoError(t, p.Reset())
	assert.Equal(t, float32(2.5), p.MustGet())

	// resetting an absent key is fine
	require.NoError(t, p.Reset())
}

func TestShapeMismatchIsHardError(t *testing.T) {
	s := newSuite(t)
	require.NoError(t, s.Set("count", native.String("not a number")))

	p, err := New("count", s, conv.Int, 451)
	require.NoError(t, err)

	v, err := p.Get()
	require.Error(t, err)
	assert.True(t, conv.IsShapeMismatch(err))
	assert.Contains(t, err.Error(), `"count"`)
	assert.Zero(t, v, "the default must not be substituted")
	assert.Panics(t, func() { p.MustGet() })
}

func TestFailedConversionLeavesSuiteUntouched(t *testing.T) {
	s := newSuite(t)

	// json cannot encode NaN, so the second element fails
	type record struct{ Score float64 }
	p, err := NewDefault("records", s, conv.Seq(conv.Structured[record](codec.NewJSONCodec())))
	require.NoError(t, err)
	require.NoError(t, p.Set([]record{{Score: 1}}))
	writes := s.writes()

	err = p.Set([]record{{Score: 2}, {Score: math.NaN()}})
	require.Error(t, err)
	assert.True(t, conv.IsElementConversion(err))
	assert.True(t, conv.IsEncodeError(err))
	assert.Equal(t, writes, s.writes(), "the suite must not be called")

	single, err := New("record", s, conv.Structured[record](codec.NewJSONCodec()), record{})
	require.NoError(t, err)
	require.Error(t, single.Set(record{Score: math.Inf(1)}))
	assert.Equal(t, writes, s.writes())

	assert.Equal(t, uint64(2), counterValue("dprefs_prop_conversion_errors_total", s.Name()))

	stored, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, []record{{Score: 1}}, stored)
}

func TestElementFailureOnRead(t *testing.T) {
	s := newSuite(t)
	require.NoError(t, s.Set("array", native.Seq{native.Int(1), native.String("two")}))

	p, err := NewDefault("array", s, conv.Seq(conv.Int))
	require.NoError(t, err)

	_, err = p.Get()
	require.Error(t, err)
	assert.True(t, conv.IsElementConversion(err))
	assert.True(t, conv.IsShapeMismatch(err))
}

func TestConstructionErrors(t *testing.T) {
	s := newSuite(t)

	_, err := New("", s, conv.Int, 1)
	require.Error(t, err)
	assert.True(t, store.IsCode(err, store.RetCInvalidOperation))

	_, err = New[int]("count", nil, conv.Int, 1)
	assert.True(t, store.IsCode(err, store.RetCInvalidOperation))

	_, err = New[int]("count", s, nil, 1)
	assert.True(t, store.IsCode(err, store.RetCInvalidOperation))

	_, err = NewDefault[int]("count", s, nil)
	assert.True(t, store.IsCode(err, store.RetCInvalidOperation))
}

func TestMetrics(t *testing.T) {
	s := newSuite(t)

	p, err := NewDefault("opt", s, conv.Optional(conv.Int))
	require.NoError(t, err)

	_ = p.MustGet()
	seven := 7
	require.NoError(t, p.Set(&seven))
	_ = p.MustGet()
	require.NoError(t, p.Set(nil))

	assert.Equal(t, uint64(1), counterValue("dprefs_prop_default_reads_total", s.Name()))
	assert.Equal(t, uint64(1), counterValue("dprefs_prop_reads_total", s.Name()))
	assert.Equal(t, uint64(1), counterValue("dprefs_prop_writes_total", s.Name()))
	assert.Equal(t, uint64(1), counterValue("dprefs_prop_deletes_total", s.Name()))
	assert.Equal(t, uint64(0), counterValue("dprefs_prop_conversion_errors_total", s.Name()))
}

func TestSharedSuite(t *testing.T) {
	s := newSuite(t)

	a, err := New("shared", s, conv.Int, 0)
	require.NoError(t, err)
	b, err := New("shared", s, conv.Int, 100)
	require.NoError(t, err)

	require.NoError(t, a.Set(5))
	assert.Equal(t, 5, b.MustGet())

	require.NoError(t, b.Reset())
	assert.Equal(t, 0, a.MustGet())
	assert.Equal(t, 100, b.MustGet())
}

func TestConcurrentEagerDefault(t *testing.T) {
	s := newSuite(t)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := New("race", s, conv.Int, i, WithEagerDefault())
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// one of the defaults won, which one is unspecified
	raw, ok, err := s.Get("race")
	require.NoError(t, err)
	require.True(t, ok)
	v, ok := raw.(native.Int)
	require.True(t, ok)
	assert.True(t, v >= 0 && v < n)
}
