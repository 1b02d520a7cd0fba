package conv

import (
	"testing"
	"time"

	"github.com/ValentinKolb/dPrefs/lib/codec"
	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Firstname string
	Lastname  string
	Birthdate time.Time
	Address   string
	Avatar    []byte
	Nicknames []string
}

func artur() user {
	return user{
		Firstname: "Artur",
		Lastname:  "Fleck",
		Birthdate: time.Unix(-729345600, 0).UTC(),
		Address:   "Arkham Asylum, Gotham County, New Jersey, United States of America",
		Avatar:    []byte{0x89, 'P', 'N', 'G', 0},
		Nicknames: []string{"Joker"},
	}
}

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() codec.ICodec{
	"GOB":  codec.NewGOBCodec,
	"JSON": codec.NewJSONCodec,
	"YAML": codec.NewYAMLCodec,
}

func TestStructuredIntegrity(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := Structured[user](factory())

			n, err := c.ToNative(artur())
			require.NoError(t, err)
			assert.Equal(t, native.KindBlob, native.KindOf(n))

			result, err := c.FromNative(n)
			require.NoError(t, err)

			expected := artur()
			assert.True(t, expected.Birthdate.Equal(result.Birthdate))
			expected.Birthdate, result.Birthdate = time.Time{}, time.Time{}
			assert.Equal(t, expected, result)
		})
	}
}

func TestStructuredInContainer(t *testing.T) {
	c := Seq(Gob[user]())
	users := []user{artur(), {Firstname: "Sophie", Birthdate: time.Unix(0, 0).UTC()}}

	result := roundTrip(t, c, users)
	require.Len(t, result, 2)
	assert.Equal(t, "Artur", result[0].Firstname)
	assert.Equal(t, artur().Avatar, result[0].Avatar)
	assert.Equal(t, "Sophie", result[1].Firstname)
}

func TestStructuredDecodeError(t *testing.T) {
	c := Gob[user]()

	_, err := c.FromNative(native.Blob("not a gob stream"))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))

	// written by an incompatible schema
	type other struct{ Score float64 }
	data, err := Gob[other]().ToNative(other{Score: 1})
	require.NoError(t, err)
	_, err = c.FromNative(data)
	assert.True(t, IsDecodeError(err), "got %v", err)

	// not a blob at all
	_, err = c.FromNative(native.String("Artur"))
	assert.True(t, IsShapeMismatch(err))
	assert.False(t, IsDecodeError(err))
}

func TestStructuredEncodeError(t *testing.T) {
	c := Structured[chan int](codec.NewJSONCodec())
	n, err := c.ToNative(make(chan int))
	require.Error(t, err)
	assert.Nil(t, n)
	assert.True(t, IsEncodeError(err))
}
