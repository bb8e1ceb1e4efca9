package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONRoundTrip(t *testing.T) {
	c := JSON()
	in := sample{Name: "a", Count: 2}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestJSONClassification(t *testing.T) {
	c := JSON()

	var n int
	err := c.Unmarshal([]byte(`"not a number"`), &n)
	assert.ErrorIs(t, err, ErrMismatch, "well-formed JSON of the wrong type")

	err = c.Unmarshal([]byte(`{"unterminated`), &n)
	assert.ErrorIs(t, err, ErrMalformed, "broken container syntax")

	err = c.Unmarshal(nil, &n)
	assert.ErrorIs(t, err, ErrMalformed, "empty input")
}

func TestCBORRoundTrip(t *testing.T) {
	c := CBOR()
	in := sample{Name: "b", Count: 3}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCBORClassification(t *testing.T) {
	c := CBOR()

	// A CBOR text string decoded into an int is a type mismatch.
	data, err := c.Marshal("text")
	require.NoError(t, err)
	var n int
	assert.ErrorIs(t, c.Unmarshal(data, &n), ErrMismatch)

	// Truncated input is malformed.
	assert.ErrorIs(t, c.Unmarshal([]byte{0x9f}, &n), ErrMalformed)
}

func TestYAMLRoundTrip(t *testing.T) {
	c := YAML()
	in := sample{Name: "c", Count: 4}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestYAMLClassification(t *testing.T) {
	c := YAML()

	var n int
	assert.ErrorIs(t, c.Unmarshal([]byte(`"words"`), &n), ErrMismatch)

	// Parser failures stay unclassified in yaml.v3; they must still error.
	var s sample
	assert.Error(t, c.Unmarshal([]byte(":\t- ["), &s))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "json", JSON().Name())
	assert.Equal(t, "cbor", CBOR().Name())
	assert.Equal(t, "yaml", YAML().Name())
}
