package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"one", Float(1), `"f:3ff0000000000000"`},
		{"negative zero", Float(math.Copysign(0, -1)), `"f:8000000000000000"`},
		{"plain float64", 0.5, `"f:3fe0000000000000"`},
		{"float slice", []float64{1, 2}, `["f:3ff0000000000000","f:4000000000000000"]`},
		{"no html escaping", String("a<b>&c"), `"a<b>&c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"tibia": Int(1),
		"coxa":  Int(2),
		"femur": Object{"z": Int(1), "a": Int(2)},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"coxa":2,"femur":{"a":2,"z":1},"tibia":1}`, string(result))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates D83D DE00, which sort before U+FF61
	// in UTF-16 even though its UTF-8 bytes sort after.
	obj := Object{"\uff61": Int(1), "\U0001F600": Int(2)}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uff61\":1}", string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "e\u0301"
	composed := "\u00e9"

	a, err := MarshalCanonical(String(decomposed))
	require.NoError(t, err)
	b, err := MarshalCanonical(String(composed))
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by the text u2028 stays escaped.
	result, err = MarshalCanonical(String(`x\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(result))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": nil})
	assert.Error(t, err)

	_, err = MarshalCanonical(struct{}{})
	assert.Error(t, err)

	_, err = MarshalCanonical(float32(1))
	assert.Error(t, err)
}

func TestFloatStringRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -109.88031063521657, math.Pi, math.SmallestNonzeroFloat64, math.Inf(1)} {
		got, err := ParseFloatString(FloatString(f))
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(f), math.Float64bits(got))
	}

	_, err := ParseFloatString("3.14")
	assert.Error(t, err)
}

func TestFloatDistinguishesNearbyValues(t *testing.T) {
	x, y := 0.1, 0.2
	a := x + y
	b := 0.3
	require.NotEqual(t, math.Float64bits(a), math.Float64bits(b))

	ca, err := MarshalCanonical(a)
	require.NoError(t, err)
	cb, err := MarshalCanonical(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cb)
}
