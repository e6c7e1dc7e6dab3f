package ir

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the encodable value types.
type Value interface {
	irValue()
}

// String is a string value.
type String string

func (String) irValue() {}

// Int is an integer value.
type Int int64

func (Int) irValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) irValue() {}

// Float is a float64 value identified by its bit pattern.
type Float float64

func (Float) irValue() {}

// Bits returns the IEEE-754 bit pattern of f.
func (f Float) Bits() uint64 {
	return math.Float64bits(float64(f))
}

// Array is an ordered list of values.
type Array []Value

func (Array) irValue() {}

// Object maps string keys to values.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) irValue() {}

// Floats builds an Array of Float from xs.
func Floats(xs ...float64) Array {
	arr := make(Array, len(xs))
	for i, x := range xs {
		arr[i] = Float(x)
	}
	return arr
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 orders strings by UTF-16 code units.
// Go's native string order is by UTF-8 bytes, which differs above U+FFFF.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// FloatString renders f as it appears in canonical output.
func FloatString(f float64) string {
	return fmt.Sprintf("f:%016x", math.Float64bits(f))
}

// ParseFloatString is the inverse of FloatString.
func ParseFloatString(s string) (float64, error) {
	var bits uint64
	if _, err := fmt.Sscanf(s, "f:%016x", &bits); err != nil {
		return 0, fmt.Errorf("parse float %q: %w", s, err)
	}
	return math.Float64frombits(bits), nil
}
