// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an in-memory representation of JSON values, and a
// reader that constructs values from a stream of JSON source text.
package ast

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// A Value is an arbitrary JSON value. The concrete type of a Value is one of
// String, Number, Bool, Null, Object, or Array.
type Value interface {
	// JSON returns the compact JSON encoding of the value. Object keys are
	// rendered in sorted order.
	JSON() string
}

// A String is a string value.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return string(escape.Quote(mem.S(string(s)))) }

// Len reports the length of s in bytes.
func (s String) Len() int { return len(s) }

// A Number is a numeric value.
type Number float64

// JSON satisfies the Value interface. Integral values with magnitude below
// 1e21 are rendered without an exponent. NaN and infinities, which have no
// JSON representation, are rendered as null.
func (n Number) JSON() string {
	v := float64(n)
	switch {
	case math.IsNaN(v), math.IsInf(v, 0):
		return "null"
	case v == math.Trunc(v) && math.Abs(v) < 1e21:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// Int64 returns n truncated to an int64.
func (n Number) Int64() int64 { return int64(n) }

// IsInt reports whether n is an integer.
func (n Number) IsInt() bool { return float64(n) == math.Trunc(float64(n)) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// Null represents the null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// An Object is a collection of key-value members. If the source text of an
// object has duplicate keys, the last value for each key wins.
type Object map[string]Value

// JSON satisfies the Value interface.
func (o Object) JSON() string { return FormatToString(o, "") }

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// Keys returns the keys of o in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// An Array is a sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string { return FormatToString(a, "") }

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// Equal reports whether a and b are equal JSON values. Objects are equal if
// they have the same keys with equal values, regardless of order. A nil Value
// is equal only to nil.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for key, xv := range x {
			yv, ok := y[key]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Array:
		y, ok := b.(Array)
		return ok && slices.EqualFunc(x, y, Equal)
	case String, Number, Bool, Null:
		return a == b
	case nil:
		return b == nil
	default:
		return false
	}
}

// FormatToString renders v as JSON text, as Format does, and returns the
// result as a string.
func FormatToString(v Value, indent string) string {
	var sb strings.Builder
	formatValue(&sb, v, indent, "")
	return sb.String()
}
