package epw

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Value is a typed scalar decoded from one token. It remembers the token so
// encoding reproduces the input exactly.
type Value struct {
	kind Kind
	raw  string
	i    int64
	f    float64
}

var errNaNText = errors.New("NaN must be written as an empty token")

// ParseValue converts a token to kind. Only Float accepts the empty token,
// which decodes to NaN.
func ParseValue(kind Kind, raw string) (Value, error) {
	switch kind {
	case Integer:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: Integer, raw: raw, i: n}, nil
	case Float:
		if raw == "" {
			return Value{kind: Float, f: math.NaN()}, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, err
		}
		if math.IsNaN(f) {
			return Value{}, errNaNText
		}
		return Value{kind: Float, raw: raw, f: f}, nil
	case Text:
		return Value{kind: Text, raw: raw}, nil
	default:
		return Value{}, errors.New("unknown kind " + kind.String())
	}
}

// IntValue returns an Integer value.
func IntValue(n int64) Value {
	return Value{kind: Integer, raw: strconv.FormatInt(n, 10), i: n}
}

// FloatValue returns a Float value. NaN encodes as the empty token.
func FloatValue(f float64) Value {
	return Value{kind: Float, raw: formatFloat(f), f: f}
}

// TextValue returns a Text value.
func TextValue(s string) Value {
	return Value{kind: Text, raw: s}
}

// Kind returns the scalar type of v.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer held by v, 0 for other kinds.
func (v Value) Int() int64 { return v.i }

// Float returns the float held by v. Integer values convert; text returns NaN.
func (v Value) Float() float64 {
	switch v.kind {
	case Float:
		return v.f
	case Integer:
		return float64(v.i)
	default:
		return math.NaN()
	}
}

// Text returns the token v was decoded from.
func (v Value) Text() string { return v.raw }

// IsMissing reports whether v is a float NaN.
func (v Value) IsMissing() bool { return v.kind == Float && math.IsNaN(v.f) }

// Interface returns v as int64, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case Integer:
		return v.i
	case Float:
		return v.f
	default:
		return v.raw
	}
}

// String returns the encoded token.
func (v Value) String() string { return v.raw }

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !math.IsInf(f, 0) && !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
