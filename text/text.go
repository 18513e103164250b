package text

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/errors"
)

// Codec converts a single scalar value to and from its textual wire form.
// Route segments, query values, header values, the method token, and the
// status code all pass through one of these.
//
// Decode must reject any text outside the codec's lexical form with a
// text_decode error carrying the offending text. Encode is total for
// well-typed input; handing it a value of the wrong dynamic type is a
// caller contract violation and panics.
type Codec interface {
	// Tag names the lexical form for diagnostics and documentation.
	Tag() string

	// Unit reports a constant-valued codec. Unit codecs still consume and
	// emit their message part but contribute httpcodec.Unit to aggregates.
	Unit() bool

	Decode(text string) (any, error)
	Encode(v any) string
}

// String returns the identity codec: any text, value type string.
func String() Codec { return stringCodec{} }

// Int returns a base-10 integer codec. Decoded values are int64; Encode
// accepts the common Go integer types and integral floats.
func Int() Codec { return intCodec{} }

// Bool returns a boolean codec accepting exactly "true" and "false".
func Bool() Codec { return boolCodec{} }

// Enum returns a codec accepting exactly the given values. Values decode
// and encode as themselves.
func Enum(values ...string) Codec {
	if len(values) == 0 {
		panic(errors.Construction("enum codec needs at least one value"))
	}
	return enumCodec{values: values}
}

// Constant returns a unit-valued codec matching exactly one literal. It
// decodes to httpcodec.Unit and always encodes the literal.
func Constant(literal string) Codec { return constantCodec{literal: literal} }

type stringCodec struct{}

func (stringCodec) Tag() string  { return "string" }
func (stringCodec) Unit() bool   { return false }
func (stringCodec) Decode(text string) (any, error) {
	return text, nil
}
func (stringCodec) Encode(v any) string {
	s, ok := v.(string)
	if !ok {
		panic(errors.Contract(errors.PhaseEncode, "string codec: value is %T, want string", v))
	}
	return s
}

type intCodec struct{}

func (intCodec) Tag() string { return "int" }
func (intCodec) Unit() bool  { return false }
func (intCodec) Decode(text string) (any, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, errors.TextDecode(text, "does not lex as base-10 integer")
	}
	return n, nil
}
func (intCodec) Encode(v any) string {
	n, ok := coerceInt64(v)
	if !ok {
		panic(errors.Contract(errors.PhaseEncode, "int codec: value is %T, want an integer", v))
	}
	return strconv.FormatInt(n, 10)
}

type boolCodec struct{}

func (boolCodec) Tag() string { return "bool" }
func (boolCodec) Unit() bool  { return false }
func (boolCodec) Decode(text string) (any, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, errors.TextDecode(text, `does not lex as boolean ("true" or "false")`)
}
func (boolCodec) Encode(v any) string {
	b, ok := v.(bool)
	if !ok {
		panic(errors.Contract(errors.PhaseEncode, "bool codec: value is %T, want bool", v))
	}
	return strconv.FormatBool(b)
}

type enumCodec struct {
	values []string
}

func (c enumCodec) Tag() string { return "enum(" + strings.Join(c.values, "|") + ")" }
func (c enumCodec) Unit() bool  { return false }
func (c enumCodec) Decode(text string) (any, error) {
	for _, v := range c.values {
		if text == v {
			return text, nil
		}
	}
	return nil, errors.TextDecode(text, "is not one of "+strings.Join(c.values, ", "))
}
func (c enumCodec) Encode(v any) string {
	s, ok := v.(string)
	if !ok {
		panic(errors.Contract(errors.PhaseEncode, "enum codec: value is %T, want string", v))
	}
	for _, member := range c.values {
		if s == member {
			return s
		}
	}
	panic(errors.Contract(errors.PhaseEncode, "enum codec: %q is not one of %s", s, strings.Join(c.values, ", ")))
}

type constantCodec struct {
	literal string
}

func (c constantCodec) Tag() string { return "literal " + strconv.Quote(c.literal) }
func (c constantCodec) Unit() bool  { return true }
func (c constantCodec) Decode(text string) (any, error) {
	if text != c.literal {
		return nil, errors.TextDecode(text, "expected literal "+strconv.Quote(c.literal))
	}
	return httpcodec.Unit, nil
}
func (c constantCodec) Encode(v any) string {
	if v != any(httpcodec.Unit) {
		panic(errors.Contract(errors.PhaseEncode, "constant codec: value is %T, want Unit", v))
	}
	return c.literal
}

// coerceInt64 accepts the integer types a caller is likely to hold,
// including integral floats from JSON-decoded numbers.
func coerceInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v <= math.MaxInt64 && v == float64(int64(v)) {
			return int64(v), true
		}
	case float32:
		if float64(v) >= math.MinInt64 && float64(v) <= math.MaxInt64 && v == float32(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}
