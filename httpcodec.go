package httpcodec

import (
	"iter"
	"net/http"
	"net/url"
)

// FrameStream is the wire side of a streaming body: a lazy sequence of raw
// frames. The sequence is non-restartable and may be unbounded; iteration
// errors are delivered in-band as the second element, after which the
// sequence ends.
type FrameStream = iter.Seq2[[]byte, error]

// ValueStream is the value side of a streaming body: a lazy sequence of
// decoded elements with the same delivery rules as FrameStream.
type ValueStream = iter.Seq2[any, error]

// Schema converts a message body to and from an in-memory value. Body and
// BodyStream atoms hold one. Implementations live in the schema package;
// anything satisfying the interface works.
type Schema interface {
	// ContentType returns the media type the schema produces, such as
	// "application/json". The engine stamps it on encoded messages that
	// do not carry a Content-Type yet.
	ContentType() string

	// Marshal serializes a value into body bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes body bytes into a value.
	Unmarshal(data []byte) (any, error)
}

type unit struct{}

func (unit) String() string { return "unit" }

// Unit is the aggregate value of codecs that carry no data: Empty trees,
// constant-valued atoms, and any combination of those. Combining Unit with
// another value yields that value unchanged.
var Unit = unit{}

// IsUnit reports whether v is the Unit value.
func IsUnit(v any) bool {
	_, ok := v.(unit)
	return ok
}

// Chain is a flat aggregate of two or more component values, produced when
// non-unit codecs are combined. Chains never nest through sequential
// combination: combining a chain with one more value widens it by one.
type Chain []any

// Option is a possibly-absent aggregate value, produced by optional codecs.
type Option struct {
	Value any
	Set   bool
}

// Some returns a present Option.
func Some(v any) Option { return Option{Value: v, Set: true} }

// None returns an absent Option.
func None() Option { return Option{} }

// Get returns the value and whether it is present.
func (o Option) Get() (any, bool) { return o.Value, o.Set }

// Parts is the abstract message-parts surface the codec engine reads and
// writes. It is deliberately neutral between requests and responses: a
// request carries Method/Path/Query, a response carries Status, both carry
// headers and a body. Absence conventions: Method absent when empty, Status
// absent when zero, Body absent when nil.
type Parts struct {
	Method string
	Status int
	Path   []string
	Query  url.Values
	Header http.Header
	Body   []byte

	// BodyStream carries a streaming body in place of Body. At most one
	// of Body and BodyStream is set.
	BodyStream FrameStream
}

// NewParts returns empty message parts with allocated query and header maps.
func NewParts() *Parts {
	return &Parts{
		Query:  url.Values{},
		Header: http.Header{},
	}
}
