package codec

import (
	"strconv"
	"strings"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/errors"
	"github.com/wippyai/httpcodec/text"
)

// Kind discriminates the node variants of a codec tree.
type Kind uint8

const (
	KindAtom Kind = iota
	KindEmpty
	KindOptional
	KindDoc
	KindTransform
	KindCombine
)

var kindNames = [...]string{
	KindAtom:      "atom",
	KindEmpty:     "empty",
	KindOptional:  "optional",
	KindDoc:       "doc",
	KindTransform: "transform",
	KindCombine:   "combine",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// AtomKind discriminates the message part a leaf codec reads and writes.
type AtomKind uint8

const (
	AtomStatus AtomKind = iota
	AtomRoute
	AtomBody
	AtomBodyStream
	AtomQuery
	AtomMethod
	AtomHeader
)

const atomKindCount = int(AtomHeader) + 1

var atomNames = [...]string{
	AtomStatus:     "status",
	AtomRoute:      "route",
	AtomBody:       "body",
	AtomBodyStream: "body_stream",
	AtomQuery:      "query",
	AtomMethod:     "method",
	AtomHeader:     "header",
}

func (k AtomKind) String() string {
	if int(k) < len(atomNames) {
		return atomNames[k]
	}
	return "unknown"
}

// IsBody reports whether the atom carries a message body rather than a
// scalar part. Body and BodyStream share one occurrence counter.
func (k AtomKind) IsBody() bool {
	return k == AtomBody || k == AtomBodyStream
}

// Named reports whether the atom addresses its message part by name.
func (k AtomKind) Named() bool {
	return k == AtomQuery || k == AtomHeader
}

// AllowsOptional reports whether atoms of this kind may appear under an
// Optional combinator. A path segment, method, status, or body has no
// well-defined absent form; query parameters and headers do.
func (k AtomKind) AllowsOptional() bool {
	return k == AtomQuery || k == AtomHeader
}

// Atom is a leaf codec for one part of an HTTP message. Scalar kinds carry
// a text codec, body kinds a schema. Atoms are immutable: the optionality
// rewrite and the indexing pass copy before changing anything.
type Atom struct {
	Kind     AtomKind
	Name     string           // query parameter or header name
	Text     text.Codec       // scalar kinds
	Schema   httpcodec.Schema // body kinds
	Optional bool
	Index    int // occurrence among same-kind atoms; -1 until the indexing pass assigns it
}

// String renders the atom for diagnostics: kind, name, index, value form.
func (a *Atom) String() string {
	var b strings.Builder
	b.WriteString(a.Kind.String())
	if a.Name != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(a.Name))
	}
	if a.Index >= 0 {
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(a.Index))
	}
	switch {
	case a.Text != nil:
		b.WriteByte(' ')
		b.WriteString(a.Text.Tag())
	case a.Schema != nil:
		b.WriteByte(' ')
		b.WriteString(a.Schema.ContentType())
	}
	if a.Optional {
		b.WriteString(" (optional)")
	}
	return b.String()
}

// Codec is one node of a codec tree. Kind selects the variant; the other
// fields are that variant's payload:
//
//	KindAtom      Atom
//	KindEmpty     -
//	KindOptional  Inner
//	KindDoc       Inner, Doc
//	KindTransform Inner, Forward, Backward
//	KindCombine   Left, Right
//
// Shape is the value shape the subtree decodes to, computed at
// construction. Trees are built through the package constructors and are
// immutable afterwards; callers must not mutate nodes. Pointer identity is
// what the engine caches compiled forms under.
type Codec struct {
	Kind  Kind
	Atom  *Atom
	Inner *Codec
	Doc   string
	Left  *Codec
	Right *Codec
	Shape Shape

	// Forward maps the decoded inner value outward; Backward maps a value
	// inward before encoding. Only set on KindTransform.
	Forward  func(any) (any, error)
	Backward func(any) (any, error)
}

// Empty returns the codec that carries no data: it decodes to Unit and
// contributes nothing to the message.
func Empty() *Codec {
	return &Codec{Kind: KindEmpty, Shape: Shape{Kind: ShapeUnit}}
}

// Route returns a codec for one path segment.
func Route(c text.Codec) *Codec {
	return newAtom(&Atom{Kind: AtomRoute, Text: c, Index: -1})
}

// Literal returns a codec for one constant path segment. It matches
// exactly and contributes nothing to aggregate values.
func Literal(segment string) *Codec {
	return Route(text.Constant(segment))
}

// Query returns a codec for one occurrence of the named query parameter.
func Query(name string, c text.Codec) *Codec {
	if name == "" {
		panic(errors.Construction("query atom needs a parameter name"))
	}
	return newAtom(&Atom{Kind: AtomQuery, Name: name, Text: c, Index: -1})
}

// Header returns a codec for one occurrence of the named header.
func Header(name string, c text.Codec) *Codec {
	if name == "" {
		panic(errors.Construction("header atom needs a header name"))
	}
	return newAtom(&Atom{Kind: AtomHeader, Name: name, Text: c, Index: -1})
}

// Method returns a codec for the request method token.
func Method(c text.Codec) *Codec {
	return newAtom(&Atom{Kind: AtomMethod, Text: c, Index: -1})
}

// MethodConstant returns a codec matching exactly one method token.
func MethodConstant(method string) *Codec {
	return Method(text.Constant(method))
}

// Status returns a codec for the response status code. The text codec sees
// the base-10 rendering of the numeric code.
func Status(c text.Codec) *Codec {
	return newAtom(&Atom{Kind: AtomStatus, Text: c, Index: -1})
}

// StatusConstant returns a codec matching exactly one status code.
func StatusConstant(code int) *Codec {
	return Status(text.Constant(strconv.Itoa(code)))
}

// Body returns a codec for the message body, serialized by the schema.
func Body(s httpcodec.Schema) *Codec {
	if s == nil {
		panic(errors.Construction("body atom needs a schema"))
	}
	return newAtom(&Atom{Kind: AtomBody, Schema: s, Index: -1})
}

// BodyStream returns a codec for a streaming message body. Each frame
// passes through the schema; the decoded value is an httpcodec.ValueStream.
func BodyStream(s httpcodec.Schema) *Codec {
	if s == nil {
		panic(errors.Construction("body stream atom needs a schema"))
	}
	return newAtom(&Atom{Kind: AtomBodyStream, Schema: s, Index: -1})
}

func newAtom(a *Atom) *Codec {
	if !a.Kind.IsBody() && a.Text == nil {
		panic(errors.Construction("%s atom needs a text codec", a.Kind))
	}
	shape := Shape{Kind: ShapeSingle}
	if a.Text != nil && a.Text.Unit() {
		shape = Shape{Kind: ShapeUnit}
	}
	return &Codec{Kind: KindAtom, Atom: a, Shape: shape}
}

// Combine sequences two codecs: left's message parts come before right's
// in traversal order, which fixes both index assignment and aggregate
// value order. The combined shape follows the value combiner rules.
func Combine(left, right *Codec) *Codec {
	if left == nil || right == nil {
		panic(errors.Construction("combine needs two codecs"))
	}
	return &Codec{
		Kind:  KindCombine,
		Left:  left,
		Right: right,
		Shape: CombinedShape(left.Shape, right.Shape),
	}
}

// And is Combine with the receiver on the left, for fluent composition.
func (c *Codec) And(right *Codec) *Codec {
	return Combine(c, right)
}

// Optional wraps a codec whose atoms are all headers or query parameters.
// The wrapped subtree decodes to Some(value) when present and None when
// its atoms are absent from the message; encoding None emits nothing.
//
// The inner tree is copied with every atom's optionality flag set, so
// documentation consumers see the atoms as optional. Applying Optional to
// a tree containing route, method, status, or body atoms is a programming
// error and panics at construction.
func Optional(inner *Codec) *Codec {
	if inner == nil {
		panic(errors.Construction("optional needs a codec"))
	}
	for _, a := range Atoms(inner) {
		if !a.Kind.AllowsOptional() {
			panic(errors.Construction("optional is not allowed over %s atoms", a.Kind))
		}
	}
	return &Codec{
		Kind:  KindOptional,
		Inner: markOptional(inner),
		Shape: Shape{Kind: ShapeSingle},
	}
}

// markOptional returns a copy of the tree with every atom's optionality
// flag set. Only reached after the kind precondition has been checked.
func markOptional(c *Codec) *Codec {
	switch c.Kind {
	case KindAtom:
		atom := *c.Atom
		atom.Optional = true
		dup := *c
		dup.Atom = &atom
		return &dup
	case KindEmpty:
		return c
	case KindOptional, KindDoc, KindTransform:
		dup := *c
		dup.Inner = markOptional(c.Inner)
		return &dup
	case KindCombine:
		dup := *c
		dup.Left = markOptional(c.Left)
		dup.Right = markOptional(c.Right)
		return &dup
	default:
		panic(errors.Unsupported(errors.PhaseConstruct, "node kind "+c.Kind.String()))
	}
}

// WithDoc attaches documentation to a codec. The engine ignores it; the
// Describe pass and external documentation generators consume it.
func WithDoc(inner *Codec, doc string) *Codec {
	if inner == nil {
		panic(errors.Construction("with-doc needs a codec"))
	}
	return &Codec{Kind: KindDoc, Inner: inner, Doc: doc, Shape: inner.Shape}
}

// Transform maps the decoded value through forward and values to encode
// through backward. Neither direction can fail; use TransformOrFail when
// validation is involved. The two functions are not checked for inverse
// consistency; that is the caller's obligation.
func Transform(inner *Codec, forward func(any) any, backward func(any) any) *Codec {
	if forward == nil || backward == nil {
		panic(errors.Construction("transform needs forward and backward functions"))
	}
	return TransformOrFail(inner,
		func(v any) (any, error) { return forward(v), nil },
		func(v any) (any, error) { return backward(v), nil },
	)
}

// TransformOrFail is Transform with fallible directions. A forward failure
// fails the decode; a backward failure fails the encode. Both surface as
// transform errors carrying the returned error as cause.
func TransformOrFail(inner *Codec, forward, backward func(any) (any, error)) *Codec {
	if inner == nil {
		panic(errors.Construction("transform needs a codec"))
	}
	if forward == nil || backward == nil {
		panic(errors.Construction("transform needs forward and backward functions"))
	}
	return &Codec{
		Kind:     KindTransform,
		Inner:    inner,
		Forward:  forward,
		Backward: backward,
		Shape:    Shape{Kind: ShapeSingle},
	}
}
