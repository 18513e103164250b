package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // codec tree construction
	PhaseCompile   Phase = "compile"   // tree indexing and validation
	PhaseEncode    Phase = "encode"    // value to message parts
	PhaseDecode    Phase = "decode"    // message parts to value
)

// Kind categorizes the error
type Kind string

const (
	KindTextDecode   Kind = "text_decode"  // text does not lex as the target scalar form
	KindMissingAtom  Kind = "missing_atom" // a required atom occurrence is absent
	KindTransform    Kind = "transform"    // a transform function reported failure
	KindSchema       Kind = "schema"       // body schema marshal/unmarshal failure
	KindConstruction Kind = "construction" // invalid combinator use at build time
	KindUnsupported  Kind = "unsupported"  // unknown node or atom kind in a tree walk
	KindContract     Kind = "contract"     // caller contract violation, raised as a panic
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Atom   string // atom kind name: "route", "query", "header", ...
	Name   string // query parameter or header name
	Index  int    // positional occurrence among same-kind atoms; negative when not applicable
	Text   string // offending wire text
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Atom != "" {
		b.WriteString(" at ")
		b.WriteString(e.Atom)
		if e.Name != "" {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(e.Name))
		}
		if e.Index >= 0 {
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(e.Index))
		}
	}

	if e.Text != "" {
		b.WriteString(": text ")
		b.WriteString(strconv.Quote(e.Text))
	}

	if e.Detail != "" {
		if e.Text != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: -1,
		},
	}
}

// Atom sets the atom kind name
func (b *Builder) Atom(kind string) *Builder {
	b.err.Atom = kind
	return b
}

// Name sets the query parameter or header name
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Index sets the positional occurrence
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Text sets the offending wire text
func (b *Builder) Text(text string) *Builder {
	b.err.Text = text
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TextDecode creates a text decode error for wire text that does not
// lex as the target scalar form
func TextDecode(text, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTextDecode,
		Index:  -1,
		Text:   text,
		Detail: detail,
	}
}

// MissingAtom creates an error for a required atom occurrence absent
// from the message
func MissingAtom(atom, name string, index int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingAtom,
		Atom:   atom,
		Name:   name,
		Index:  index,
		Detail: "required value absent from message",
	}
}

// TransformFailed creates an error for a failed transform function.
// The phase tells the direction: decode means the forward mapping,
// encode means the backward mapping.
func TransformFailed(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTransform,
		Index:  -1,
		Detail: "transform failed",
		Cause:  cause,
	}
}

// SchemaFailed creates an error for a body schema marshal or unmarshal
// failure
func SchemaFailed(phase Phase, contentType string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSchema,
		Atom:   "body",
		Index:  -1,
		Detail: fmt.Sprintf("schema %s", contentType),
		Cause:  cause,
	}
}

// Construction creates a tree construction error
func Construction(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstruction,
		Index:  -1,
		Detail: detail,
	}
}

// Unsupported creates an unsupported node error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Index:  -1,
		Detail: what,
	}
}

// Contract creates a caller contract violation error. Contract errors
// are raised as panics on the encode path, never returned.
func Contract(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindContract,
		Index:  -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Index:  -1,
		Detail: detail,
		Cause:  cause,
	}
}
