package codec

import (
	"strconv"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/errors"
)

// ShapeKind classifies the value a subtree decodes to.
type ShapeKind uint8

const (
	ShapeUnit   ShapeKind = iota // carries no data
	ShapeSingle                  // one value
	ShapeChain                   // flat chain of two or more values
)

var shapeNames = [...]string{
	ShapeUnit:   "unit",
	ShapeSingle: "single",
	ShapeChain:  "chain",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return "unknown"
}

// Shape is the static value shape of a subtree. Width is meaningful only
// for chains, where it is at least two.
type Shape struct {
	Kind  ShapeKind
	Width int
}

func (s Shape) String() string {
	if s.Kind == ShapeChain {
		return "chain(" + strconv.Itoa(s.Width) + ")"
	}
	return s.Kind.String()
}

// CombinedShape is the shape of a combine node given its children's
// shapes. Unit absorbs into the other side; a chain extended by a single
// widens by one; anything else pairs into a two-wide chain. Because the
// rules fire the same way at every node, value shape is independent of
// how a sequence of combines is parenthesized.
func CombinedShape(l, r Shape) Shape {
	switch {
	case l.Kind == ShapeUnit:
		return r
	case r.Kind == ShapeUnit:
		return l
	case l.Kind == ShapeChain && r.Kind == ShapeSingle:
		return Shape{Kind: ShapeChain, Width: l.Width + 1}
	case l.Kind == ShapeSingle && r.Kind == ShapeChain:
		return Shape{Kind: ShapeChain, Width: r.Width + 1}
	default:
		return Shape{Kind: ShapeChain, Width: 2}
	}
}

// Pair merges the decoded values of a combine node's children under their
// shapes. Inputs come from the decode walk, so a shape mismatch here is an
// internal defect and panics.
func Pair(l, r Shape, lv, rv any) any {
	switch {
	case l.Kind == ShapeUnit:
		return rv
	case r.Kind == ShapeUnit:
		return lv
	case l.Kind == ShapeChain && r.Kind == ShapeSingle:
		lc := mustChain(errors.PhaseDecode, l.Width, lv)
		out := make(httpcodec.Chain, 0, l.Width+1)
		out = append(out, lc...)
		return append(out, rv)
	case l.Kind == ShapeSingle && r.Kind == ShapeChain:
		rc := mustChain(errors.PhaseDecode, r.Width, rv)
		out := make(httpcodec.Chain, 0, r.Width+1)
		out = append(out, lv)
		return append(out, rc...)
	default:
		return httpcodec.Chain{lv, rv}
	}
}

// Unpair splits a combine node's aggregate value back into the children's
// values. It inverts Pair exactly: Unpair(l, r, Pair(l, r, lv, rv))
// returns lv and rv. Encode inputs are caller-supplied, so a value that
// does not fit the combined shape is a contract violation and panics.
func Unpair(l, r Shape, v any) (lv, rv any) {
	switch {
	case l.Kind == ShapeUnit:
		return httpcodec.Unit, v
	case r.Kind == ShapeUnit:
		return v, httpcodec.Unit
	case l.Kind == ShapeChain && r.Kind == ShapeSingle:
		c := mustChain(errors.PhaseEncode, l.Width+1, v)
		left := append(httpcodec.Chain(nil), c[:l.Width]...)
		return left, c[l.Width]
	case l.Kind == ShapeSingle && r.Kind == ShapeChain:
		c := mustChain(errors.PhaseEncode, r.Width+1, v)
		right := append(httpcodec.Chain(nil), c[1:]...)
		return c[0], right
	default:
		c := mustChain(errors.PhaseEncode, 2, v)
		return c[0], c[1]
	}
}

func mustChain(phase errors.Phase, width int, v any) httpcodec.Chain {
	c, ok := v.(httpcodec.Chain)
	if !ok {
		panic(errors.Contract(phase, "aggregate value is %T, want a chain of width %d", v, width))
	}
	if len(c) != width {
		panic(errors.Contract(phase, "aggregate chain has width %d, want %d", len(c), width))
	}
	return c
}
