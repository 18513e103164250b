package codec

import (
	"reflect"
	"testing"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/errors"
)

var (
	unitShape   = Shape{Kind: ShapeUnit}
	singleShape = Shape{Kind: ShapeSingle}
)

func chainShape(width int) Shape {
	return Shape{Kind: ShapeChain, Width: width}
}

func TestCombinedShape(t *testing.T) {
	tests := []struct {
		name string
		l, r Shape
		want Shape
	}{
		{"unit absorbs unit", unitShape, unitShape, unitShape},
		{"unit absorbs left", unitShape, singleShape, singleShape},
		{"unit absorbs right", singleShape, unitShape, singleShape},
		{"unit before chain", unitShape, chainShape(3), chainShape(3)},
		{"singles pair up", singleShape, singleShape, chainShape(2)},
		{"chain grows right", chainShape(2), singleShape, chainShape(3)},
		{"chain grows left", singleShape, chainShape(4), chainShape(5)},
		{"chains nest", chainShape(2), chainShape(3), chainShape(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombinedShape(tt.l, tt.r); got != tt.want {
				t.Errorf("CombinedShape(%s, %s) = %s, want %s", tt.l, tt.r, got, tt.want)
			}
		})
	}
}

func TestPairUnpairRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		l, r       Shape
		lv, rv     any
		wantMerged any
	}{
		{"unit unit", unitShape, unitShape, httpcodec.Unit, httpcodec.Unit, httpcodec.Unit},
		{"unit left", unitShape, singleShape, httpcodec.Unit, int64(42), int64(42)},
		{"unit right", singleShape, unitShape, "a", httpcodec.Unit, "a"},
		{"single single", singleShape, singleShape, int64(1), "x", httpcodec.Chain{int64(1), "x"}},
		{"chain single", chainShape(2), singleShape,
			httpcodec.Chain{int64(1), "x"}, true,
			httpcodec.Chain{int64(1), "x", true}},
		{"single chain", singleShape, chainShape(2),
			int64(1), httpcodec.Chain{"x", true},
			httpcodec.Chain{int64(1), "x", true}},
		{"chain chain", chainShape(2), chainShape(2),
			httpcodec.Chain{int64(1), int64(2)}, httpcodec.Chain{"a", "b"},
			httpcodec.Chain{httpcodec.Chain{int64(1), int64(2)}, httpcodec.Chain{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Pair(tt.l, tt.r, tt.lv, tt.rv)
			if !reflect.DeepEqual(merged, tt.wantMerged) {
				t.Fatalf("Pair = %#v, want %#v", merged, tt.wantMerged)
			}
			gotL, gotR := Unpair(tt.l, tt.r, merged)
			if !reflect.DeepEqual(gotL, tt.lv) {
				t.Errorf("Unpair left = %#v, want %#v", gotL, tt.lv)
			}
			if !reflect.DeepEqual(gotR, tt.rv) {
				t.Errorf("Unpair right = %#v, want %#v", gotR, tt.rv)
			}
		})
	}
}

// Merging a, b, c must give the same chain whether the combine tree leans
// left or right.
func TestPairAssociativity(t *testing.T) {
	a, b, c := int64(1), "x", true

	leftShape := CombinedShape(singleShape, singleShape)
	leftVal := Pair(leftShape, singleShape, Pair(singleShape, singleShape, a, b), c)
	leftTotal := CombinedShape(leftShape, singleShape)

	rightShape := CombinedShape(singleShape, singleShape)
	rightVal := Pair(singleShape, rightShape, a, Pair(singleShape, singleShape, b, c))
	rightTotal := CombinedShape(singleShape, rightShape)

	if leftTotal != rightTotal {
		t.Fatalf("shapes differ: %s vs %s", leftTotal, rightTotal)
	}
	if !reflect.DeepEqual(leftVal, rightVal) {
		t.Fatalf("values differ: %#v vs %#v", leftVal, rightVal)
	}
	want := httpcodec.Chain{a, b, c}
	if !reflect.DeepEqual(leftVal, want) {
		t.Fatalf("merged = %#v, want %#v", leftVal, want)
	}
}

func TestUnpairContractPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"not a chain", func() { Unpair(singleShape, singleShape, 42) }},
		{"wrong width", func() { Unpair(singleShape, singleShape, httpcodec.Chain{1}) }},
		{"chain half too narrow", func() { Unpair(chainShape(2), singleShape, httpcodec.Chain{1, 2}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContractPanic(t, tt.fn)
		})
	}
}

func assertContractPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected contract panic")
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value is %T, want *errors.Error", r)
		}
		if err.Kind != errors.KindContract {
			t.Fatalf("panic kind = %s, want contract", err.Kind)
		}
	}()
	fn()
}
