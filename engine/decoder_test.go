package engine

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/errors"
	"github.com/wippyai/httpcodec/text"
)

func TestDecodeMethodRouteTree(t *testing.T) {
	tree := codec.MethodConstant(http.MethodGet).
		And(codec.Literal("users")).
		And(codec.Route(text.Int()))
	eng := mustCompile(t, tree)

	parts := httpcodec.NewParts()
	parts.Method = http.MethodGet
	parts.Path = []string{"users", "42"}

	v, err := eng.Decode(context.Background(), parts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// Constant atoms absorb into unit, leaving the one int.
	if v != any(int64(42)) {
		t.Errorf("value = %#v, want int64(42)", v)
	}
}

func TestDecodeFlatChain(t *testing.T) {
	a := codec.Route(text.Int())
	b := codec.Query("q", text.String())
	c := codec.Header("X-Trace", text.String())

	parts := httpcodec.NewParts()
	parts.Path = []string{"7"}
	parts.Query.Set("q", "term")
	parts.Header.Set("X-Trace", "abc123")

	want := httpcodec.Chain{int64(7), "term", "abc123"}

	// Association order must not change the aggregate shape.
	trees := map[string]*codec.Codec{
		"left":  codec.Combine(codec.Combine(a, b), c),
		"right": codec.Combine(a, codec.Combine(b, c)),
	}
	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			v, err := mustCompile(t, tree).Decode(context.Background(), parts)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(v, want) {
				t.Errorf("value = %#v, want %#v", v, want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		tree     *codec.Codec
		parts    func() *httpcodec.Parts
		wantKind errors.Kind
	}{
		{
			name: "malformed header int",
			tree: codec.Header("X-Count", text.Int()),
			parts: func() *httpcodec.Parts {
				p := httpcodec.NewParts()
				p.Header.Set("X-Count", "abc")
				return p
			},
			wantKind: errors.KindTextDecode,
		},
		{
			name:     "missing required header",
			tree:     codec.Header("X-Count", text.Int()),
			parts:    httpcodec.NewParts,
			wantKind: errors.KindMissingAtom,
		},
		{
			name: "route past path",
			tree: codec.Literal("users").And(codec.Route(text.Int())),
			parts: func() *httpcodec.Parts {
				p := httpcodec.NewParts()
				p.Path = []string{"users"}
				return p
			},
			wantKind: errors.KindMissingAtom,
		},
		{
			name:     "missing method",
			tree:     codec.MethodConstant(http.MethodGet),
			parts:    httpcodec.NewParts,
			wantKind: errors.KindMissingAtom,
		},
		{
			name: "wrong literal segment",
			tree: codec.Literal("users"),
			parts: func() *httpcodec.Parts {
				p := httpcodec.NewParts()
				p.Path = []string{"orders"}
				return p
			},
			wantKind: errors.KindTextDecode,
		},
		{
			name:     "missing body",
			tree:     codec.Body(testSchema{"application/octet-stream"}),
			parts:    httpcodec.NewParts,
			wantKind: errors.KindMissingAtom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustCompile(t, tt.tree).Decode(context.Background(), tt.parts())
			if err == nil {
				t.Fatal("Decode succeeded, want error")
			}
			if !errors.IsKind(err, tt.wantKind) {
				t.Errorf("err = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestDecodeErrorCarriesAtomContext(t *testing.T) {
	tree := codec.Header("X-Count", text.Int())
	parts := httpcodec.NewParts()
	parts.Header.Set("X-Count", "abc")

	_, err := mustCompile(t, tree).Decode(context.Background(), parts)
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %T, want *errors.Error", err)
	}
	if e.Atom != "header" || e.Name != "X-Count" || e.Index != 0 {
		t.Errorf("context = %s %q #%d, want header \"X-Count\" #0", e.Atom, e.Name, e.Index)
	}
	if e.Text != "abc" {
		t.Errorf("Text = %q, want \"abc\"", e.Text)
	}
}

func TestDecodeOptional(t *testing.T) {
	tree := codec.Optional(codec.Query("page", text.Int()))
	eng := mustCompile(t, tree)

	t.Run("absent", func(t *testing.T) {
		v, err := eng.Decode(context.Background(), httpcodec.NewParts())
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if v != any(httpcodec.None()) {
			t.Errorf("value = %#v, want None", v)
		}
	})

	t.Run("present", func(t *testing.T) {
		parts := httpcodec.NewParts()
		parts.Query.Set("page", "3")
		v, err := eng.Decode(context.Background(), parts)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if v != any(httpcodec.Some(int64(3))) {
			t.Errorf("value = %#v, want Some(3)", v)
		}
	})

	t.Run("present but malformed still fails", func(t *testing.T) {
		parts := httpcodec.NewParts()
		parts.Query.Set("page", "many")
		_, err := eng.Decode(context.Background(), parts)
		if !errors.IsKind(err, errors.KindTextDecode) {
			t.Errorf("err = %v, want text_decode", err)
		}
	})
}

func TestDecodeOptionalSubtree(t *testing.T) {
	tree := codec.Optional(codec.Combine(
		codec.Header("X-Limit", text.Int()),
		codec.Query("cursor", text.String()),
	))
	eng := mustCompile(t, tree)

	t.Run("both absent", func(t *testing.T) {
		v, err := eng.Decode(context.Background(), httpcodec.NewParts())
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if v != any(httpcodec.None()) {
			t.Errorf("value = %#v, want None", v)
		}
	})

	t.Run("both present", func(t *testing.T) {
		parts := httpcodec.NewParts()
		parts.Header.Set("X-Limit", "50")
		parts.Query.Set("cursor", "abc")
		v, err := eng.Decode(context.Background(), parts)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		want := httpcodec.Some(httpcodec.Chain{int64(50), "abc"})
		if !reflect.DeepEqual(v, any(want)) {
			t.Errorf("value = %#v, want %#v", v, want)
		}
	})
}

func TestDecodeRepeatedHeaders(t *testing.T) {
	tree := codec.Combine(
		codec.Header("A", text.String()),
		codec.Header("A", text.String()),
	)
	parts := httpcodec.NewParts()
	parts.Header.Add("A", "first")
	parts.Header.Add("A", "second")

	v, err := mustCompile(t, tree).Decode(context.Background(), parts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := httpcodec.Chain{"first", "second"}
	if !reflect.DeepEqual(v, any(want)) {
		t.Errorf("value = %#v, want %#v", v, want)
	}
}

func TestDecodeRepeatedQueryValues(t *testing.T) {
	tree := codec.Combine(
		codec.Query("tag", text.String()),
		codec.Query("tag", text.String()),
	)
	parts := httpcodec.NewParts()
	parts.Query = url.Values{"tag": {"go", "http"}}

	v, err := mustCompile(t, tree).Decode(context.Background(), parts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := httpcodec.Chain{"go", "http"}
	if !reflect.DeepEqual(v, any(want)) {
		t.Errorf("value = %#v, want %#v", v, want)
	}
}

func TestDecodeTransform(t *testing.T) {
	type userID int64
	tree := codec.TransformOrFail(codec.Route(text.Int()),
		func(v any) (any, error) {
			n := v.(int64)
			if n <= 0 {
				return nil, stderrors.New("user ids are positive")
			}
			return userID(n), nil
		},
		func(v any) (any, error) { return int64(v.(userID)), nil },
	)
	eng := mustCompile(t, tree)

	t.Run("forward maps", func(t *testing.T) {
		parts := httpcodec.NewParts()
		parts.Path = []string{"42"}
		v, err := eng.Decode(context.Background(), parts)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if v != any(userID(42)) {
			t.Errorf("value = %#v, want userID(42)", v)
		}
	})

	t.Run("forward failure fails decode", func(t *testing.T) {
		parts := httpcodec.NewParts()
		parts.Path = []string{"-1"}
		_, err := eng.Decode(context.Background(), parts)
		if !errors.IsKind(err, errors.KindTransform) {
			t.Errorf("err = %v, want transform", err)
		}
	})
}

func TestDecodeStatus(t *testing.T) {
	tree := codec.Status(text.Int())
	parts := httpcodec.NewParts()
	parts.Status = 404

	v, err := mustCompile(t, tree).Decode(context.Background(), parts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v != any(int64(404)) {
		t.Errorf("value = %#v, want int64(404)", v)
	}
}

func TestDecodeBodyStream(t *testing.T) {
	tree := codec.BodyStream(testSchema{"application/octet-stream"})
	parts := httpcodec.NewParts()
	frames := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	parts.BodyStream = func(yield func([]byte, error) bool) {
		for _, f := range frames {
			if !yield(f, nil) {
				return
			}
		}
	}

	v, err := mustCompile(t, tree).Decode(context.Background(), parts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	stream, ok := v.(httpcodec.ValueStream)
	if !ok {
		t.Fatalf("value = %T, want ValueStream", v)
	}

	var got [][]byte
	for elem, err := range stream {
		if err != nil {
			t.Fatalf("stream: %v", err)
		}
		got = append(got, elem.([]byte))
	}
	if !reflect.DeepEqual(got, frames) {
		t.Errorf("stream = %q, want %q", got, frames)
	}
}

func TestDecodeEncodeDecodeRoundTrip(t *testing.T) {
	tree := codec.MethodConstant(http.MethodGet).
		And(codec.Literal("users")).
		And(codec.Route(text.Int())).
		And(codec.Optional(codec.Query("verbose", text.Bool()))).
		And(codec.Header("X-Trace", text.String()))
	eng := mustCompile(t, tree)

	parts := httpcodec.NewParts()
	parts.Method = http.MethodGet
	parts.Path = []string{"users", "42"}
	parts.Query.Set("verbose", "true")
	parts.Header.Set("X-Trace", "abc123")

	ctx := context.Background()
	first, err := eng.Decode(ctx, parts)
	if err != nil {
		t.Fatalf("first Decode: %v", err)
	}
	reencoded, err := eng.Encode(ctx, first)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := eng.Decode(ctx, reencoded)
	if err != nil {
		t.Fatalf("second Decode: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip changed the value: %#v != %#v", first, second)
	}
}
