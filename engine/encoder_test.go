package engine

import (
	"context"
	stderrors "errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/errors"
	"github.com/wippyai/httpcodec/text"
)

func TestEncodeMethodRouteTree(t *testing.T) {
	tree := codec.MethodConstant(http.MethodGet).
		And(codec.Literal("users")).
		And(codec.Route(text.Int()))

	parts, err := mustCompile(t, tree).Encode(context.Background(), int64(42))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if parts.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", parts.Method)
	}
	if !reflect.DeepEqual(parts.Path, []string{"users", "42"}) {
		t.Errorf("Path = %v, want [users 42]", parts.Path)
	}
}

func TestEncodeChain(t *testing.T) {
	tree := codec.Route(text.Int()).
		And(codec.Query("q", text.String())).
		And(codec.Header("X-Trace", text.String()))

	parts, err := mustCompile(t, tree).Encode(context.Background(),
		httpcodec.Chain{int64(7), "term", "abc123"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(parts.Path, []string{"7"}) {
		t.Errorf("Path = %v", parts.Path)
	}
	if got := parts.Query.Get("q"); got != "term" {
		t.Errorf("query q = %q", got)
	}
	if got := parts.Header.Get("X-Trace"); got != "abc123" {
		t.Errorf("header X-Trace = %q", got)
	}
}

func TestEncodeRepeatedHeaders(t *testing.T) {
	tree := codec.Combine(
		codec.Header("A", text.String()),
		codec.Header("A", text.String()),
	)
	parts, err := mustCompile(t, tree).Encode(context.Background(),
		httpcodec.Chain{"first", "second"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []string{"first", "second"}
	if got := parts.Header.Values("A"); !reflect.DeepEqual(got, want) {
		t.Errorf("header A = %v, want %v", got, want)
	}
}

func TestEncodeOptional(t *testing.T) {
	tree := codec.Optional(codec.Query("page", text.Int()))
	eng := mustCompile(t, tree)

	t.Run("none emits nothing", func(t *testing.T) {
		parts, err := eng.Encode(context.Background(), httpcodec.None())
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if len(parts.Query) != 0 {
			t.Errorf("Query = %v, want empty", parts.Query)
		}
	})

	t.Run("some emits the value", func(t *testing.T) {
		parts, err := eng.Encode(context.Background(), httpcodec.Some(int64(3)))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got := parts.Query.Get("page"); got != "3" {
			t.Errorf("query page = %q, want 3", got)
		}
	})
}

func TestEncodeStatus(t *testing.T) {
	tree := codec.StatusConstant(http.StatusNoContent)
	parts, err := mustCompile(t, tree).Encode(context.Background(), httpcodec.Unit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if parts.Status != http.StatusNoContent {
		t.Errorf("Status = %d, want 204", parts.Status)
	}
}

func TestEncodeBodySetsContentType(t *testing.T) {
	tree := codec.Body(testSchema{"application/octet-stream"})
	eng := mustCompile(t, tree)

	t.Run("unset header gets stamped", func(t *testing.T) {
		parts, err := eng.Encode(context.Background(), []byte("payload"))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got := parts.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type = %q", got)
		}
		if string(parts.Body) != "payload" {
			t.Errorf("Body = %q", parts.Body)
		}
	})

	t.Run("caller header wins", func(t *testing.T) {
		withHeader := codec.Combine(
			codec.Header("Content-Type", text.String()),
			codec.Body(testSchema{"application/octet-stream"}),
		)
		parts, err := mustCompile(t, withHeader).Encode(context.Background(),
			httpcodec.Chain{"application/x-custom", []byte("payload")})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got := parts.Header.Get("Content-Type"); got != "application/x-custom" {
			t.Errorf("Content-Type = %q, want caller's", got)
		}
	})
}

func TestEncodeBodyStream(t *testing.T) {
	tree := codec.BodyStream(testSchema{"application/octet-stream"})
	values := httpcodec.ValueStream(func(yield func(any, error) bool) {
		for _, v := range [][]byte{[]byte("one"), []byte("two")} {
			if !yield(v, nil) {
				return
			}
		}
	})

	parts, err := mustCompile(t, tree).Encode(context.Background(), values)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if parts.BodyStream == nil {
		t.Fatal("BodyStream not set")
	}

	var got []string
	for frame, err := range parts.BodyStream {
		if err != nil {
			t.Fatalf("stream: %v", err)
		}
		got = append(got, string(frame))
	}
	if !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("frames = %v", got)
	}
}

func TestEncodeBackwardTransformFailure(t *testing.T) {
	tree := codec.TransformOrFail(codec.Route(text.Int()),
		func(v any) (any, error) { return v, nil },
		func(v any) (any, error) { return nil, stderrors.New("not encodable") },
	)
	_, err := mustCompile(t, tree).Encode(context.Background(), int64(1))
	if !errors.IsKind(err, errors.KindTransform) {
		t.Errorf("err = %v, want transform", err)
	}
}

func TestEncodeContractViolationPanics(t *testing.T) {
	tests := []struct {
		name  string
		tree  *codec.Codec
		value any
	}{
		{"wrong scalar type", codec.Route(text.Int()), "forty-two"},
		{"wrong chain width", codec.Combine(
			codec.Route(text.Int()),
			codec.Query("q", text.String()),
		), httpcodec.Chain{int64(1)}},
		{"not an option", codec.Optional(codec.Query("page", text.Int())), int64(3)},
		{"not a value stream", codec.BodyStream(testSchema{"application/octet-stream"}), []byte("raw")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := mustCompile(t, tt.tree)
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
			eng.Encode(context.Background(), tt.value) //nolint:errcheck
		})
	}
}
