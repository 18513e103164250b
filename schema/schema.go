package schema

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/httpcodec"
)

// cborEnc marshals in core deterministic mode, so equal values always
// produce equal bytes.
var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("schema: cbor encode mode: " + err.Error())
	}
}

// JSON returns a schema that serializes bodies as JSON and decodes them
// into a value of type T.
func JSON[T any]() httpcodec.Schema { return jsonSchema[T]{} }

type jsonSchema[T any] struct{}

func (jsonSchema[T]) ContentType() string { return "application/json" }

func (jsonSchema[T]) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonSchema[T]) Unmarshal(data []byte) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// CBOR returns a schema that serializes bodies as deterministic CBOR and
// decodes them into a value of type T.
func CBOR[T any]() httpcodec.Schema { return cborSchema[T]{} }

type cborSchema[T any] struct{}

func (cborSchema[T]) ContentType() string { return "application/cbor" }

func (cborSchema[T]) Marshal(v any) ([]byte, error) {
	return cborEnc.Marshal(v)
}

func (cborSchema[T]) Unmarshal(data []byte) (any, error) {
	var v T
	if err := cbor.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Msgpack returns a schema that serializes bodies as MessagePack and
// decodes them into a value of type T.
func Msgpack[T any]() httpcodec.Schema { return msgpackSchema[T]{} }

type msgpackSchema[T any] struct{}

func (msgpackSchema[T]) ContentType() string { return "application/msgpack" }

func (msgpackSchema[T]) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackSchema[T]) Unmarshal(data []byte) (any, error) {
	var v T
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// YAML returns a schema that serializes bodies as YAML and decodes them
// into a value of type T.
func YAML[T any]() httpcodec.Schema { return yamlSchema[T]{} }

type yamlSchema[T any] struct{}

func (yamlSchema[T]) ContentType() string { return "application/yaml" }

func (yamlSchema[T]) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlSchema[T]) Unmarshal(data []byte) (any, error) {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Bytes returns a passthrough schema: the body is the value. Decoded
// values and marshal inputs are []byte.
func Bytes() httpcodec.Schema { return bytesSchema{} }

type bytesSchema struct{}

func (bytesSchema) ContentType() string { return "application/octet-stream" }

func (bytesSchema) Marshal(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("bytes schema: value is %T, want []byte", v)
	}
	return b, nil
}

func (bytesSchema) Unmarshal(data []byte) (any, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Text returns a schema for plain UTF-8 string bodies.
func Text() httpcodec.Schema { return textSchema{} }

type textSchema struct{}

func (textSchema) ContentType() string { return "text/plain; charset=utf-8" }

func (textSchema) Marshal(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("text schema: value is %T, want string", v)
	}
	return []byte(s), nil
}

func (textSchema) Unmarshal(data []byte) (any, error) {
	return string(data), nil
}
