package schema

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/errors"
)

// Shared stateless codecs; EncodeAll and DecodeAll are safe for
// concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("schema: zstd encoder: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("schema: zstd decoder: " + err.Error())
	}
}

// Zstd wraps a schema with zstd compression. Marshal compresses the inner
// schema's output; Unmarshal decompresses before handing the bytes to the
// inner schema. The content type gains a +zstd suffix so compressed and
// plain bodies stay distinguishable.
func Zstd(inner httpcodec.Schema) httpcodec.Schema {
	if inner == nil {
		panic(errors.Construction("zstd schema needs an inner schema"))
	}
	return zstdSchema{inner: inner}
}

type zstdSchema struct {
	inner httpcodec.Schema
}

func (s zstdSchema) ContentType() string {
	return s.inner.ContentType() + "+zstd"
}

func (s zstdSchema) Marshal(v any) ([]byte, error) {
	plain, err := s.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(plain, nil), nil
}

func (s zstdSchema) Unmarshal(data []byte) (any, error) {
	plain, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return s.inner.Unmarshal(plain)
}
