package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/errors"
)

// Encode builds message parts from the tree's aggregate value. The only
// recoverable failures are backward-transform and schema errors; a value
// that does not match the tree's shape is a caller contract violation and
// panics. The context is used for signal emission only.
func (e *Engine) Encode(ctx context.Context, value any) (*httpcodec.Parts, error) {
	emitEncodeStart(ctx, e)
	start := time.Now()
	parts := httpcodec.NewParts()
	err := encodeNode(e.indexed, value, parts)
	emitEncodeComplete(ctx, e, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func encodeNode(c *codec.Codec, value any, parts *httpcodec.Parts) error {
	switch c.Kind {
	case codec.KindEmpty:
		return nil

	case codec.KindAtom:
		return encodeAtom(c.Atom, value, parts)

	case codec.KindDoc:
		return encodeNode(c.Inner, value, parts)

	case codec.KindOptional:
		opt, ok := value.(httpcodec.Option)
		if !ok {
			panic(errors.Contract(errors.PhaseEncode, "optional codec: value is %T, want Option", value))
		}
		if !opt.Set {
			return nil
		}
		return encodeNode(c.Inner, opt.Value, parts)

	case codec.KindTransform:
		inner, err := c.Backward(value)
		if err != nil {
			return errors.TransformFailed(errors.PhaseEncode, err)
		}
		return encodeNode(c.Inner, inner, parts)

	case codec.KindCombine:
		lv, rv := codec.Unpair(c.Left.Shape, c.Right.Shape, value)
		if err := encodeNode(c.Left, lv, parts); err != nil {
			return err
		}
		return encodeNode(c.Right, rv, parts)

	default:
		return errors.Unsupported(errors.PhaseEncode, "node kind "+c.Kind.String())
	}
}

// encodeAtom writes the atom's message part. The walk visits atoms in the
// same traversal order the indexing pass counted them in, so appending
// route segments and query/header values reproduces the assigned
// positions.
func encodeAtom(a *codec.Atom, value any, parts *httpcodec.Parts) error {
	switch a.Kind {
	case codec.AtomRoute:
		parts.Path = append(parts.Path, a.Text.Encode(value))

	case codec.AtomQuery:
		parts.Query.Add(a.Name, a.Text.Encode(value))

	case codec.AtomHeader:
		parts.Header.Add(a.Name, a.Text.Encode(value))

	case codec.AtomMethod:
		parts.Method = a.Text.Encode(value)

	case codec.AtomStatus:
		text := a.Text.Encode(value)
		code, err := strconv.Atoi(text)
		if err != nil {
			panic(errors.Contract(errors.PhaseEncode, "status codec produced %q, want a base-10 status code", text))
		}
		parts.Status = code

	case codec.AtomBody:
		data, err := a.Schema.Marshal(value)
		if err != nil {
			return errors.SchemaFailed(errors.PhaseEncode, a.Schema.ContentType(), err)
		}
		parts.Body = data
		setContentType(parts, a.Schema)

	case codec.AtomBodyStream:
		stream, ok := value.(httpcodec.ValueStream)
		if !ok {
			panic(errors.Contract(errors.PhaseEncode, "body stream codec: value is %T, want ValueStream", value))
		}
		parts.BodyStream = encodeStream(a.Schema, stream)
		setContentType(parts, a.Schema)

	default:
		return errors.Unsupported(errors.PhaseEncode, "atom kind "+a.Kind.String())
	}
	return nil
}

// setContentType stamps the schema's media type unless the caller already
// chose one.
func setContentType(parts *httpcodec.Parts, s httpcodec.Schema) {
	if parts.Header.Get("Content-Type") == "" {
		parts.Header.Set("Content-Type", s.ContentType())
	}
}

// encodeStream lazily maps values through the schema into wire frames.
// A producer error or marshal failure is yielded in-band and ends the
// sequence.
func encodeStream(s httpcodec.Schema, values httpcodec.ValueStream) httpcodec.FrameStream {
	return func(yield func([]byte, error) bool) {
		for v, err := range values {
			if err != nil {
				yield(nil, err)
				return
			}
			frame, merr := s.Marshal(v)
			if merr != nil {
				yield(nil, errors.SchemaFailed(errors.PhaseEncode, s.ContentType(), merr))
				return
			}
			if !yield(frame, nil) {
				return
			}
		}
	}
}
