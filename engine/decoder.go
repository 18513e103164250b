package engine

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/errors"
)

// Decode extracts the tree's aggregate value from the message parts.
// Failures are fail-fast in traversal order and carry the failing atom's
// kind, name, and occurrence index. The context is used for signal
// emission only; decode neither blocks nor cancels.
func (e *Engine) Decode(ctx context.Context, parts *httpcodec.Parts) (any, error) {
	if parts == nil {
		panic(errors.Contract(errors.PhaseDecode, "decode needs message parts"))
	}
	emitDecodeStart(ctx, e)
	start := time.Now()
	v, err := decodeNode(e.indexed, parts)
	emitDecodeComplete(ctx, e, time.Since(start), err)
	return v, err
}

func decodeNode(c *codec.Codec, parts *httpcodec.Parts) (any, error) {
	switch c.Kind {
	case codec.KindEmpty:
		return httpcodec.Unit, nil

	case codec.KindAtom:
		return decodeAtom(c.Atom, parts)

	case codec.KindDoc:
		return decodeNode(c.Inner, parts)

	case codec.KindOptional:
		v, err := decodeNode(c.Inner, parts)
		if err != nil {
			// Only absence falls back to None. A present but malformed
			// value still fails the decode.
			if errors.IsKind(err, errors.KindMissingAtom) {
				return httpcodec.None(), nil
			}
			return nil, err
		}
		return httpcodec.Some(v), nil

	case codec.KindTransform:
		v, err := decodeNode(c.Inner, parts)
		if err != nil {
			return nil, err
		}
		out, err := c.Forward(v)
		if err != nil {
			return nil, errors.TransformFailed(errors.PhaseDecode, err)
		}
		return out, nil

	case codec.KindCombine:
		lv, err := decodeNode(c.Left, parts)
		if err != nil {
			return nil, err
		}
		rv, err := decodeNode(c.Right, parts)
		if err != nil {
			return nil, err
		}
		return codec.Pair(c.Left.Shape, c.Right.Shape, lv, rv), nil

	default:
		return nil, errors.Unsupported(errors.PhaseDecode, "node kind "+c.Kind.String())
	}
}

// decodeAtom pulls the atom's assigned occurrence from the matching
// message part and runs its value codec. Absence conventions: method
// missing when empty, status missing when zero, body missing when nil,
// route missing past the path, query/header missing when fewer
// occurrences exist than the index requires.
func decodeAtom(a *codec.Atom, parts *httpcodec.Parts) (any, error) {
	switch a.Kind {
	case codec.AtomRoute:
		if a.Index < 0 || a.Index >= len(parts.Path) {
			return nil, errors.MissingAtom(a.Kind.String(), "", a.Index)
		}
		return decodeText(a, parts.Path[a.Index])

	case codec.AtomQuery:
		values := parts.Query[a.Name]
		if a.Index < 0 || a.Index >= len(values) {
			return nil, errors.MissingAtom(a.Kind.String(), a.Name, a.Index)
		}
		return decodeText(a, values[a.Index])

	case codec.AtomHeader:
		values := parts.Header.Values(a.Name)
		if a.Index < 0 || a.Index >= len(values) {
			return nil, errors.MissingAtom(a.Kind.String(), a.Name, a.Index)
		}
		return decodeText(a, values[a.Index])

	case codec.AtomMethod:
		if parts.Method == "" || a.Index != 0 {
			return nil, errors.MissingAtom(a.Kind.String(), "", a.Index)
		}
		return decodeText(a, parts.Method)

	case codec.AtomStatus:
		if parts.Status == 0 || a.Index != 0 {
			return nil, errors.MissingAtom(a.Kind.String(), "", a.Index)
		}
		return decodeText(a, strconv.Itoa(parts.Status))

	case codec.AtomBody:
		if parts.Body == nil {
			return nil, errors.MissingAtom(a.Kind.String(), "", a.Index)
		}
		v, err := a.Schema.Unmarshal(parts.Body)
		if err != nil {
			return nil, errors.SchemaFailed(errors.PhaseDecode, a.Schema.ContentType(), err)
		}
		return v, nil

	case codec.AtomBodyStream:
		if parts.BodyStream == nil {
			return nil, errors.MissingAtom(a.Kind.String(), "", a.Index)
		}
		return decodeStream(a.Schema, parts.BodyStream), nil

	default:
		return nil, errors.Unsupported(errors.PhaseDecode, "atom kind "+a.Kind.String())
	}
}

func decodeText(a *codec.Atom, text string) (any, error) {
	v, err := a.Text.Decode(text)
	if err != nil {
		return nil, withAtom(err, a)
	}
	return v, nil
}

// withAtom fills in the atom context on a structured error when the text
// codec left it blank.
func withAtom(err error, a *codec.Atom) error {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err
	}
	dup := *e
	if dup.Atom == "" {
		dup.Atom = a.Kind.String()
	}
	if dup.Name == "" {
		dup.Name = a.Name
	}
	if dup.Index < 0 {
		dup.Index = a.Index
	}
	return &dup
}

// decodeStream lazily maps wire frames through the schema. A transport
// error or unmarshal failure is yielded in-band and ends the sequence.
func decodeStream(s httpcodec.Schema, frames httpcodec.FrameStream) httpcodec.ValueStream {
	return func(yield func(any, error) bool) {
		for frame, err := range frames {
			if err != nil {
				yield(nil, err)
				return
			}
			v, uerr := s.Unmarshal(frame)
			if uerr != nil {
				yield(nil, errors.SchemaFailed(errors.PhaseDecode, s.ContentType(), uerr))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
