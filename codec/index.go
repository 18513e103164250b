package codec

import (
	"net/textproto"

	"github.com/wippyai/httpcodec/errors"
)

// indexer threads occurrence counters through a depth-first, left-to-right
// traversal. Route, method, and status atoms count per kind; query and
// header atoms count per name, headers under their canonical form; Body
// and BodyStream share the body counter.
type indexer struct {
	kind  [atomKindCount]int
	named map[namedKey]int
}

type namedKey struct {
	kind AtomKind
	name string
}

// Index returns a copy of the tree with every atom's Index assigned. The
// input is not modified, so structurally shared subtrees stay valid. The
// pass is deterministic and idempotent: re-indexing an indexed tree
// assigns the same indices.
func Index(root *Codec) *Codec {
	ix := &indexer{named: make(map[namedKey]int)}
	return ix.rewrite(root)
}

func (ix *indexer) rewrite(c *Codec) *Codec {
	switch c.Kind {
	case KindEmpty:
		return c
	case KindAtom:
		atom := *c.Atom
		atom.Index = ix.next(c.Atom)
		dup := *c
		dup.Atom = &atom
		return &dup
	case KindOptional, KindDoc, KindTransform:
		dup := *c
		dup.Inner = ix.rewrite(c.Inner)
		return &dup
	case KindCombine:
		dup := *c
		dup.Left = ix.rewrite(c.Left)
		dup.Right = ix.rewrite(c.Right)
		return &dup
	default:
		panic(errors.Unsupported(errors.PhaseCompile, "node kind "+c.Kind.String()))
	}
}

func (ix *indexer) next(a *Atom) int {
	switch {
	case a.Kind.Named():
		key := namedKey{kind: a.Kind, name: counterName(a)}
		n := ix.named[key]
		ix.named[key] = n + 1
		return n
	case a.Kind.IsBody():
		n := ix.kind[AtomBody]
		ix.kind[AtomBody]++
		return n
	default:
		n := ix.kind[a.Kind]
		ix.kind[a.Kind]++
		return n
	}
}

func counterName(a *Atom) string {
	if a.Kind == AtomHeader {
		return textproto.CanonicalMIMEHeaderKey(a.Name)
	}
	return a.Name
}
