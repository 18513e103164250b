package codec

import "github.com/wippyai/httpcodec/errors"

// AtomInfo pairs an atom with the documentation strings wrapping it.
type AtomInfo struct {
	Atom *Atom
	Docs []string // nearest wrapper first
}

// Describe returns the tree's atoms in traversal order, each with the doc
// strings of its enclosing WithDoc nodes, nearest first. Documentation
// generators consume this instead of walking the tree themselves.
func Describe(root *Codec) []AtomInfo {
	var out []AtomInfo
	describe(root, nil, &out)
	return out
}

// Atoms returns the tree's atoms in traversal order.
func Atoms(root *Codec) []*Atom {
	infos := Describe(root)
	out := make([]*Atom, len(infos))
	for i, info := range infos {
		out[i] = info.Atom
	}
	return out
}

func describe(c *Codec, docs []string, out *[]AtomInfo) {
	switch c.Kind {
	case KindEmpty:
	case KindAtom:
		info := AtomInfo{Atom: c.Atom}
		if len(docs) > 0 {
			info.Docs = append([]string(nil), docs...)
		}
		*out = append(*out, info)
	case KindDoc:
		describe(c.Inner, append([]string{c.Doc}, docs...), out)
	case KindOptional, KindTransform:
		describe(c.Inner, docs, out)
	case KindCombine:
		describe(c.Left, docs, out)
		describe(c.Right, docs, out)
	default:
		panic(errors.Unsupported(errors.PhaseConstruct, "node kind "+c.Kind.String()))
	}
}
