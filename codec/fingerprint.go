package codec

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte keyed BLAKE3 digest of a codec tree's structure.
type Hash [32]byte

// fingerprintKey is the domain key for tree fingerprints, so digests never
// collide with other keyed BLAKE3 uses. ASCII label, zero padded to the
// 32 bytes NewKeyed requires.
var fingerprintKey = [32]byte{
	'h', 't', 't', 'p', 'c', 'o', 'd', 'e', 'c', '.',
	't', 'r', 'e', 'e', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't',
}

// Fingerprint computes the structural hash of a tree: node kinds, atom
// kinds and names, text codec tags, schema content types, optionality
// flags, and doc strings, in traversal order. Transform functions do not
// contribute, so trees differing only in transform behavior share a
// fingerprint. Assigned indices do not contribute either; indexing is
// derived from structure, and hashing before or after the pass gives the
// same digest.
func Fingerprint(root *Codec) Hash {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("codec: blake3 keyed hasher: " + err.Error())
	}
	hashNode(hasher, root)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the leading 16 hex digits, enough to tell trees apart in
// log lines and CLI output.
func (h Hash) Short() string {
	return hex.EncodeToString(h[:8])
}

func hashNode(h *blake3.Hasher, c *Codec) {
	h.Write([]byte{byte(c.Kind)})
	switch c.Kind {
	case KindEmpty:
	case KindAtom:
		a := c.Atom
		flags := byte(0)
		if a.Optional {
			flags = 1
		}
		h.Write([]byte{byte(a.Kind), flags})
		hashString(h, a.Name)
		if a.Text != nil {
			hashString(h, a.Text.Tag())
		}
		if a.Schema != nil {
			hashString(h, a.Schema.ContentType())
		}
	case KindDoc:
		hashString(h, c.Doc)
		hashNode(h, c.Inner)
	case KindOptional, KindTransform:
		hashNode(h, c.Inner)
	case KindCombine:
		hashNode(h, c.Left)
		hashNode(h, c.Right)
	}
}

// hashString writes a length-prefixed string so adjacent fields cannot
// run together and alias another tree.
func hashString(h *blake3.Hasher, s string) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
