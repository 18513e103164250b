package codec

import (
	"strconv"
	"strings"
)

// Print renders the tree one node per line with two-space indentation.
// Atoms print through Atom.String, so an indexed tree shows occurrence
// numbers. Meant for debugging and CLI output, not for parsing.
func Print(root *Codec) string {
	var b strings.Builder
	printNode(&b, root, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func printNode(b *strings.Builder, c *Codec, depth int) {
	indent := strings.Repeat("  ", depth)
	switch c.Kind {
	case KindEmpty:
		b.WriteString(indent + "empty\n")
	case KindAtom:
		b.WriteString(indent + c.Atom.String() + "\n")
	case KindOptional:
		b.WriteString(indent + "optional\n")
		printNode(b, c.Inner, depth+1)
	case KindDoc:
		b.WriteString(indent + "doc " + strconv.Quote(c.Doc) + "\n")
		printNode(b, c.Inner, depth+1)
	case KindTransform:
		b.WriteString(indent + "transform\n")
		printNode(b, c.Inner, depth+1)
	case KindCombine:
		b.WriteString(indent + "combine " + c.Shape.String() + "\n")
		printNode(b, c.Left, depth+1)
		printNode(b, c.Right, depth+1)
	default:
		b.WriteString(indent + "unknown\n")
	}
}
