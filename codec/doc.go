// Package codec builds declarative, invertible descriptions of HTTP
// message parts. A codec tree is data: atoms describe single parts
// (method, path segment, status, query parameter, header, body) and
// combinators compose them, carrying enough structure that one tree
// drives both decoding a message into a value and encoding a value back
// into a message.
//
// # Atoms
//
// Scalar atoms pair a message part with a text codec from package text;
// body atoms pair the payload with a schema. Constant atoms such as
// Literal and MethodConstant carry unit text codecs, match exactly, and
// vanish from aggregate values.
//
// # Composition
//
// Combine sequences two codecs left before right. Decoded values merge
// under the combiner rules: unit absorbs into the other side, a chain
// extended by a single value widens by one, and everything else pairs
// into a two-wide chain. The rules make the aggregate value independent
// of parenthesization, so fluent And chains and explicit Combine trees
// decode identically.
//
// Optional wraps header and query subtrees, decoding to an Option;
// Transform and TransformOrFail map values through paired functions;
// WithDoc attaches documentation that Describe surfaces and the engine
// ignores.
//
// # Indexing
//
// Two atoms of the same kind address different occurrences of the same
// message part. Index copies the tree and assigns each atom its
// occurrence number in depth-first, left-to-right order: the second
// route atom takes path segment one, the second "tag" query atom takes
// the parameter's second value. The engine runs this pass once per tree
// at compile time.
//
// # Identity
//
// Fingerprint digests a tree's structure with keyed BLAKE3. Two trees
// with equal fingerprints accept and produce the same messages, up to
// transform behavior, which being opaque functions cannot contribute.
package codec
