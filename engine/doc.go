// Package engine compiles codec trees into cached encode/decode engines
// and drives them against message parts.
//
// # Compilation
//
// Compile validates a tree (known node and atom kinds, at most one body
// atom), runs the indexing pass, and fingerprints the result. Engines are
// cached per tree identity: compiling the same *codec.Codec again returns
// the same engine, and concurrent first compiles race benignly with one
// result winning the cache.
//
// # Decode and Encode
//
// Decode walks the indexed tree against incoming message parts, pulling
// each atom's assigned occurrence, running its text codec or body schema,
// and merging values under the combiner rules. Failures are fail-fast in
// traversal order. Encode mirrors the walk: it splits the aggregate value
// per the combiner rules and writes one message part per atom. Encode
// fails only when a backward transform or a schema fails; a structurally
// mismatched value is a caller contract violation and panics.
//
// # Observability
//
// The package emits capitan signals around compile, decode, and encode,
// and logs compile events through a configurable zap logger (no-op by
// default). Neither touches the per-atom hot path.
package engine
