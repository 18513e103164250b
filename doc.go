// Package httpcodec provides a declarative, invertible codec system for HTTP
// message parts.
//
// A codec is a composable value describing how one piece of a request or
// response (a path segment, query parameter, header, method, status code, or
// body) maps to and from an in-memory value. Atoms combine into codecs for
// whole messages, and a single description drives both directions: encoding
// builds message parts from a value, decoding extracts a value from message
// parts, and the two stay in sync by construction.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	httpcodec/           Root package with message Parts, the Schema
//	                     interface, and the aggregate value vocabulary
//	├── codec/           Codec tree algebra: atoms, combinators, the value
//	                     combiner, indexing, fingerprints, inspection
//	├── engine/          Compiles codec trees into cached encoders/decoders
//	├── schema/          Body schemas: JSON, CBOR, MessagePack, YAML, zstd
//	├── text/            Text value codecs for scalar atoms
//	├── errors/          Structured error types
//	└── cmd/codecview/   Interactive inspector for codec trees
//
// # Quick Start
//
// Describe a message, compile it once, then decode and encode:
//
//	getUser := codec.MethodConstant(http.MethodGet).
//	    And(codec.Literal("users")).
//	    And(codec.Route(text.Int())).
//	    And(codec.Optional(codec.Query("verbose", text.Bool())))
//
//	eng, err := engine.Compile(getUser)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	parts, err := httpcodec.RequestParts(req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	value, err := eng.Decode(ctx, parts)
//	// GET /users/42?verbose=true decodes to Chain{int64(42), Some(true)}
//
// # Aggregate Values
//
// The value a tree decodes to is determined by its shape. Codecs that carry
// no data (Empty, constant atoms) contribute Unit, which disappears when
// combined with anything else. Two or more data-carrying codecs combine into
// a flat Chain, never nested pairs, so combining N atoms in sequence yields
// an N-wide Chain regardless of association order. Optional subtrees decode
// to an Option. Transform combinators map these dynamic shapes onto
// domain types at the tree boundary.
//
// # Thread Safety
//
// Codec trees and compiled engines are immutable; concurrent Decode and
// Encode calls on one engine need no synchronization. Compilation is lazy,
// cached per tree identity, and safe under concurrent first use.
//
// # Errors
//
// Decode failures are fail-fast in traversal order and carry structured
// context (atom kind, name, occurrence index, offending text). Encode only
// fails when a transform or body schema fails; handing a value that does not
// match the tree's shape to Encode is a programming error and panics.
package httpcodec
