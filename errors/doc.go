// Package errors provides structured error types for the httpcodec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the atom kind, the query
// or header name, the positional occurrence index, the offending wire text,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTextDecode).
//		Atom("header").
//		Name("X-Count").
//		Index(0).
//		Text("abc").
//		Detail("does not lex as base-10 integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingAtom("query", "page", 0)
//	err := errors.TextDecode("abc", "does not lex as base-10 integer")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind classifies wrapped errors by Kind, which the engine uses to tell
// absence apart from malformed input.
package errors
