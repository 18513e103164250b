// Package text provides the scalar text codecs behind route, query, header,
// method, and status atoms.
//
// Each codec is a total, round-trippable mapping between one scalar value
// type and its textual wire form. Decode failures carry the offending text;
// Encode never fails for well-typed input and panics on dynamic type misuse.
//
// # Codecs
//
//   - String: any text
//   - Int: base-10 integers (int64)
//   - Bool: "true" / "false"
//   - Enum: a fixed set of string values
//   - Constant: one exact literal, unit-valued
//
// Constant is what makes literal path segments and fixed method tokens
// disappear from aggregate values: a unit-valued codec consumes its message
// part but contributes nothing to the decoded value.
package text
