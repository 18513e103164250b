// Package schema provides body serializers for codec trees. A schema
// pairs a content type with marshal and unmarshal functions; body atoms
// use one schema for whole payloads, body stream atoms apply it per
// frame.
//
// The generic constructors fix the decoded Go type: JSON[Task]()
// unmarshals request bodies into a Task and hands it back as the decoded
// value. Marshal accepts any value the underlying format can serialize.
//
// Zstd decorates any schema with transparent compression.
package schema
