// Package iso19139 maps a catalog.Bundle onto an ISO 19139 metadata
// document and renders it deterministically.
//
// The package is split the way the pipeline is specified: an explicit
// element tree (tree.go), a builder that maps bundle fields to
// schema-ordered sections (build.go), and a serializer that turns the tree
// into indented UTF-8 bytes (serialize.go). Determinism is a hard contract:
// the same bundle always yields byte-identical output, so exports can be
// diffed and re-runs are idempotent. Nothing in this package reads a clock.
package iso19139
