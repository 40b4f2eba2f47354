// Package decode converts raw configuration text into a format-neutral
// value tree, represented as a cty.Value whose top level is always an
// object.
//
// Each supported format (YAML, JSON with JSONC tolerance, TOML, and
// attribute-only HCL) is a pure function from bytes to a tree; no parser
// performs discovery or file I/O. Inline raw configuration strings go
// through ParseAuto, which attempts the formats listed in DetectOrder and
// commits to the first that yields a top-level mapping.
package decode
