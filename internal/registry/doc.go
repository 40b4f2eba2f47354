// Package registry holds the ordered field descriptor list for one tool.
//
// The Registry is built once at process start from the caller's schema
// declaration and then borrowed read-only by the CLI adapter and the
// resolver. Construction validates the descriptor list eagerly: reserved
// engine flag collisions, duplicate names, and contradictory descriptors are
// caller configuration errors and are reported before any resolution is
// attempted, preventing a wide class of runtime surprises.
package registry
