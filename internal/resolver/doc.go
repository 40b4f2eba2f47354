// Package resolver is the merge engine at the heart of flagfile.
//
// Given the field registry, the set of flags the user explicitly supplied
// on the command line, and the optional value trees parsed from a config
// file and an inline raw config string, Resolve produces one final typed
// value per field. Scalars follow the precedence cli > raw > file; list
// fields either follow the same rule (Overwrite) or concatenate every
// present source in fixed order file, raw, cli (Extend). Resolution is
// deterministic and side-effect free: identical inputs always produce an
// identical Resolved or an identical error, and the first missing-required
// or conversion failure aborts the whole call.
package resolver
