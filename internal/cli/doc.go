// Package cli is the command-line adapter for the resolution engine. It
// builds a flag set from the field registry, captures which flags the user
// explicitly supplied (library defaults never count as supplied), parses
// the engine's own reserved flags, and handles process-level concerns like
// usage output and exit codes.
package cli
