// Package app wires the resolution pipeline together: CLI parsing, config
// file discovery, format decoding, and the final merge. It defines the App
// struct and its configuration, decoupled from any specific entrypoint.
// Each Resolve call is one-shot and self-contained, so concurrent calls on
// separate inputs never interfere.
package app
