// Package discovery locates a tool's config file by walking from a start
// directory up to the filesystem root.
//
// In each directory it looks for baseName.<ext> for every allowed format.
// The nearest directory with exactly one candidate wins and the walk stops
// there; two or more candidates in the same directory is a terminal
// conflict. Reaching the root without a match is not an error; whether a
// missing file matters is judged later by the resolver, per field.
package discovery
