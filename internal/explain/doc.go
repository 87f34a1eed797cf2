// Package explain provides human-readable descriptions of sshd_config
// directives for presentation layers.
//
// The descriptions are pure display data and live outside the parsers:
// the core only exposes directive keys, and absence of a description is
// never an error. A default table ships embedded in the binary as a
// JSONC asset; callers can replace it with their own file via LoadFile.
package explain
