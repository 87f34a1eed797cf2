// Package model defines the line-level domain types shared by both
// OpenSSH configuration dialects (client ssh_config and server sshd_config).
//
// The central type is Directive, which represents one physical line of a
// configuration file: an active key/value setting, a commented-out
// ("disabled") setting, a pure comment, or a blank line. Directives keep
// the exact original line text so that an unmodified document can be
// re-serialized byte-for-byte.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
