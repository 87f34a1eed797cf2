// Package servercfg parses and rewrites OpenSSH server configuration
// files (sshd_config) while preserving comments and line order.
//
// The server dialect is a flat ordered list of directive lines — there is
// no block grouping. Two server-specific behaviors sit on top of the
// shared line model:
//
//   - Include directives are additionally recorded as references for
//     visibility. Referenced files are never opened or parsed.
//   - A catalogue of stock vendor comment blocks (the commentary shipped
//     in distribution default sshd_config files) is silently discarded
//     during parse, so a re-serialized file does not reproduce boilerplate
//     the user never asked to keep. Matching is whole-block and exact;
//     a single changed character keeps the whole block.
//
// Re-serializing an unmodified document reproduces the original file
// byte-for-byte apart from trailing-newline normalization and any elided
// boilerplate.
package servercfg
