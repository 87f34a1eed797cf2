// Package clientcfg parses and rewrites OpenSSH client configuration
// files (ssh_config) while preserving comments and line order.
//
// Unlike the flat server dialect, the client dialect groups lines into
// Host blocks: a "Host <pattern>" line opens a block that owns every
// following line until the next Host line or end of file. Block order and
// directive order within each block are both significant and preserved.
//
// Lines appearing before the first Host line have no owning block and are
// dropped, matching the behavior of the editor this package descends from.
package clientcfg
