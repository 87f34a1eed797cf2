// Package main is the entry point for the sshsentinel CLI, a
// comment-preserving editor for OpenSSH configuration files.
//
// All functionality lives in internal packages; this binary only wires
// build-time version information into the CLI and executes the root
// command. Privilege checks are deliberately not performed here — the
// caller is responsible for running with read/write access to the target
// configuration path and its backup sibling.
package main

import (
	"github.com/mmr-tortoise/sshsentinel/internal/cli"
)

// version, commit, and date are set at build time via ldflags. During
// development they default to "dev", "none", and "unknown".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
