// Package cli implements the cobra-based CLI commands for sshsentinel.
//
// Command groups mirror the two configuration dialects: "server" operates
// on sshd_config, "client" on ssh_config. Backup handling and directive
// explanations get their own top-level commands. Each command lives in
// its own file within this package; this file defines the root command,
// global flags, and the error-to-exit-code translation.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

// Global flag variables shared across all subcommands. These are bound
// to cobra persistent flags on the root command, which makes them
// available to every subcommand automatically.
var (
	// configPath overrides the target configuration file. When empty,
	// each dialect falls back to its conventional /etc/ssh location.
	configPath string

	// jsonOutput switches command output to structured JSON for machine
	// consumption; the default is human-readable text.
	jsonOutput bool

	// verbose enables trace output on stderr.
	verbose bool
)

// Version, Commit, and Date are set at build time via ldflags. They are
// injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command. The root
// command itself performs no action — it provides help text and global
// flags, with the actual functionality in subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sshsentinel",
		Short: "Comment-preserving OpenSSH configuration editor",
		Long: `sshsentinel edits OpenSSH configuration files (sshd_config and ssh_config)
without losing comments, disabled directives, or line order.

Files are parsed into an ordered line model, mutated through explicit
operations, and written back with a .bak snapshot taken first. Content
the user did not touch is reproduced byte for byte.`,

		// Errors are formatted by Execute (text or JSON); keep cobra's
		// own printing out of the way.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the configuration file (default: /etc/ssh/sshd_config or /etc/ssh/ssh_config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewServerCommand())
	rootCmd.AddCommand(NewClientCommand())
	rootCmd.AddCommand(NewBackupCommand())
	rootCmd.AddCommand(NewRestoreCommand())
	rootCmd.AddCommand(NewExplainCommand())

	return rootCmd
}

// Execute runs the root command and translates returned errors into
// process exit codes. CLIError values carry their own codes; anything
// else exits with the general error code.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format (JSON or
// text) based on the --json global flag. Errors always go to stderr;
// stdout is reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]any{
			"error": map[string]any{"message": message},
		}
		if underlying != nil {
			errObj["error"].(map[string]any)["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set. Subcommands use
// this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON renders v with 2-space indentation on stdout.
func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
