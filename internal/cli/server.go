// server.go implements the "sshsentinel server" command group, which
// operates on the flat sshd_config dialect: listing the parsed document,
// looking up directives by key, editing or adding directives, and
// deleting lines by position.
//
// Mutating subcommands bootstrap a .bak snapshot right after loading
// (matching the startup behavior of the editor this tool descends from),
// then save through backup-then-write.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sshsentinel/internal/backup"
	"github.com/mmr-tortoise/sshsentinel/internal/model"
	"github.com/mmr-tortoise/sshsentinel/internal/servercfg"
)

// NewServerCommand creates the "server" command group with its
// subcommands.
func NewServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Edit the OpenSSH server configuration (sshd_config)",
	}

	cmd.AddCommand(newServerShowCommand())
	cmd.AddCommand(newServerGetCommand())
	cmd.AddCommand(newServerSetCommand())
	cmd.AddCommand(newServerAddCommand())
	cmd.AddCommand(newServerDeleteCommand())

	return cmd
}

// loadServerConfig opens the target sshd_config, honoring the --config
// override.
func loadServerConfig() (*servercfg.Config, error) {
	cfg := servercfg.New(configPath)
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	VerboseLog("Loaded %s: %d lines, %d includes", cfg.Path, len(cfg.Lines), len(cfg.Includes))
	return cfg, nil
}

// loadServerConfigForEdit loads the config and makes sure a backup
// sibling exists before any mutation happens.
func loadServerConfigForEdit() (*servercfg.Config, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}
	bak, err := backup.Ensure(cfg.Path)
	if err != nil {
		return nil, err
	}
	VerboseLog("Backup present at %s", bak)
	return cfg, nil
}

func newServerShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List every line of the server configuration",
		Long: `List every retained line of sshd_config in document order, with its
zero-based index, key, value, and state (active, disabled, or comment).
Include references are listed separately.

Examples:
  sshsentinel server show
  sshsentinel server show --config ./sshd_config --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig()
			if err != nil {
				return err
			}
			printServerDocument(cfg)
			return nil
		},
	}
}

func newServerGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Look up directives by key",
		Long: `Print every directive whose key matches the given name, ignoring case.
Disabled (commented-out) directives match too. Duplicate keys are legal
in sshd_config and all occurrences are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig()
			if err != nil {
				return err
			}

			matches := cfg.DirectivesByKey(args[0])
			if IsJSONOutput() {
				printJSON(map[string]any{"directives": directivesJSON(matches)})
				return nil
			}
			if len(matches) == 0 {
				fmt.Printf("No directive named %q found.\n", args[0])
				return nil
			}
			printDirectiveRows(matches)
			return nil
		},
	}
}

// serverSetFlags holds the flag values for the set command.
type serverSetFlags struct {
	disable bool
	enable  bool
}

func newServerSetCommand() *cobra.Command {
	flags := &serverSetFlags{}

	cmd := &cobra.Command{
		Use:   "set <key> [value...]",
		Short: "Edit a directive, adding it if absent",
		Long: `Set the value of the first directive matching the given key. When no
directive matches, a new one is appended at the end of the document.

Editing regenerates the line from its fields: the original spacing and
any inline comment on that line are replaced.

--disable comments the directive out; --enable re-activates a disabled
one. Without either flag the current state is kept.

Examples:
  sshsentinel server set PermitRootLogin no
  sshsentinel server set Port 2222 --config ./sshd_config
  sshsentinel server set PasswordAuthentication yes --disable`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.disable && flags.enable {
				return model.NewCLIError(model.ExitGeneralError,
					"--disable and --enable are mutually exclusive")
			}

			cfg, err := loadServerConfigForEdit()
			if err != nil {
				return err
			}

			key := args[0]
			value := strings.Join(args[1:], " ")

			var target *model.Directive
			if matches := cfg.DirectivesByKey(key); len(matches) > 0 {
				target = matches[0]
				commented := target.Commented
				if flags.disable {
					commented = true
				}
				if flags.enable {
					commented = false
				}
				target.Update(target.Key, value, commented)
				VerboseLog("Updated %s at line %d", target.Key, target.LineNumber)
			} else {
				target = cfg.AddDirective(key, value, flags.disable)
				VerboseLog("Appended new directive %s", key)
			}

			if err := cfg.Save(); err != nil {
				return err
			}
			printSavedDirective(cfg.Path, target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.disable, "disable", false, "Comment the directive out")
	cmd.Flags().BoolVar(&flags.enable, "enable", false, "Re-activate a disabled directive")

	return cmd
}

func newServerAddCommand() *cobra.Command {
	var commented bool

	cmd := &cobra.Command{
		Use:   "add <key> [value...]",
		Short: "Append a new directive at the end of the document",
		Long: `Append a directive without looking for existing occurrences. Duplicate
keys are legal in sshd_config; use "set" to edit in place instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfigForEdit()
			if err != nil {
				return err
			}

			d := cfg.AddDirective(args[0], strings.Join(args[1:], " "), commented)
			if err := cfg.Save(); err != nil {
				return err
			}
			printSavedDirective(cfg.Path, d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&commented, "commented", false, "Add the directive in disabled form")

	return cmd
}

func newServerDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a line by its zero-based index",
		Long: `Delete one line from the document by the index shown in "server show".
Include references recorded at parse time are not adjusted and may go
stale after a deletion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError,
					fmt.Sprintf("invalid line index %q", args[0]), err)
			}

			cfg, err := loadServerConfigForEdit()
			if err != nil {
				return err
			}
			if err := cfg.Delete(index); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			if IsJSONOutput() {
				printJSON(map[string]any{"deleted": index, "path": cfg.Path})
			} else {
				fmt.Printf("Deleted line %d from %s\n", index, cfg.Path)
			}
			return nil
		},
	}
}

// directiveJSON is the JSON output shape for one configuration line.
type directiveJSON struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Raw        string `json:"raw"`
	Commented  bool   `json:"commented"`
	LineNumber int    `json:"lineNumber"`
}

func directivesJSON(ds []*model.Directive) []directiveJSON {
	// Empty slice rather than nil so JSON output shows [] instead of null.
	out := make([]directiveJSON, 0, len(ds))
	for _, d := range ds {
		out = append(out, directiveJSON{
			Key:        d.Key,
			Value:      d.Value,
			Raw:        d.Raw,
			Commented:  d.Commented,
			LineNumber: d.LineNumber,
		})
	}
	return out
}

// printServerDocument renders the whole parsed document plus its
// include references.
func printServerDocument(cfg *servercfg.Config) {
	if IsJSONOutput() {
		includes := make([]map[string]any, 0, len(cfg.Includes))
		for _, inc := range cfg.Includes {
			includes = append(includes, map[string]any{
				"path":       inc.Path,
				"raw":        inc.Raw,
				"lineNumber": inc.LineNumber,
			})
		}
		printJSON(map[string]any{
			"path":     cfg.Path,
			"lines":    directivesJSON(cfg.Lines),
			"includes": includes,
		})
		return
	}

	fmt.Printf("%-6s %-28s %-10s %s\n", "INDEX", "KEY", "STATE", "VALUE")
	for i, d := range cfg.Lines {
		fmt.Printf("%-6d %-28s %-10s %s\n", i, displayKey(d), directiveState(d), d.Value)
	}

	if len(cfg.Includes) > 0 {
		fmt.Println()
		fmt.Println("Include references (not expanded):")
		for _, inc := range cfg.Includes {
			fmt.Printf("  line %d: %s\n", inc.LineNumber, inc.Path)
		}
	}
}

// printDirectiveRows renders lookup results as aligned columns.
func printDirectiveRows(ds []*model.Directive) {
	fmt.Printf("%-6s %-28s %-10s %s\n", "LINE", "KEY", "STATE", "VALUE")
	for _, d := range ds {
		fmt.Printf("%-6d %-28s %-10s %s\n", d.LineNumber, d.Key, directiveState(d), d.Value)
	}
}

func printSavedDirective(path string, d *model.Directive) {
	if IsJSONOutput() {
		printJSON(map[string]any{"path": path, "directive": directivesJSON([]*model.Directive{d})[0]})
		return
	}
	fmt.Printf("Saved %s: %s\n", path, d.Raw)
}

func displayKey(d *model.Directive) string {
	if d.IsComment() {
		return "<comment>"
	}
	return d.Key
}

func directiveState(d *model.Directive) string {
	switch {
	case d.IsComment():
		return "comment"
	case d.Commented:
		return "disabled"
	default:
		return "active"
	}
}
