// client.go implements the "sshsentinel client" command group, which
// operates on the Host-block-structured ssh_config dialect: listing
// blocks, showing a block's directives, adding blocks, and editing or
// deleting directives within a block. Blocks are addressed by the
// zero-based index shown in "client hosts".
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sshsentinel/internal/backup"
	"github.com/mmr-tortoise/sshsentinel/internal/clientcfg"
	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

// NewClientCommand creates the "client" command group with its
// subcommands.
func NewClientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Edit the OpenSSH client configuration (ssh_config)",
	}

	cmd.AddCommand(newClientHostsCommand())
	cmd.AddCommand(newClientShowCommand())
	cmd.AddCommand(newClientAddHostCommand())
	cmd.AddCommand(newClientSetCommand())
	cmd.AddCommand(newClientDeleteCommand())

	return cmd
}

func loadClientConfig() (*clientcfg.Config, error) {
	cfg := clientcfg.New(configPath)
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	VerboseLog("Loaded %s: %d host blocks", cfg.Path, len(cfg.Blocks))
	return cfg, nil
}

func loadClientConfigForEdit() (*clientcfg.Config, error) {
	cfg, err := loadClientConfig()
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

func newClientHostsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List all Host blocks",
		Long: `List every Host block with its zero-based index, pattern, and the
number of lines it owns.

Examples:
  sshsentinel client hosts --config ~/.ssh/config
  sshsentinel client hosts --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadClientConfig()
			if err != nil {
				return err
			}
			printHostList(cfg)
			return nil
		},
	}
}

func newClientShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <host-index>",
		Short: "List the lines of one Host block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadClientConfig()
			if err != nil {
				return err
			}
			block, err := blockByArg(cfg, args[0])
			if err != nil {
				return err
			}

			if IsJSONOutput() {
				printJSON(map[string]any{
					"pattern": block.Pattern(),
					"header":  block.Header.Raw,
					"lines":   directivesJSON(block.Options),
				})
				return nil
			}

			fmt.Println(block.Header.Raw)
			fmt.Printf("%-6s %-28s %-10s %s\n", "INDEX", "KEY", "STATE", "VALUE")
			for i, d := range block.Options {
				fmt.Printf("%-6d %-28s %-10s %s\n", i, displayKey(d), directiveState(d), d.Value)
			}
			return nil
		},
	}
}

func newClientAddHostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-host <pattern>",
		Short: "Append a new empty Host block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := strings.TrimSpace(args[0])
			if pattern == "" {
				return model.NewCLIError(model.ExitGeneralError, "host pattern must not be empty")
			}

			cfg, err := loadClientConfigForEdit()
			if err != nil {
				return err
			}

			block := cfg.AddHost(pattern)
			if err := cfg.Save(); err != nil {
				return err
			}

			if IsJSONOutput() {
				printJSON(map[string]any{
					"path":    cfg.Path,
					"index":   len(cfg.Blocks) - 1,
					"pattern": block.Pattern(),
				})
			} else {
				fmt.Printf("Added %q to %s (host index %d)\n", block.Header.Raw, cfg.Path, len(cfg.Blocks)-1)
			}
			return nil
		},
	}
}

func newClientSetCommand() *cobra.Command {
	flags := &serverSetFlags{}

	cmd := &cobra.Command{
		Use:   "set <host-index> <key> [value...]",
		Short: "Edit a directive within a Host block, adding it if absent",
		Long: `Set the value of the first directive matching the key inside the given
Host block. When no directive matches, a new one is appended at the tail
of the block. Editing regenerates the line and discards its original
formatting.

Examples:
  sshsentinel client set 0 User git
  sshsentinel client set 1 Port 2222 --disable`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.disable && flags.enable {
				return model.NewCLIError(model.ExitGeneralError,
					"--disable and --enable are mutually exclusive")
			}

			cfg, err := loadClientConfigForEdit()
			if err != nil {
				return err
			}
			block, err := blockByArg(cfg, args[0])
			if err != nil {
				return err
			}

			key := args[1]
			value := strings.Join(args[2:], " ")

			var target *model.Directive
			if matches := block.OptionsByKey(key); len(matches) > 0 {
				target = matches[0]
				commented := target.Commented
				if flags.disable {
					commented = true
				}
				if flags.enable {
					commented = false
				}
				target.Update(target.Key, value, commented)
			} else {
				target = block.AddOption(key, value, flags.disable)
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

func newClientDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <host-index> <option-index>",
		Short: "Delete a line from a Host block by position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadClientConfigForEdit()
			if err != nil {
				return err
			}
			block, err := blockByArg(cfg, args[0])
			if err != nil {
				return err
			}

			index, err := strconv.Atoi(args[1])
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError,
					fmt.Sprintf("invalid option index %q", args[1]), err)
			}
			if err := block.DeleteOption(index); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			if IsJSONOutput() {
				printJSON(map[string]any{"path": cfg.Path, "host": block.Pattern(), "deleted": index})
			} else {
				fmt.Printf("Deleted line %d from host %q in %s\n", index, block.Pattern(), cfg.Path)
			}
			return nil
		},
	}
}

// blockByArg resolves a positional host-index argument to its block.
func blockByArg(cfg *clientcfg.Config, arg string) (*clientcfg.HostBlock, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid host index %q", arg), err)
	}
	return cfg.Block(index)
}

// printHostList renders the Host block overview.
func printHostList(cfg *clientcfg.Config) {
	if IsJSONOutput() {
		type hostJSON struct {
			Index   int    `json:"index"`
			Pattern string `json:"pattern"`
			Lines   int    `json:"lines"`
		}
		hosts := make([]hostJSON, 0, len(cfg.Blocks))
		for i, b := range cfg.Blocks {
			hosts = append(hosts, hostJSON{Index: i, Pattern: b.Pattern(), Lines: len(b.Options)})
		}
		printJSON(map[string]any{"path": cfg.Path, "hosts": hosts})
		return
	}

	if len(cfg.Blocks) == 0 {
		fmt.Println("No Host blocks found.")
		return
	}

	fmt.Printf("%-6s %-30s %s\n", "INDEX", "PATTERN", "LINES")
	for i, b := range cfg.Blocks {
		fmt.Printf("%-6d %-30s %d\n", i, b.Pattern(), len(b.Options))
	}
}
