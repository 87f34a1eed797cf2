// explain.go implements the "sshsentinel explain" command: human-readable
// descriptions of sshd_config directives, from the embedded table or a
// user-supplied JSONC file. Descriptions are display glue — a directive
// without one is not an error.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sshsentinel/internal/explain"
)

// NewExplainCommand creates the "explain" command.
func NewExplainCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "explain [key]",
		Short: "Describe an sshd_config directive",
		Long: `Print the human-readable description of an sshd_config directive.
Without an argument, all described directive keys are listed.

Descriptions come from a table shipped with the binary; --file replaces
it with your own JSON or JSONC file mapping keys to descriptions.

Examples:
  sshsentinel explain PermitRootLogin
  sshsentinel explain --file ./site_explanations.jsonc Port
  sshsentinel explain`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := explain.Default()
			if file != "" {
				var err error
				if table, err = explain.LoadFile(file); err != nil {
					return err
				}
				VerboseLog("Loaded %d explanations from %s", len(table), file)
			}

			if len(args) == 0 {
				printExplainKeys(table)
				return nil
			}

			key := args[0]
			desc, ok := table.Lookup(key)

			if IsJSONOutput() {
				printJSON(map[string]any{"key": key, "description": desc, "found": ok})
				return nil
			}
			if !ok {
				fmt.Printf("No description available for %q.\n", key)
				return nil
			}
			fmt.Printf("%s\n  %s\n", key, desc)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON/JSONC explanations file")

	return cmd
}

func printExplainKeys(table explain.Table) {
	keys := table.Keys()
	if IsJSONOutput() {
		printJSON(map[string]any{"keys": keys})
		return
	}
	for _, k := range keys {
		fmt.Println(k)
	}
}
