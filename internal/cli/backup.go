// backup.go implements the "sshsentinel backup" and "sshsentinel restore"
// commands: explicit snapshot and restore of the live configuration file
// via its .bak sibling.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sshsentinel/internal/backup"
	"github.com/mmr-tortoise/sshsentinel/internal/clientcfg"
	"github.com/mmr-tortoise/sshsentinel/internal/servercfg"
)

// targetPath resolves the configuration file the backup commands operate
// on: the --config override when given, otherwise the conventional path
// of the selected dialect.
func targetPath(client bool) string {
	if configPath != "" {
		return configPath
	}
	if client {
		return clientcfg.DefaultPath
	}
	return servercfg.DefaultPath
}

// NewBackupCommand creates the "backup" command.
func NewBackupCommand() *cobra.Command {
	var (
		client bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the configuration file to its .bak sibling",
		Long: `Copy the live configuration file byte for byte to its backup sibling
(<config>.bak by default), overwriting any existing backup.

Examples:
  sshsentinel backup
  sshsentinel backup --client
  sshsentinel backup --config ./sshd_config --output /tmp/sshd_config.snapshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := targetPath(client)

			bak, err := backup.Write(path, output)
			if err != nil {
				return err
			}

			if IsJSONOutput() {
				printJSON(map[string]any{"path": path, "backup": bak})
			} else {
				fmt.Printf("Backup created at %s\n", bak)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&client, "client", false, "Target the client config (ssh_config) default path")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Backup destination (default: <config>.bak)")

	return cmd
}

// NewRestoreCommand creates the "restore" command.
func NewRestoreCommand() *cobra.Command {
	var (
		client bool
		from   string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the configuration file from its backup",
		Long: `Copy the backup back over the live configuration file. Fails when no
backup exists; the live file is left untouched in that case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := targetPath(client)

			if err := backup.Restore(path, from); err != nil {
				return err
			}

			if IsJSONOutput() {
				printJSON(map[string]any{"path": path, "restored": true})
			} else {
				fmt.Printf("Restored %s from backup\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&client, "client", false, "Target the client config (ssh_config) default path")
	cmd.Flags().StringVar(&from, "from", "", "Backup to restore from (default: <config>.bak)")

	return cmd
}
