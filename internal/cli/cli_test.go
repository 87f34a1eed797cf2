package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sshsentinel/internal/clientcfg"
	"github.com/mmr-tortoise/sshsentinel/internal/model"
	"github.com/mmr-tortoise/sshsentinel/internal/servercfg"
)

// runCommand executes the root command with the given arguments against
// a fresh command tree. Global flag state is reset afterwards so tests
// stay independent.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		configPath = ""
		jsonOutput = false
		verbose = false
	})

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(os.Stderr)
	return rootCmd.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestServerSetEditsInPlace(t *testing.T) {
	path := writeFile(t, "sshd_config", "# managed by ops\nPort     22\nUsePAM yes\n")

	require.NoError(t, runCommand(t, "server", "set", "Port", "2200", "--config", path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# managed by ops\nPort 2200\nUsePAM yes\n", string(got))

	// The edit bootstrapped a backup holding the pre-edit content.
	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "# managed by ops\nPort     22\nUsePAM yes\n", string(bak))
}

func TestServerSetAppendsWhenAbsent(t *testing.T) {
	path := writeFile(t, "sshd_config", "Port 22\n")

	require.NoError(t, runCommand(t, "server", "set", "AllowUsers", "deploy", "admin", "--config", path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Port 22\nAllowUsers deploy admin\n", string(got))
}

func TestServerSetDisable(t *testing.T) {
	path := writeFile(t, "sshd_config", "PasswordAuthentication yes\n")

	require.NoError(t, runCommand(t, "server", "set", "PasswordAuthentication", "yes", "--disable", "--config", path))

	cfg := servercfg.New(path)
	require.NoError(t, cfg.Load())
	d := cfg.DirectivesByKey("PasswordAuthentication")[0]
	assert.True(t, d.Commented)
	assert.Equal(t, "#PasswordAuthentication yes", d.Raw)
}

func TestServerSetConflictingFlags(t *testing.T) {
	path := writeFile(t, "sshd_config", "Port 22\n")

	err := runCommand(t, "server", "set", "Port", "22", "--disable", "--enable", "--config", path)
	require.Error(t, err)
}

func TestServerDelete(t *testing.T) {
	path := writeFile(t, "sshd_config", "Port 22\n# note\nUsePAM yes\n")

	require.NoError(t, runCommand(t, "server", "delete", "1", "--config", path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Port 22\nUsePAM yes\n", string(got))
}

func TestServerCommandsMissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "sshd_config")

	err := runCommand(t, "server", "show", "--config", missing)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigNotFound, cliErr.Code)
}

func TestClientAddHostAndSet(t *testing.T) {
	path := writeFile(t, "ssh_config", "Host github.com\n    User git\n")

	require.NoError(t, runCommand(t, "client", "add-host", "staging", "--config", path))
	require.NoError(t, runCommand(t, "client", "set", "1", "HostName", "staging.internal", "--config", path))

	cfg := clientcfg.New(path)
	require.NoError(t, cfg.Load())
	require.Len(t, cfg.Blocks, 2)

	assert.Equal(t, "staging", cfg.Blocks[1].Pattern())
	require.Len(t, cfg.Blocks[1].Options, 1)
	assert.Equal(t, "HostName staging.internal", cfg.Blocks[1].Options[0].Raw)

	// Block 0 untouched.
	require.Len(t, cfg.Blocks[0].Options, 1)
	assert.Equal(t, "    User git", cfg.Blocks[0].Options[0].Raw)
}

func TestClientSetInvalidHostIndex(t *testing.T) {
	path := writeFile(t, "ssh_config", "Host a\n    User x\n")

	err := runCommand(t, "client", "set", "5", "User", "y", "--config", path)
	require.Error(t, err)

	err = runCommand(t, "client", "set", "zero", "User", "y", "--config", path)
	require.Error(t, err)
}

func TestBackupAndRestoreCommands(t *testing.T) {
	path := writeFile(t, "sshd_config", "Port 22\n")

	require.NoError(t, runCommand(t, "backup", "--config", path))
	assert.FileExists(t, path+".bak")

	require.NoError(t, os.WriteFile(path, []byte("Port 9999\n"), 0o644))
	require.NoError(t, runCommand(t, "restore", "--config", path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Port 22\n", string(got))
}

func TestRestoreWithoutBackup(t *testing.T) {
	path := writeFile(t, "sshd_config", "Port 22\n")

	err := runCommand(t, "restore", "--config", path)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitBackupNotFound, cliErr.Code)
}

func TestExplainCommand(t *testing.T) {
	require.NoError(t, runCommand(t, "explain", "PermitRootLogin"))
	require.NoError(t, runCommand(t, "explain", "NotADirective"))
	require.NoError(t, runCommand(t, "explain"))
}

func TestTargetPath(t *testing.T) {
	configPath = ""
	assert.Equal(t, servercfg.DefaultPath, targetPath(false))
	assert.Equal(t, clientcfg.DefaultPath, targetPath(true))

	configPath = "/tmp/custom"
	defer func() { configPath = "" }()
	assert.Equal(t, "/tmp/custom", targetPath(false))
	assert.Equal(t, "/tmp/custom", targetPath(true))
}

func TestDirectiveStateLabels(t *testing.T) {
	active := model.ClassifyLine("Port 22", 1)
	disabled := model.ClassifyLine("#Port 22", 2)
	comment := model.ClassifyLine("", 3)

	assert.Equal(t, "active", directiveState(&active))
	assert.Equal(t, "disabled", directiveState(&disabled))
	assert.Equal(t, "comment", directiveState(&comment))
	assert.Equal(t, "<comment>", displayKey(&comment))
}

func TestDirectivesJSONIsNeverNil(t *testing.T) {
	out := directivesJSON(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}
