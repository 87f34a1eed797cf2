package servercfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

const sampleConfig = `# custom site notes
Include /etc/ssh/sshd_config.d/*.conf

Port 22
#PermitRootLogin prohibit-password
PasswordAuthentication   no

# lockdown applied 2024-03
MaxAuthTries 3
`

// TestRoundTripIdempotence: parsing then serializing an unmodified
// document (containing no catalogued boilerplate) reproduces the input
// byte for byte.
func TestRoundTripIdempotence(t *testing.T) {
	cfg := Parse(sampleConfig)
	assert.Equal(t, sampleConfig, cfg.Text())
}

func TestRoundTripNormalizesTrailingNewline(t *testing.T) {
	cfg := Parse("Port 22\nUsePAM yes")
	assert.Equal(t, "Port 22\nUsePAM yes\n", cfg.Text())
}

func TestParseEmptyDocument(t *testing.T) {
	cfg := Parse("")
	assert.Empty(t, cfg.Lines)
	assert.Equal(t, "\n", cfg.Text())
}

func TestParseClassification(t *testing.T) {
	cfg := Parse(sampleConfig)
	require.Len(t, cfg.Lines, 9)

	// "# custom site notes" is reclassified as a disabled directive by
	// the lossy comment heuristic (first word looks like a key).
	assert.Equal(t, "custom", cfg.Lines[0].Key)
	assert.True(t, cfg.Lines[0].Commented)

	include := cfg.Lines[1]
	assert.Equal(t, "Include", include.Key)
	assert.False(t, include.Commented)

	blank := cfg.Lines[2]
	assert.True(t, blank.IsComment())

	port := cfg.Lines[3]
	assert.Equal(t, "Port", port.Key)
	assert.Equal(t, "22", port.Value)
	assert.False(t, port.Commented)
	assert.Equal(t, 4, port.LineNumber)

	disabled := cfg.Lines[4]
	assert.Equal(t, "PermitRootLogin", disabled.Key)
	assert.Equal(t, "prohibit-password", disabled.Value)
	assert.True(t, disabled.Commented)
}

func TestIncludeRecording(t *testing.T) {
	cfg := Parse(sampleConfig)

	require.Len(t, cfg.Includes, 1)
	assert.Equal(t, "/etc/ssh/sshd_config.d/*.conf", cfg.Includes[0].Path)
	assert.Equal(t, 2, cfg.Includes[0].LineNumber)

	// The Include line is also a normal editable directive.
	matches := cfg.DirectivesByKey("include")
	require.Len(t, matches, 1)
	assert.Equal(t, "/etc/ssh/sshd_config.d/*.conf", matches[0].Value)
}

func TestIncludeVariants(t *testing.T) {
	cfg := Parse("include /etc/extra.conf\n#Include /etc/disabled.conf\nInclude\n")

	// Lowercase key is recorded; commented and bare Include lines are not.
	require.Len(t, cfg.Includes, 1)
	assert.Equal(t, "/etc/extra.conf", cfg.Includes[0].Path)
	assert.Len(t, cfg.Lines, 3)
}

// TestBoilerplateElision: a catalogued stock comment block disappears
// from the document entirely, while surrounding user content survives.
func TestBoilerplateElision(t *testing.T) {
	input := "# This is the sshd server system-wide configuration file.  See\n" +
		"# sshd_config(5) for more information.\n" +
		"\n" +
		"Port 22\n"

	cfg := Parse(input)
	assert.Equal(t, "\nPort 22\n", cfg.Text())
}

// TestBoilerplateNearMissIsKept: changing a single character anywhere in
// a catalogued block keeps every line — there is no partial matching.
func TestBoilerplateNearMissIsKept(t *testing.T) {
	input := "# This is the sshd server system-wide configuration file.  See\n" +
		"# sshd_config(5) for more informatiom.\n" + // one character changed
		"Port 22\n"

	cfg := Parse(input)
	assert.Equal(t, input, cfg.Text())
}

func TestBoilerplateMatchIgnoresIndentation(t *testing.T) {
	// Catalogue comparison is on trimmed lines, so indented copies of a
	// stock block are still elided.
	input := "  # override default of no subsystems\n" +
		"Subsystem sftp /usr/lib/openssh/sftp-server\n"

	cfg := Parse(input)
	assert.Equal(t, "Subsystem sftp /usr/lib/openssh/sftp-server\n", cfg.Text())
}

func TestBoilerplateTruncatedBlockIsKept(t *testing.T) {
	// Only the first line of a multi-line catalogue block: no whole-block
	// match, so the line stays.
	input := "# This is the sshd server system-wide configuration file.  See\n"

	cfg := Parse(input)
	assert.Equal(t, input, cfg.Text())
}

// TestEditThenSerialize: editing a directive's value replaces the
// original formatting regardless of the input spacing.
func TestEditThenSerialize(t *testing.T) {
	cfg := Parse("Port     22\n")

	ports := cfg.DirectivesByKey("Port")
	require.Len(t, ports, 1)
	ports[0].Update("Port", "2200", false)

	assert.Equal(t, "Port 2200\n", cfg.Text())
}

func TestDisableThenSerialize(t *testing.T) {
	cfg := Parse("PasswordAuthentication yes\n")

	d := cfg.DirectivesByKey("PasswordAuthentication")[0]
	d.Update(d.Key, d.Value, true)

	assert.Equal(t, "#PasswordAuthentication yes\n", cfg.Text())
}

func TestAddDirective(t *testing.T) {
	cfg := Parse("Port 22\n")

	cfg.AddDirective("AllowUsers", "deploy admin", false)
	cfg.AddDirective("Banner", "/etc/issue.net", true)

	assert.Equal(t, "Port 22\nAllowUsers deploy admin\n#Banner /etc/issue.net\n", cfg.Text())
}

func TestDuplicateKeysArePreserved(t *testing.T) {
	cfg := Parse("Port 22\nPort 2222\n")

	matches := cfg.DirectivesByKey("port")
	require.Len(t, matches, 2)
	assert.Equal(t, "22", matches[0].Value)
	assert.Equal(t, "2222", matches[1].Value)
	assert.Equal(t, "Port 22\nPort 2222\n", cfg.Text())
}

func TestDelete(t *testing.T) {
	cfg := Parse("Port 22\n# keepme\nMaxAuthTries 3\n")

	require.NoError(t, cfg.Delete(1))
	assert.Equal(t, "Port 22\nMaxAuthTries 3\n", cfg.Text())

	err := cfg.Delete(5)
	require.Error(t, err)
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}

func TestLoadMissingFile(t *testing.T) {
	cfg := New(filepath.Join(t.TempDir(), "sshd_config"))

	err := cfg.Load()
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigNotFound, cliErr.Code)
	assert.Empty(t, cfg.Lines, "failed load must not mutate state")
}

func TestLoadReplacesPriorState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sshd_config")
	require.NoError(t, os.WriteFile(path, []byte("Port 22\n"), 0o644))

	cfg := New(path)
	require.NoError(t, cfg.Load())
	require.Len(t, cfg.Lines, 1)

	require.NoError(t, os.WriteFile(path, []byte("Port 2222\nUsePAM yes\n"), 0o644))
	require.NoError(t, cfg.Load())
	require.Len(t, cfg.Lines, 2)
	assert.Equal(t, "2222", cfg.Lines[0].Value)
}

// TestSaveWritesBackupThenFile: saving snapshots the pre-edit on-disk
// content to the .bak sibling before overwriting the live file.
func TestSaveWritesBackupThenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sshd_config")
	require.NoError(t, os.WriteFile(path, []byte("Port 22\n"), 0o644))

	cfg := New(path)
	require.NoError(t, cfg.Load())
	cfg.DirectivesByKey("Port")[0].Update("Port", "2200", false)
	require.NoError(t, cfg.Save())

	live, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Port 2200\n", string(live))

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "Port 22\n", string(bak), "backup must hold the pre-save content")
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, New("").Path)
	assert.Equal(t, "/tmp/x", New("/tmp/x").Path)
}
