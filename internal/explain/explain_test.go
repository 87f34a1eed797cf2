package explain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

func TestDefaultTable(t *testing.T) {
	table := Default()
	require.NotEmpty(t, table)

	desc, ok := table.Lookup("PermitRootLogin")
	require.True(t, ok)
	assert.Contains(t, desc, "root")

	_, ok = table.Lookup("NoSuchDirective")
	assert.False(t, ok, "a missing entry is not an error, just absent")
}

func TestLookupIsExactMatch(t *testing.T) {
	table := Default()

	_, ok := table.Lookup("permitrootlogin")
	assert.False(t, ok, "lookup uses the exact key string")
}

func TestLoadFileWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.jsonc")
	content := `{
  // site-specific notes
  "Port": "Our sshd listens on 2222 only.",
  "Banner": "Points at the legal banner.", // trailing comma tolerated below
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, table, 2)

	desc, ok := table.Lookup("Port")
	require.True(t, ok)
	assert.Equal(t, "Our sshd listens on 2222 only.", desc)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigNotFound, cliErr.Code)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}

func TestKeysAreSorted(t *testing.T) {
	table := Table{"Zeta": "z", "Alpha": "a", "Mid": "m"}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, table.Keys())
}
