package explain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

// defaultExplanations is the shipped description table. The asset is
// JSONC (JSON with comments), so it can carry commentary alongside the
// data; comments are stripped before parsing.
//
//go:embed sshd_explanations.jsonc
var defaultExplanations []byte

// Table maps directive keys to one-line human-readable descriptions.
// Lookups are by exact key string, matching the lookup contract of the
// original asset files.
type Table map[string]string

// Default returns the embedded description table.
func Default() Table {
	t, err := parse(defaultExplanations)
	if err != nil {
		// The asset is compiled into the binary; failing to parse it is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("explain: invalid embedded explanations asset: %v", err))
	}
	return t
}

// LoadFile reads a user-supplied description table. The file may be
// plain JSON or JSONC — comments and trailing commas are stripped the
// same way the embedded asset is handled.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("explanations file not found: %s", path), err)
		}
		return nil, model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to read explanations file %s", path), err)
	}

	t, err := parse(data)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to parse explanations file %s", path), err)
	}
	return t, nil
}

func parse(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(jsonc.ToJSON(data), &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup returns the description for a directive key. The second return
// reports whether an entry exists; a missing entry is not an error.
func (t Table) Lookup(key string) (string, bool) {
	desc, ok := t[key]
	return desc, ok
}

// Keys returns the described directive keys in sorted order, for
// listings.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
