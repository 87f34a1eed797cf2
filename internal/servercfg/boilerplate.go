package servercfg

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// boilerplateYAML is the shipped catalogue of stock vendor comment
// blocks. Keeping the catalogue in a data file rather than Go literals
// makes the elision behavior reviewable and editable without touching
// parser code.
//
//go:embed boilerplate.yaml
var boilerplateYAML []byte

// catalogueFile mirrors the YAML structure of boilerplate.yaml.
type catalogueFile struct {
	Blocks []catalogueBlock `yaml:"blocks"`
}

type catalogueBlock struct {
	Lines []string `yaml:"lines"`
}

// catalogue holds the parsed boilerplate blocks in priority order. Each
// block is a sequence of trimmed line texts that must match input lines
// exactly, in order, for the block to be elided.
var catalogue = mustLoadCatalogue(boilerplateYAML)

func mustLoadCatalogue(data []byte) [][]string {
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		// The catalogue is compiled into the binary; failing to parse it
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("servercfg: invalid embedded boilerplate catalogue: %v", err))
	}

	blocks := make([][]string, 0, len(file.Blocks))
	for _, b := range file.Blocks {
		if len(b.Lines) == 0 {
			continue
		}
		lines := make([]string, len(b.Lines))
		for i, l := range b.Lines {
			lines[i] = strings.TrimSpace(l)
		}
		blocks = append(blocks, lines)
	}
	return blocks
}

// matchBoilerplate tests whether the input lines starting at position i
// are an exact, whole-block match for one of the catalogue entries.
// Entries are tried in catalogue order and the first match wins.
//
// Returns the number of input lines the matched block covers, or 0 when
// no entry matches. Partial matches never count: a block is either
// consumed entirely or not at all.
func matchBoilerplate(lines []string, i int) int {
	for _, block := range catalogue {
		if i+len(block) > len(lines) {
			continue
		}
		matched := true
		for j, want := range block {
			if strings.TrimSpace(lines[i+j]) != want {
				matched = false
				break
			}
		}
		if matched {
			return len(block)
		}
	}
	return 0
}
