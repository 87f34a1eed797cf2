package clientcfg

import (
	"fmt"
	"os"
	"strings"

	"github.com/mmr-tortoise/sshsentinel/internal/backup"
	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

// DefaultPath is the conventional location of the OpenSSH client
// configuration file.
const DefaultPath = "/etc/ssh/ssh_config"

// HostBlock groups the directive lines scoped under one "Host <pattern>"
// header. Options holds directives, comments, and blank lines in their
// original order.
type HostBlock struct {
	// Header is the raw Host line that opened this block. Its Value is
	// the host pattern.
	Header model.Directive

	// Options are the lines owned by this block, in file order.
	Options []*model.Directive
}

// Pattern returns the host pattern from the block header.
func (b *HostBlock) Pattern() string {
	return b.Header.Value
}

// AddOption appends a new directive at the tail of this block and
// returns it.
func (b *HostBlock) AddOption(key, value string, commented bool) *model.Directive {
	d := model.NewDirective(key, value, commented, 0)
	b.Options = append(b.Options, d)
	return d
}

// DeleteOption removes the line at the given zero-based position within
// this block.
func (b *HostBlock) DeleteOption(index int) error {
	if index < 0 || index >= len(b.Options) {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("option index %d out of range (block has %d lines)", index, len(b.Options)))
	}
	b.Options = append(b.Options[:index], b.Options[index+1:]...)
	return nil
}

// OptionsByKey returns every directive in this block whose key matches
// case-insensitively, in block order.
func (b *HostBlock) OptionsByKey(key string) []*model.Directive {
	var out []*model.Directive
	for _, d := range b.Options {
		if d.KeyEquals(key) {
			out = append(out, d)
		}
	}
	return out
}

// Config is the in-memory document for one ssh_config file: an ordered
// sequence of Host blocks.
type Config struct {
	// Path is the on-disk location this document was loaded from and
	// will be saved to.
	Path string

	// Blocks holds the Host blocks in file order.
	Blocks []*HostBlock
}

// New creates an empty Config bound to the given path, defaulting to
// DefaultPath when the path is empty.
func New(path string) *Config {
	if path == "" {
		path = DefaultPath
	}
	return &Config{Path: path}
}

// Load reads and parses the configuration file at c.Path. Loading is
// all-or-nothing: on failure the prior in-memory document is untouched.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.WrapCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("SSH config not found: %s", c.Path), err)
		}
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to read %s", c.Path), err)
	}

	c.Blocks = parseBlocks(string(data))
	return nil
}

// Parse builds an in-memory Config from raw file content without
// touching the filesystem. The Path is left empty.
func Parse(text string) *Config {
	return &Config{Blocks: parseBlocks(text)}
}

// parseBlocks applies the shared line classifier and groups lines into
// Host blocks. A line whose key is "Host" (case-insensitive, active)
// opens a new block; it becomes the block header and is not added as a
// directive inside any block. Lines before the first Host line have no
// owning block and are dropped.
func parseBlocks(text string) []*HostBlock {
	var blocks []*HostBlock
	var current *HostBlock

	for i, raw := range splitLines(text) {
		d := model.ClassifyLine(raw, i+1)

		if !d.Commented && d.KeyEquals("Host") {
			current = &HostBlock{Header: d}
			blocks = append(blocks, current)
			continue
		}

		if current == nil {
			// Preamble before the first Host block: no owner, dropped.
			continue
		}
		line := d
		current.Options = append(current.Options, &line)
	}

	return blocks
}

// splitLines breaks file content into physical lines without their
// terminators, tolerating CRLF input and a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Text renders the document back to file content: each block emits its
// header followed by its lines, all raw text verbatim (with the
// disabled-directive '#' safety net), joined by single newlines with
// exactly one trailing newline.
func (c *Config) Text() string {
	var parts []string
	for _, b := range c.Blocks {
		parts = append(parts, b.Header.SerializedRaw())
		for _, d := range b.Options {
			parts = append(parts, d.SerializedRaw())
		}
	}
	return strings.Join(parts, "\n") + "\n"
}

// AddHost appends a new empty block with a "Host <pattern>" header and
// returns it.
func (c *Config) AddHost(pattern string) *HostBlock {
	b := &HostBlock{
		Header: *model.NewDirective("Host", pattern, false, 0),
	}
	c.Blocks = append(c.Blocks, b)
	return b
}

// Block returns the block at the given zero-based index.
func (c *Config) Block(index int) (*HostBlock, error) {
	if index < 0 || index >= len(c.Blocks) {
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("host index %d out of range (config has %d hosts)", index, len(c.Blocks)))
	}
	return c.Blocks[index], nil
}

// Save snapshots the current on-disk file to its backup sibling and then
// writes the serialized document over the live file, through a temp file
// and rename.
func (c *Config) Save() error {
	if _, err := backup.Write(c.Path, ""); err != nil {
		return err
	}
	return backup.WriteFileAtomic(c.Path, []byte(c.Text()))
}
