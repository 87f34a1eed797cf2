package servercfg

import (
	"fmt"
	"os"
	"strings"

	"github.com/mmr-tortoise/sshsentinel/internal/backup"
	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

// DefaultPath is the conventional location of the OpenSSH server
// configuration file.
const DefaultPath = "/etc/ssh/sshd_config"

// Config is the in-memory document for one sshd_config file: a flat
// ordered sequence of directive, comment, and blank lines. The sequence
// is the single source of truth — its length and relative order change
// only through explicit add/delete operations, and edits mutate entries
// in place.
type Config struct {
	// Path is the on-disk location this document was loaded from and
	// will be saved to.
	Path string

	// Lines holds every retained line of the file in original order.
	Lines []*model.Directive

	// Includes records every active Include directive for visibility.
	// Referenced files are never parsed. Entries are not updated when
	// lines are deleted, so they are best-effort metadata only.
	Includes []model.IncludeRef
}

// New creates an empty Config bound to the given path, defaulting to
// DefaultPath when the path is empty.
func New(path string) *Config {
	if path == "" {
		path = DefaultPath
	}
	return &Config{Path: path}
}

// Load reads and parses the configuration file at c.Path.
//
// Loading is all-or-nothing: on any failure the prior in-memory document
// is left untouched. A missing file fails with model.ExitConfigNotFound;
// any other read failure surfaces as model.ExitIOError. Content shape
// never fails a load — unclassifiable lines degrade to comments.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.WrapCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("SSH server config not found: %s", c.Path), err)
		}
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to read %s", c.Path), err)
	}

	c.Lines, c.Includes = parseLines(string(data))
	return nil
}

// Parse builds an in-memory Config from raw file content without
// touching the filesystem. The Path is left empty.
func Parse(text string) *Config {
	c := &Config{}
	c.Lines, c.Includes = parseLines(text)
	return c
}

// parseLines applies the line classifier to each physical line in order,
// with two server-dialect additions: recognized boilerplate blocks are
// consumed without entering the document, and active Include directives
// are recorded as references.
func parseLines(text string) ([]*model.Directive, []model.IncludeRef) {
	lines := splitLines(text)

	var (
		parsed   []*model.Directive
		includes []model.IncludeRef
	)

	i := 0
	for i < len(lines) {
		raw := lines[i]
		stripped := strings.TrimSpace(raw)

		if stripped == "" || strings.HasPrefix(stripped, "#") {
			if n := matchBoilerplate(lines, i); n > 0 {
				// Whole stock comment block: drop it and resume after.
				i += n
				continue
			}
		}

		d := model.ClassifyLine(raw, i+1)

		// Include is recorded in addition to, not instead of, its
		// directive classification. A reference needs a non-empty path;
		// a bare "Include" stays a plain directive.
		if !d.Commented && d.KeyEquals("Include") && d.Value != "" {
			includes = append(includes, model.IncludeRef{
				Path:       d.Value,
				Raw:        raw,
				LineNumber: i + 1,
			})
		}

		parsed = append(parsed, &d)
		i++
	}

	return parsed, includes
}

// splitLines breaks file content into physical lines without their
// terminators. A trailing newline does not produce a phantom empty line,
// and empty content yields no lines at all.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	// Tolerate CRLF input: the classifier and serializer work on the
	// line body only.
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Text renders the document back to file content. Every line emits its
// raw text verbatim (with the disabled-directive '#' safety net), joined
// by single newlines with exactly one trailing newline.
func (c *Config) Text() string {
	parts := make([]string, 0, len(c.Lines))
	for _, d := range c.Lines {
		parts = append(parts, d.SerializedRaw())
	}
	return strings.Join(parts, "\n") + "\n"
}

// AddDirective appends a new directive at the end of the document and
// returns it. Raw is computed from the fields; a commented directive is
// created disabled.
func (c *Config) AddDirective(key, value string, commented bool) *model.Directive {
	d := model.NewDirective(key, value, commented, len(c.Lines)+1)
	c.Lines = append(c.Lines, d)
	return d
}

// Delete removes the line at the given zero-based position. Include
// references recorded at parse time are not adjusted.
func (c *Config) Delete(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("line index %d out of range (document has %d lines)", index, len(c.Lines)))
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return nil
}

// DirectivesByKey returns every directive whose key matches the given
// key case-insensitively, in document order. Disabled directives match
// too; duplicates are legal and all returned. Pure comments never match.
func (c *Config) DirectivesByKey(key string) []*model.Directive {
	var out []*model.Directive
	for _, d := range c.Lines {
		if d.KeyEquals(key) {
			out = append(out, d)
		}
	}
	return out
}

// Save snapshots the current on-disk file to its backup sibling and then
// writes the serialized document over the live file. The write goes
// through a temp file and rename so a crash cannot truncate the target.
func (c *Config) Save() error {
	if _, err := backup.Write(c.Path, ""); err != nil {
		return err
	}
	return backup.WriteFileAtomic(c.Path, []byte(c.Text()))
}
