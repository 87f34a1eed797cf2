package model

import (
	"strings"
)

// Directive represents one physical line of an OpenSSH configuration file.
//
// Three shapes are distinguished:
//   - Active directive:   Key != "", Commented == false  (e.g. "Port 22")
//   - Disabled directive: Key != "", Commented == true   (e.g. "#Port 22")
//   - Comment/blank line: Key == "", Commented == true
//
// Value is only meaningful when Key is non-empty; for pure comments and
// blank lines it is always the empty string. An active or disabled
// directive may also carry an empty Value when the key stands alone on
// its line.
type Directive struct {
	// Key is the directive name exactly as written. Lookups compare keys
	// case-insensitively (see KeyEquals), but the original casing is kept
	// for display and re-serialization.
	Key string `json:"key"`

	// Value is the remainder of the line after the key, with the
	// separating whitespace removed. Interior whitespace within the value
	// is preserved.
	Value string `json:"value"`

	// Raw is the exact original line text without its trailing newline.
	// It is emitted verbatim on serialization unless the directive has
	// been edited, in which case Update recomputes it.
	Raw string `json:"raw"`

	// Commented is true for disabled directives and for pure comment or
	// blank lines. Combined with Key it distinguishes a disabled setting
	// from prose commentary.
	Commented bool `json:"commented"`

	// LineNumber is the 1-based position in the original file. It is
	// retained for diagnostics only; serialization order is the document
	// order, not this number.
	LineNumber int `json:"lineNumber"`
}

// IncludeRef records an Include directive seen in a server configuration.
// The referenced file is never opened or parsed — the reference exists
// purely for visibility. After deletions elsewhere in the document the
// recorded line number may go stale; callers must treat these entries as
// best-effort metadata.
type IncludeRef struct {
	// Path is the include target as written, possibly containing
	// wildcards (e.g. "/etc/ssh/sshd_config.d/*.conf").
	Path string `json:"path"`

	// Raw is the original line text.
	Raw string `json:"raw"`

	// LineNumber is the 1-based position of the Include line.
	LineNumber int `json:"lineNumber"`
}

// ClassifyLine parses a single physical line (already stripped of its
// trailing newline) into a Directive.
//
// Classification rules, applied in order:
//  1. A line that is blank or starts with '#' after trimming is first
//     checked for the disabled-directive shape: the text after the '#'
//     markers must look like "<key> [value]". If so it becomes a disabled
//     directive. This heuristic is intentionally lossy — a prose comment
//     whose first word looks like a key is indistinguishable from a
//     disabled setting.
//  2. Anything else blank or '#'-prefixed is a pure comment.
//  3. A non-blank, non-comment line splits at its first whitespace run
//     into key and value. The split never fails for non-empty input, so
//     malformed content degrades to a comment rather than an error.
//
// Raw always keeps the original line text untouched, including interior
// and leading whitespace.
func ClassifyLine(line string, lineNum int) Directive {
	stripped := strings.TrimSpace(line)

	if stripped == "" || strings.HasPrefix(stripped, "#") {
		if strings.HasPrefix(stripped, "#") {
			uncommented := strings.TrimSpace(strings.TrimLeft(stripped, "#"))
			if uncommented != "" {
				key, value := SplitKeyValue(uncommented)
				return Directive{
					Key:        key,
					Value:      value,
					Raw:        line,
					Commented:  true,
					LineNumber: lineNum,
				}
			}
		}

		// Pure comment or blank line.
		return Directive{
			Raw:        line,
			Commented:  true,
			LineNumber: lineNum,
		}
	}

	key, value := SplitKeyValue(stripped)
	return Directive{
		Key:        key,
		Value:      value,
		Raw:        line,
		Commented:  false,
		LineNumber: lineNum,
	}
}

// SplitKeyValue splits a trimmed line into its first token and the rest.
//
// The key is the first run of non-whitespace characters; the value is
// everything after the separating whitespace run, kept as written
// (interior whitespace preserved). When the key stands alone the value
// is the empty string.
//
// This is a manual scan on purpose: the behavior must be exactly "first
// token is key, remainder is value" without depending on any regexp
// engine's whitespace semantics.
func SplitKeyValue(s string) (key, value string) {
	end := strings.IndexFunc(s, isSpace)
	if end < 0 {
		return s, ""
	}

	key = s[:end]

	// Skip the whitespace run separating key from value.
	rest := s[end:]
	start := strings.IndexFunc(rest, func(r rune) bool { return !isSpace(r) })
	if start < 0 {
		return key, ""
	}
	return key, rest[start:]
}

// isSpace reports whether r is an ASCII whitespace character as used by
// OpenSSH's own tokenizer (space and tab; the line terminator is already
// gone by the time classification runs).
func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// NewDirective builds a fresh directive with its Raw text computed from
// the given fields, using the same rule as Update.
func NewDirective(key, value string, commented bool, lineNum int) *Directive {
	d := &Directive{LineNumber: lineNum}
	d.Update(key, value, commented)
	return d
}

// Update edits the directive in place and recomputes Raw from the new
// fields: "key value" joined by a single space (key alone when value is
// empty), prefixed with '#' when commented.
//
// This deliberately discards the original formatting — inter-token
// spacing and any trailing inline comment on the same line are lost the
// moment a directive is edited.
func (d *Directive) Update(key, value string, commented bool) {
	d.Key = key
	d.Value = value
	d.Commented = commented

	raw := key
	if value != "" {
		raw = key + " " + value
	}
	if commented {
		raw = "#" + raw
	}
	d.Raw = raw
}

// KeyEquals reports whether the directive's key matches the given key,
// ignoring case. Pure comments (empty key) never match.
func (d *Directive) KeyEquals(key string) bool {
	return d.Key != "" && strings.EqualFold(d.Key, key)
}

// IsComment reports whether the directive is a pure comment or blank
// line, as opposed to an active or disabled setting.
func (d *Directive) IsComment() bool {
	return d.Key == ""
}

// SerializedRaw returns the text to emit for this directive. Raw is
// emitted verbatim, except that a disabled directive whose Raw lost its
// '#' marker (possible only through external mutation of the fields)
// gets one re-added so the setting cannot silently become active.
func (d *Directive) SerializedRaw() string {
	if d.Commented && d.Key != "" && !strings.HasPrefix(strings.TrimSpace(d.Raw), "#") {
		return "#" + d.Raw
	}
	return d.Raw
}

// String returns a short human-readable form used in listings, matching
// the display convention of the original editor: "Key: value" with a
// leading "# " for disabled entries and "<comment>" for prose lines.
func (d *Directive) String() string {
	title := d.Key
	if d.Key != "" && d.Value != "" {
		title = d.Key + ": " + d.Value
	}
	if title == "" {
		title = "<comment>"
	}
	if d.Commented && d.Key != "" {
		title = "# " + title
	}
	return title
}
