// Package hostsfile rewrites the loopback-alias line of a hosts-mapping
// file. The reconciler is a single pass over an in-memory line sequence:
// anchored replace first, whole-word rename second, insert or append as
// gated last resorts. Everything else passes through verbatim.
package hostsfile

import (
	"regexp"
	"strings"
)

// LoopbackAlias is the address Debian-family installers map a machine's
// own name to.
const LoopbackAlias = "127.0.1.1"

// AnchorPattern matches the authoritative loopback-alias line.
var AnchorPattern = regexp.MustCompile(`^\s*127\.0\.1\.1\s`)

// FallbackPattern matches the localhost line used as the insertion point
// when no loopback-alias line exists yet.
var FallbackPattern = regexp.MustCompile(`^\s*127\.0\.0\.1\s`)

// Action reports which reconciliation rule fired.
type Action int

const (
	// ActionUnchanged means a rule fired but produced identical content.
	ActionUnchanged Action = iota
	// ActionReplaced means the first anchor line was rewritten.
	ActionReplaced
	// ActionRenamed means the previous hostname was renamed in place.
	ActionRenamed
	// ActionInserted means the replacement landed after the fallback line.
	ActionInserted
	// ActionAppended means the replacement became the final line.
	ActionAppended
	// ActionSkipped means insertion was needed but not allowed.
	ActionSkipped
)

func (a Action) String() string {
	switch a {
	case ActionUnchanged:
		return "unchanged"
	case ActionReplaced:
		return "replaced"
	case ActionRenamed:
		return "renamed"
	case ActionInserted:
		return "inserted"
	case ActionAppended:
		return "appended"
	case ActionSkipped:
		return "skipped"
	}
	return "unknown"
}

// Options configure one reconcile pass.
type Options struct {
	// Replacement is the authoritative line, e.g. "127.0.1.1 web1.example.com web1".
	Replacement string

	// Anchor matches the line to replace. The first match wins; later
	// duplicates are left untouched.
	Anchor *regexp.Regexp

	// Fallback matches the line the replacement is inserted after when
	// neither anchor nor rename applies. Nil disables insertion and goes
	// straight to append.
	Fallback *regexp.Regexp

	// PreviousHost enables the whole-word rename fallback when non-empty.
	PreviousHost string

	// NewHost is the token written over PreviousHost during a rename.
	NewHost string

	// AllowInsert gates the insert and append fallbacks. It is set on
	// known-safe distribution families or by an explicit force flag;
	// replace and rename are always allowed.
	AllowInsert bool
}

// Line builds the loopback-alias hosts line for a hostname. An FQDN
// carries the short name along as an alias.
func Line(fqdn, short string) string {
	if fqdn != "" && fqdn != short {
		return LoopbackAlias + " " + fqdn + " " + short
	}
	return LoopbackAlias + " " + short
}

// Reconcile applies the rewrite rules to lines and reports which rule
// fired:
//
//  1. Replace the first line matching Anchor with Replacement.
//  2. Otherwise, when PreviousHost appears as a whitespace-delimited
//     token anywhere, rename every occurrence on every line to NewHost
//     and stop; no line is inserted.
//  3. Otherwise insert Replacement immediately after the first line
//     matching Fallback.
//  4. Otherwise append Replacement as the final line.
//
// Steps 3 and 4 run only when AllowInsert is set; otherwise the input is
// returned as-is with ActionSkipped. The input slice is never modified.
func Reconcile(lines []string, opts Options) ([]string, Action) {
	if opts.Anchor != nil {
		for i, line := range lines {
			if opts.Anchor.MatchString(line) {
				out := make([]string, len(lines))
				copy(out, lines)
				out[i] = opts.Replacement
				return out, ActionReplaced
			}
		}
	}

	if opts.PreviousHost != "" {
		out := make([]string, len(lines))
		renamed := false
		for i, line := range lines {
			next, ok := renameToken(line, opts.PreviousHost, opts.NewHost)
			out[i] = next
			if ok {
				renamed = true
			}
		}
		if renamed {
			return out, ActionRenamed
		}
	}

	if !opts.AllowInsert {
		return lines, ActionSkipped
	}

	if opts.Fallback != nil {
		for i, line := range lines {
			if opts.Fallback.MatchString(line) {
				out := make([]string, 0, len(lines)+1)
				out = append(out, lines[:i+1]...)
				out = append(out, opts.Replacement)
				out = append(out, lines[i+1:]...)
				return out, ActionInserted
			}
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines...)
	out = append(out, opts.Replacement)
	return out, ActionAppended
}

// renameToken rewrites every whitespace-delimited field of line that is
// exactly old to new, preserving the original spacing. A field like
// "old.example.com" is not a match for "old"; the rename touches whole
// tokens only, which can leave a stale FQDN alias next to an updated
// short name.
func renameToken(line, old, new string) (string, bool) {
	var b strings.Builder
	replaced := false
	i := 0
	for i < len(line) {
		if isSpace(line[i]) {
			j := i
			for j < len(line) && isSpace(line[j]) {
				j++
			}
			b.WriteString(line[i:j])
			i = j
			continue
		}
		j := i
		for j < len(line) && !isSpace(line[j]) {
			j++
		}
		field := line[i:j]
		if field == old {
			b.WriteString(new)
			replaced = true
		} else {
			b.WriteString(field)
		}
		i = j
	}
	if !replaced {
		return line, false
	}
	return b.String(), true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
