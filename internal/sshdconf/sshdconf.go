// Package sshdconf patches option assignments in the global segment of
// an OpenSSH server configuration, the part before the first Match
// block. Match blocks and everything after them pass through untouched.
package sshdconf

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/textfile"
)

// Option is one global sshd_config assignment.
type Option struct {
	Key   string
	Value string
}

// HardenOptions are the directives applied when password authentication
// is disabled, in application order.
var HardenOptions = []Option{
	{"PubkeyAuthentication", "yes"},
	{"PasswordAuthentication", "no"},
	{"ChallengeResponseAuthentication", "no"},
	{"KbdInteractiveAuthentication", "no"},
}

// SetGlobalOption rewrites lines so exactly one active "<key> <value>"
// assignment survives in the global segment. Existing assignments for
// key are dropped, commented-out ones included: both read as old values.
// The kept assignment is not left in place; it lands immediately before
// the first Match line, or at end of file when there is none.
func SetGlobalOption(lines []string, key, value string) []string {
	out := make([]string, 0, len(lines)+1)
	inserted := false
	inMatch := false

	for _, line := range lines {
		if inMatch {
			out = append(out, line)
			continue
		}

		if strings.EqualFold(optionToken(line), key) {
			continue
		}

		if strings.EqualFold(firstToken(line), "match") {
			if !inserted {
				out = append(out, key+" "+value)
				inserted = true
			}
			inMatch = true
		}
		out = append(out, line)
	}

	if !inserted {
		out = append(out, key+" "+value)
	}
	return out
}

// Harden applies HardenOptions in order. Each application re-scans the
// already-patched lines, so the directives end up grouped in call order
// just before the first Match block.
func Harden(lines []string) []string {
	for _, opt := range HardenOptions {
		lines = SetGlobalOption(lines, opt.Key, opt.Value)
	}
	return lines
}

// HardenFile applies Harden to the config at path, backing up and
// atomically rewriting it when the content changes. Reports whether the
// file changed so the caller knows to restart sshd.
func HardenFile(path string) (bool, error) {
	lines, trailingNewline, err := textfile.ReadLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, errors.New(errors.ErrPrecheck,
				fmt.Sprintf("%s does not exist", path),
				"Is the OpenSSH server installed?")
		}
		return false, errors.WrapWithCode(err, errors.ErrPrecheck,
			fmt.Sprintf("Couldn't read %s", path), "")
	}

	out := Harden(lines)
	if slices.Equal(out, lines) {
		return false, nil
	}

	if _, err := textfile.Backup(path); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't back up %s", path), "")
	}
	if err := textfile.WriteLinesAtomic(path, out, trailingNewline, textfile.FileMode(path, 0644)); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't rewrite %s", path), "")
	}
	return true, nil
}

// firstToken returns the first whitespace-delimited token of the raw
// line. A commented-out "#Match" keeps its '#' and so never reads as a
// Match directive.
func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// optionToken returns the first token after stripping leading whitespace
// and at most one '#'.
func optionToken(line string) string {
	stripped := strings.TrimLeft(line, " \t")
	stripped = strings.TrimPrefix(stripped, "#")
	return firstToken(stripped)
}
