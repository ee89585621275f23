// Package keys acquires SSH public keys from one of four sources,
// filters them down to installable lines, and merges them into a target
// account's authorized_keys file.
package keys

import (
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
)

// algorithmPrefixes are the recognized authorized_keys line leaders.
var algorithmPrefixes = []string{"ssh-", "ecdsa-", "sk-"}

// Filter normalizes raw key material into the lines worth installing:
// carriage returns stripped, blank lines dropped, and only lines that
// start with a recognized algorithm prefix and have at least two fields
// survive. Duplicates are removed keeping first-seen order; a line's
// identity is its exact text. An empty result is fatal: provisioning an
// account with zero keys means the source was wrong.
func Filter(raw string) ([]string, error) {
	raw = strings.ReplaceAll(raw, "\r", "")

	var out []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !hasAlgorithmPrefix(line) {
			continue
		}
		if len(strings.Fields(line)) < 2 {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}

	if len(out) == 0 {
		return nil, errors.New(errors.ErrValidation,
			"No usable public keys in the source",
			"Expected lines like 'ssh-ed25519 AAAA... comment'. Check the source and try again.")
	}
	return out, nil
}

func hasAlgorithmPrefix(line string) bool {
	for _, p := range algorithmPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
