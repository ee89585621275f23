package keys

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/util"
)

// Source names where the keys come from. At most one field may be set;
// with none set, Resolve falls back to the configured default URL.
type Source struct {
	// GitHubUser fetches the account's public key listing from GitHub.
	GitHubUser string
	// URL fetches an arbitrary plain-text key listing.
	URL string
	// File reads a local file. Tilde expansion happens at the CLI layer.
	File string
	// Inline takes key lines straight from the command line. Repeated
	// flags concatenate and count as a single source.
	Inline []string
}

// githubKeysURL builds the public key listing URL for a GitHub account.
func githubKeysURL(user string) string {
	return "https://github.com/" + user + ".keys"
}

func (s Source) active() int {
	n := 0
	if s.GitHubUser != "" {
		n++
	}
	if s.URL != "" {
		n++
	}
	if s.File != "" {
		n++
	}
	if len(s.Inline) > 0 {
		n++
	}
	return n
}

// Validate enforces the one-source rule.
func (s Source) Validate() error {
	if s.active() > 1 {
		return errors.New(errors.ErrValidation,
			"Conflicting key sources",
			"Pick one of --github, --url, --file, or --key; they can't be combined.")
	}
	return nil
}

// Resolve produces the raw key text plus a short description of its
// origin for logging. defaultURL backs the no-flags case.
func (s Source) Resolve(f *Fetcher, defaultURL string) (raw, origin string, err error) {
	if err := s.Validate(); err != nil {
		return "", "", err
	}

	switch {
	case s.GitHubUser != "":
		url := githubKeysURL(s.GitHubUser)
		raw, err = f.Fetch(url)
		return raw, fmt.Sprintf("GitHub user %s", s.GitHubUser), err

	case s.URL != "":
		raw, err = f.Fetch(s.URL)
		return raw, s.URL, err

	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return "", "", errors.WrapWithCode(err, errors.ErrPrecheck,
				fmt.Sprintf("Couldn't read %s", s.File),
				"Check the path passed with --file.")
		}
		return string(data), s.File, nil

	case len(s.Inline) > 0:
		origin = fmt.Sprintf("%d inline %s", len(s.Inline),
			util.Pluralize(len(s.Inline), "key", "keys"))
		return strings.Join(s.Inline, "\n"), origin, nil
	}

	if defaultURL == "" {
		return "", "", errors.New(errors.ErrValidation,
			"No key source given and no default URL configured",
			"Pass --github, --url, --file, or --key, or set keys.default_url in the config.")
	}
	raw, err = f.Fetch(defaultURL)
	return raw, defaultURL, err
}
