package platform

import (
	"strings"

	"github.com/rileyhilliard/hostprep/internal/textfile"
)

// DefaultOSReleasePath is where distributions place their identity file.
const DefaultOSReleasePath = "/etc/os-release"

// OSRelease holds the distribution identity fields from os-release(5).
type OSRelease struct {
	ID         string
	IDLike     []string
	PrettyName string
}

// ReadOSRelease parses the os-release file at path. Callers decide what a
// missing or unreadable file means; the hosts-file gate treats it as an
// unknown distribution.
func ReadOSRelease(path string) (*OSRelease, error) {
	lines, _, err := textfile.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return parseOSRelease(lines), nil
}

func parseOSRelease(lines []string) *OSRelease {
	rel := &OSRelease{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		switch strings.TrimSpace(key) {
		case "ID":
			rel.ID = strings.ToLower(value)
		case "ID_LIKE":
			rel.IDLike = append(rel.IDLike, strings.Fields(strings.ToLower(value))...)
		case "PRETTY_NAME":
			rel.PrettyName = value
		}
	}
	return rel
}

// unquote strips one layer of single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Families returns the distribution's identity tokens, most specific
// first: ID followed by each ID_LIKE entry.
func (o *OSRelease) Families() []string {
	var families []string
	if o.ID != "" {
		families = append(families, o.ID)
	}
	return append(families, o.IDLike...)
}

// InFamily reports whether any identity token matches the safe list.
func (o *OSRelease) InFamily(safe []string) bool {
	for _, fam := range o.Families() {
		for _, s := range safe {
			if strings.EqualFold(fam, s) {
				return true
			}
		}
	}
	return false
}
