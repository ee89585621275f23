package keys

import (
	"strings"

	"golang.org/x/crypto/ssh"
)

// Fingerprints renders a display line per key: type, SHA256 fingerprint,
// and comment. Lines the parser rejects are reported as unparseable
// rather than dropped; the filter decides what installs, not the parser.
func Fingerprints(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		pub, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			out[i] = firstField(line) + " (unparseable)"
			continue
		}
		label := pub.Type() + " " + ssh.FingerprintSHA256(pub)
		if comment != "" {
			label += " " + comment
		}
		out[i] = label
	}
	return out
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
