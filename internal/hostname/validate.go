// Package hostname validates candidate hostnames and applies them to the
// running system and its hostname file.
package hostname

import "strings"

// MaxLength is the cap on a full hostname, per RFC 1035.
const MaxLength = 253

// maxLabelLength caps each dot-separated label.
const maxLabelLength = 63

// Normalize lowercases a candidate hostname. Validation and every
// downstream mutation operate on the normalized form.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// Valid reports whether name is a well-formed hostname after
// normalization: dot-separated labels of 1-63 alphanumeric characters
// with interior hyphens, at most 253 characters in total.
func Valid(name string) bool {
	name = Normalize(name)
	if name == "" || len(name) > MaxLength {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if label == "" || len(label) > maxLabelLength {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// Short returns the first dot-separated label of name.
func Short(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// IsFQDN reports whether name carries more than one label.
func IsFQDN(name string) bool {
	return strings.Contains(name, ".")
}
