// Package util holds the shell-quoting helpers behind the remote
// provisioning commands: every path and key line interpolated into a
// command run over SSH, or printed as a copy-paste fallback, goes
// through these.
package util

import "strings"

// ShellQuote single-quotes s so the remote shell treats it literally.
// Embedded single quotes become '\'' (close, escaped quote, reopen).
// Authorized-keys lines pass through here before they are echoed into
// a remote file, so comments with spaces or quotes stay one argument.
func ShellQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellQuotePreserveTilde quotes path while leaving a leading ~/ bare,
// so the remote shell still expands it to the authenticated account's
// home. Remote installs keep authorized_keys tilde-relative precisely
// so they land in the right home; anything else is quoted whole. A
// ~user prefix is quoted too: expanding someone else's home is never
// what a key install means here.
func ShellQuotePreserveTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		return "~/" + ShellQuote(path[2:])
	}
	if path == "~" {
		return "~"
	}
	return ShellQuote(path)
}
