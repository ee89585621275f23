package keys

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/textfile"
	"github.com/rileyhilliard/hostprep/internal/util"
	"github.com/rileyhilliard/hostprep/pkg/sshutil"
)

// Remote paths are left tilde-relative so the remote shell expands them for
// whichever account we authenticated as.
const (
	remoteSSHDir         = "~/.ssh"
	remoteAuthorizedKeys = "~/.ssh/authorized_keys"
)

// InstallRemote merges newKeys into the authenticated account's
// authorized_keys on the remote host, with the same semantics as the local
// install: append-only dedupe, overwrite treats the existing file as empty
// after a timestamped backup, and a merge that changes nothing runs no write
// commands at all.
func InstallRemote(client sshutil.SSHClient, newKeys []string, overwrite bool) (*InstallResult, error) {
	existing, hadFile, err := readRemoteKeys(client)
	if err != nil {
		return nil, err
	}

	merged, added := Merge(existing, newKeys, overwrite)
	res := &InstallResult{Path: remoteAuthorizedKeys, Added: added, Total: len(merged)}

	if slices.Equal(merged, existing) {
		return res, nil
	}

	qDir := util.ShellQuotePreserveTilde(remoteSSHDir)
	qKeys := util.ShellQuotePreserveTilde(remoteAuthorizedKeys)

	if hadFile {
		bak := textfile.BackupName(remoteAuthorizedKeys)
		cmd := fmt.Sprintf("cp -p %s %s", qKeys, util.ShellQuotePreserveTilde(bak))
		if _, err := execChecked(client, cmd, "Couldn't back up authorized_keys"); err != nil {
			return nil, err
		}
		res.Backup = bak
	}

	cmd := fmt.Sprintf("mkdir -p %s && chmod 700 %s", qDir, qDir)
	if _, err := execChecked(client, cmd, "Couldn't create ~/.ssh"); err != nil {
		return nil, err
	}

	cmd = fmt.Sprintf("cat > %s << 'EOF'\n%s\nEOF", qKeys, strings.Join(merged, "\n"))
	if _, err := execChecked(client, cmd, "Couldn't write authorized_keys"); err != nil {
		return nil, err
	}

	cmd = fmt.Sprintf("chmod 600 %s", qKeys)
	if _, err := execChecked(client, cmd, "Couldn't set permissions on authorized_keys"); err != nil {
		return nil, err
	}

	res.Changed = true
	return res, nil
}

// readRemoteKeys reads the remote authorized_keys file. A missing file is
// not an error; hadFile reports whether one was there.
func readRemoteKeys(client sshutil.SSHClient) (lines []string, hadFile bool, err error) {
	stdout, _, code, err := client.Exec(fmt.Sprintf("cat %s 2>/dev/null", util.ShellQuotePreserveTilde(remoteAuthorizedKeys)))
	if err != nil {
		return nil, false, err
	}
	if code != 0 {
		return nil, false, nil
	}

	// Strip carriage returns before splitting: a CRLF-tainted remote file
	// would otherwise never match the byte-identical dedupe on merge.
	s := strings.ReplaceAll(string(stdout), "\r", "")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, true, nil
	}
	return strings.Split(s, "\n"), true, nil
}

// execChecked runs cmd and turns a non-zero exit into a structured error
// naming the host and carrying the remote stderr.
func execChecked(client sshutil.SSHClient, cmd, what string) ([]byte, error) {
	stdout, stderr, code, err := client.Exec(cmd)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		msg := fmt.Sprintf("%s on %s", what, client.GetHost())
		if detail := strings.TrimSpace(string(stderr)); detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, detail)
		}
		return nil, errors.New(errors.ErrSSH, msg,
			"Check the remote account's home directory and permissions.")
	}
	return stdout, nil
}

// ManualInstructions returns copy-paste commands for installing keys on a
// host this tool couldn't reach over SSH.
func ManualInstructions(target string, keys []string) string {
	var sb strings.Builder
	sb.WriteString("To install the keys by hand once you can log in:\n\n")
	sb.WriteString(fmt.Sprintf("  ssh %s \"mkdir -p ~/.ssh && chmod 700 ~/.ssh\"\n", target))
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("  ssh %s \"echo %s >> ~/.ssh/authorized_keys\"\n", target, util.ShellQuote(key)))
	}
	sb.WriteString(fmt.Sprintf("  ssh %s \"chmod 600 ~/.ssh/authorized_keys\"", target))
	return sb.String()
}
