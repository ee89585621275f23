package keys

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/textfile"
)

// InstallResult reports what an install run did.
type InstallResult struct {
	Path    string // authorized_keys path
	Added   int    // lines actually appended
	Total   int    // lines in the file afterwards
	Backup  string // backup path, "" when no backup was taken
	Changed bool
}

// InstallTo merges newKeys into the authorized_keys file under sshDir,
// creating the directory (0700) and file (0600) as needed. The file is
// backed up before any change and rewritten atomically; a merge that
// adds nothing leaves it untouched.
func InstallTo(sshDir string, newKeys []string, overwrite bool) (*InstallResult, error) {
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't create %s", sshDir), "")
	}
	if err := os.Chmod(sshDir, 0700); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't tighten permissions on %s", sshDir), "")
	}

	authPath := filepath.Join(sshDir, "authorized_keys")
	existing, trailingNewline, err := textfile.ReadLines(authPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrEnvironment,
				fmt.Sprintf("Couldn't read %s", authPath), "")
		}
		// fresh file, write it newline-terminated
		trailingNewline = true
	}

	merged, added := Merge(existing, newKeys, overwrite)
	res := &InstallResult{Path: authPath, Added: added, Total: len(merged)}

	if slices.Equal(merged, existing) {
		return res, nil
	}

	if textfile.Exists(authPath) {
		bak, err := textfile.Backup(authPath)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrEnvironment,
				fmt.Sprintf("Couldn't back up %s", authPath), "")
		}
		res.Backup = bak
	}
	if err := textfile.WriteLinesAtomic(authPath, merged, trailingNewline, 0600); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't write %s", authPath), "")
	}
	res.Changed = true
	return res, nil
}

// Install resolves the target account and installs newKeys under its
// home directory. Ownership of the .ssh tree follows the account so a
// sudo run doesn't leave root-owned files behind; chown failures are
// silent.
func Install(username string, newKeys []string, overwrite bool) (*InstallResult, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPrecheck,
			fmt.Sprintf("No such user: %s", username),
			"Pass the target account explicitly with -t.")
	}

	sshDir := filepath.Join(u.HomeDir, ".ssh")
	res, err := InstallTo(sshDir, newKeys, overwrite)
	if err != nil {
		return nil, err
	}

	paths := []string{sshDir, res.Path}
	if res.Backup != "" {
		paths = append(paths, res.Backup)
	}
	chownTree(u, paths...)
	return res, nil
}

// chownTree points paths at the target account. Best effort.
func chownTree(u *user.User, paths ...string) {
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return
	}
	for _, p := range paths {
		_ = os.Chown(p, uid, gid)
	}
}
