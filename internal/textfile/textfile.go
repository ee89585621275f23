// Package textfile provides the line-oriented file editing discipline shared
// by the provisioning commands: read a file into lines, rewrite it through an
// atomic temp-file swap, and take a timestamped backup before mutating.
package textfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupTimeFormat produces the .bak.YYYYMMDDHHMMSS suffix.
const backupTimeFormat = "20060102150405"

// ReadLines reads path and splits it into lines, reporting whether the file
// ended with a newline so a rewrite can reproduce the same shape. A trailing
// newline does not produce a final empty line; interior blank lines are
// preserved. Returns an error when the file does not exist so callers can
// fail before mutating.
func ReadLines(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	s := string(data)
	if s == "" {
		return nil, false, nil
	}
	trailing := strings.HasSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n"), trailing, nil
}

// WriteLinesAtomic replaces path with the given lines via a temp file in the
// same directory followed by a rename, so readers never observe a partial
// file. The temp file is removed on every failure path. trailingNewline
// controls whether the content ends with a newline, so a read-modify-write
// pass keeps the shape ReadLines observed.
func WriteLinesAtomic(path string, lines []string, trailingNewline bool, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // gone already after a successful rename

	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n")
		if trailingNewline {
			content += "\n"
		}
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close() //nolint:errcheck // Cleanup, error not actionable
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck // Cleanup, error not actionable
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// FileMode returns the permission bits of path, or fallback when the file
// does not exist yet.
func FileMode(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}

// BackupName returns the sibling backup name for path at the current time:
// <path>.bak.<YYYYMMDDHHMMSS>. Remote provisioning uses the same naming when
// it backs files up over SSH.
func BackupName(path string) string {
	return path + ".bak." + time.Now().Format(backupTimeFormat)
}

// Backup copies path to a sibling named <path>.bak.<YYYYMMDDHHMMSS> and
// returns the backup path. The copy keeps the source's permission bits.
// Backups are never removed by this tool.
func Backup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close() //nolint:errcheck // Best-effort close, error not actionable

	info, err := src.Stat()
	if err != nil {
		return "", err
	}

	bakPath := BackupName(path)
	dst, err := os.OpenFile(bakPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()        //nolint:errcheck // Cleanup, error not actionable
		os.Remove(bakPath) //nolint:errcheck // Cleanup, error not actionable
		return "", fmt.Errorf("copying %s to %s: %w", path, bakPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return bakPath, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
